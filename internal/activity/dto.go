package activity

import (
	"time"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/enums"
	"github.com/gmml-lab/inventory-backend/pkg/types"
	"github.com/google/uuid"
)

// EntryDTO is the API projection of one activity log entry.
type EntryDTO struct {
	ID        uuid.UUID            `json:"id"`
	ItemID    uuid.UUID            `json:"item_id"`
	ItemName  string               `json:"item_name"`
	UserID    uuid.UUID            `json:"user_id"`
	UserEmail string               `json:"user_email"`
	Action    enums.ActivityAction `json:"action"`
	Changes   types.ChangeSet      `json:"changes"`
	Timestamp time.Time            `json:"timestamp"`
}

// FeedResult is one page of the activity feed.
type FeedResult struct {
	Entries    []EntryDTO `json:"entries"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toEntryDTO(entry models.ActivityLog) EntryDTO {
	return EntryDTO{
		ID:        entry.ID,
		ItemID:    entry.ItemID,
		ItemName:  entry.ItemName,
		UserID:    entry.UserID,
		UserEmail: entry.UserEmail,
		Action:    entry.Action,
		Changes:   entry.Changes,
		Timestamp: entry.Timestamp,
	}
}
