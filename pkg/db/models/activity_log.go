package models

import (
	"time"

	"github.com/gmml-lab/inventory-backend/pkg/enums"
	"github.com/gmml-lab/inventory-backend/pkg/types"
	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record for item mutations. ItemName and
// UserEmail are denormalized so entries survive deletion of their subjects.
type ActivityLog struct {
	ID        uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID    uuid.UUID            `gorm:"column:item_id;type:uuid;not null;index"`
	ItemName  string               `gorm:"column:item_name;not null"`
	UserID    uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	UserEmail string               `gorm:"column:user_email;not null"`
	Action    enums.ActivityAction `gorm:"type:text;not null"`
	Changes   types.ChangeSet      `gorm:"type:jsonb;not null"`
	Timestamp time.Time            `gorm:"column:timestamp;not null;index:idx_activity_logs_timestamp,sort:desc"`
}
