package activity

import (
	"context"
	"fmt"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/gmml-lab/inventory-backend/pkg/pagination"
)

// Service exposes the read side of the activity feed.
type Service interface {
	ListEntries(ctx context.Context, params pagination.Params) (*FeedResult, error)
}

type entryLister interface {
	ListPage(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.ActivityLog, error)
}

type service struct {
	repo entryLister
}

// NewService constructs an activity feed service.
func NewService(repo entryLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	return &service{repo: repo}, nil
}

// ListEntries returns one cursor page of the feed, newest first.
func (s *service) ListEntries(ctx context.Context, params pagination.Params) (*FeedResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListPage(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity entries")
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{Timestamp: last.Timestamp, ID: last.ID})
	}

	entries := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntryDTO(row))
	}

	return &FeedResult{
		Entries:    entries,
		NextCursor: nextCursor,
	}, nil
}
