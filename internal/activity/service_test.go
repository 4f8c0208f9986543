package activity

import (
	"context"
	"testing"
	"time"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/enums"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/gmml-lab/inventory-backend/pkg/pagination"
	"github.com/google/uuid"
)

type fakeLister struct {
	rows []models.ActivityLog
}

func (f *fakeLister) ListPage(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.ActivityLog, error) {
	filtered := make([]models.ActivityLog, 0, len(f.rows))
	for _, row := range f.rows {
		if cursor != nil {
			if row.Timestamp.After(cursor.Timestamp) {
				continue
			}
			if row.Timestamp.Equal(cursor.Timestamp) && row.ID.String() >= cursor.ID.String() {
				continue
			}
		}
		filtered = append(filtered, row)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func seedEntries(n int) []models.ActivityLog {
	base := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	rows := make([]models.ActivityLog, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.ActivityLog{
			ID:        uuid.New(),
			ItemID:    uuid.New(),
			ItemName:  "Item",
			UserID:    uuid.New(),
			UserEmail: "user@example.com",
			Action:    enums.ActivityActionUpdated,
			Timestamp: base.Add(-time.Duration(i) * time.Minute),
		})
	}
	return rows
}

func TestListEntriesFirstPageAndCursor(t *testing.T) {
	lister := &fakeLister{rows: seedEntries(5)}
	svc := &service{repo: lister}

	page, err := svc.ListEntries(context.Background(), pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(page.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(page.Entries))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor for remaining entries")
	}

	second, err := svc.ListEntries(context.Background(), pagination.Params{Limit: 3, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Entries) != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", len(second.Entries))
	}
	if second.NextCursor != "" {
		t.Fatalf("expected exhausted feed, got cursor %q", second.NextCursor)
	}

	seen := map[uuid.UUID]bool{}
	for _, entry := range append(page.Entries, second.Entries...) {
		if seen[entry.ID] {
			t.Fatalf("entry %s appeared twice", entry.ID)
		}
		seen[entry.ID] = true
	}
}

func TestListEntriesInvalidCursor(t *testing.T) {
	svc := &service{repo: &fakeLister{}}

	_, err := svc.ListEntries(context.Background(), pagination.Params{Cursor: "!!!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListEntriesEmptyFeed(t *testing.T) {
	svc := &service{repo: &fakeLister{}}

	page, err := svc.ListEntries(context.Background(), pagination.Params{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(page.Entries) != 0 || page.NextCursor != "" {
		t.Fatalf("expected empty page, got %+v", page)
	}
}
