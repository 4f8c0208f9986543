package activity

import (
	"context"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists and reads the append-only activity log.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts an activity entry. Entries never join the transaction of the
// mutation they describe: the feed is best effort and a mutation must not
// roll back because its log write failed.
func (r *Repository) Record(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListPage returns one page of entries, newest first. The limit should
// include the buffer row used to detect a next page.
func (r *Repository) ListPage(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.ActivityLog, error) {
	qb := r.db.WithContext(ctx).Model(&models.ActivityLog{})

	if cursor != nil {
		qb = qb.Where("(timestamp < ?) OR (timestamp = ? AND id < ?)", cursor.Timestamp, cursor.Timestamp, cursor.ID)
	}

	var rows []models.ActivityLog
	err := qb.
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}
