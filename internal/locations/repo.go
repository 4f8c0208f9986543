package locations

import (
	"context"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationRepository defines persistence operations for storage locations.
type LocationRepository interface {
	WithTx(tx *gorm.DB) LocationRepository
	List(ctx context.Context) ([]models.StorageLocation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.StorageLocation, error)
	Create(ctx context.Context, location *models.StorageLocation) (*models.StorageLocation, error)
	Save(ctx context.Context, location *models.StorageLocation) (*models.StorageLocation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountItemsUsing(ctx context.Context, name string) (int64, error)
	RenameItemRefs(ctx context.Context, oldName, newName string) error
}

// Repository wires storage location persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) LocationRepository {
	return &Repository{db: tx}
}

// List returns every location ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.StorageLocation, error) {
	var rows []models.StorageLocation
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindByID loads a single location.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StorageLocation, error) {
	var location models.StorageLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// Create inserts a new location row.
func (r *Repository) Create(ctx context.Context, location *models.StorageLocation) (*models.StorageLocation, error) {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// Save updates an existing location row.
func (r *Repository) Save(ctx context.Context, location *models.StorageLocation) (*models.StorageLocation, error) {
	if err := r.db.WithContext(ctx).Save(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// Delete removes a location by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StorageLocation{}).Error
}

// CountItemsUsing counts inventory items referencing the location name.
func (r *Repository) CountItemsUsing(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("location = ?", name).
		Count(&count).
		Error
	return count, err
}

// RenameItemRefs rewrites the denormalized location name on items.
func (r *Repository) RenameItemRefs(ctx context.Context, oldName, newName string) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("location = ?", oldName).
		Update("location", newName).
		Error
}
