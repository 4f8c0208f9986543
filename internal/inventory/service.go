package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gmml-lab/inventory-backend/internal/authz"
	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/enums"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/gmml-lab/inventory-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes inventory item management operations.
type Service interface {
	ListItems(ctx context.Context, filters ListFilters) ([]ItemDTO, error)
	CreateItem(ctx context.Context, actorID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, actorID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, actorID, itemID uuid.UUID) error
	ExportCSV(ctx context.Context, filters ListFilters, w io.Writer) error
}

type actorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type activityRecorder interface {
	Record(ctx context.Context, entry *models.ActivityLog) error
}

// service implements the inventory service. Actor roles are re-read from the
// profiles table on every mutation so JWT claims can never grant stale access.
type service struct {
	repo     ItemRepository
	actors   actorLoader
	activity activityRecorder
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs an inventory service instance.
func NewService(repo ItemRepository, actors actorLoader, activity activityRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if actors == nil {
		return nil, fmt.Errorf("actor loader required")
	}
	if activity == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		actors:   actors,
		activity: activity,
		logg:     logg,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// ListItems returns the filtered item view with derived statuses.
func (s *service) ListItems(ctx context.Context, filters ListFilters) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	now := s.now()
	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toItemDTO(row, now))
	}
	return ApplyFilters(items, filters), nil
}

// CreateItem inserts the item and records a created activity snapshot after
// the insert commits.
func (s *service) CreateItem(ctx context.Context, actorID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor.Role, authz.OpItemCreate) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot create items")
	}
	if err := validateItemFields(input.Name, input.Category, input.Location, input.CurrentStock, input.MinStock); err != nil {
		return nil, err
	}

	now := s.now()
	item := &models.InventoryItem{
		Name:         strings.TrimSpace(input.Name),
		Category:     strings.TrimSpace(input.Category),
		CurrentStock: input.CurrentStock,
		MinStock:     input.MinStock,
		Unit:         strings.TrimSpace(input.Unit),
		ExpireDate:   input.ExpireDate,
		Location:     strings.TrimSpace(input.Location),
		CreatedBy:    &actor.ID,
		UpdatedBy:    &actor.ID,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
	}

	s.recordActivity(ctx, newActivityEntry(created, actor, enums.ActivityActionCreated, Snapshot(*created, now), now))

	dto := toItemDTO(*created, now)
	return &dto, nil
}

// UpdateItem applies the patch, saving the row and logging the field diff.
// An update that changes nothing still saves but writes no activity entry.
func (s *service) UpdateItem(ctx context.Context, actorID, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor.Role, authz.OpItemUpdate) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot update items")
	}

	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	before := *item
	applyUpdateToItem(item, input)
	if err := validateItemFields(item.Name, item.Category, item.Location, item.CurrentStock, item.MinStock); err != nil {
		return nil, err
	}

	now := s.now()
	changes := ComputeDiff(before, *item, now)

	item.UpdatedBy = &actor.ID
	if _, err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
	}

	if len(changes) > 0 {
		s.recordActivity(ctx, newActivityEntry(item, actor, enums.ActivityActionUpdated, changes, now))
	}

	dto := toItemDTO(*item, now)
	return &dto, nil
}

// DeleteItem logs the deleted entry before removing the row so the denormalized
// item name is captured while the item still exists. The two writes are not
// transactional: a failed delete leaves the log entry in place.
func (s *service) DeleteItem(ctx context.Context, actorID, itemID uuid.UUID) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actor.Role, authz.OpItemDelete) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot delete items")
	}

	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return err
	}

	now := s.now()
	s.recordActivity(ctx, newActivityEntry(item, actor, enums.ActivityActionDeleted, Snapshot(*item, now), now))

	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
	}
	return nil
}

// ExportCSV streams the filtered item view as CSV.
func (s *service) ExportCSV(ctx context.Context, filters ListFilters, w io.Writer) error {
	items, err := s.ListItems(ctx, filters)
	if err != nil {
		return err
	}
	if err := WriteCSV(w, items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode csv export")
	}
	return nil
}

// recordActivity is fire and forget: a failed log write is reported and never
// retried, and it never fails the mutation it describes.
func (s *service) recordActivity(ctx context.Context, entry *models.ActivityLog) {
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logg.Error(ctx, "activity.record_failed", err)
	}
}

func (s *service) loadActor(ctx context.Context, actorID uuid.UUID) (*models.Profile, error) {
	actor, err := s.actors.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load actor profile")
	}
	return actor, nil
}

func (s *service) loadItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func newActivityEntry(item *models.InventoryItem, actor *models.Profile, action enums.ActivityAction, changes map[string]any, now time.Time) *models.ActivityLog {
	return &models.ActivityLog{
		ItemID:    item.ID,
		ItemName:  item.Name,
		UserID:    actor.ID,
		UserEmail: actor.Email,
		Action:    action,
		Changes:   changes,
		Timestamp: now,
	}
}

func validateItemFields(name, category, location string, currentStock, minStock int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if strings.TrimSpace(location) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if currentStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "current_stock must be non-negative")
	}
	if minStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_stock must be non-negative")
	}
	return nil
}

func applyUpdateToItem(item *models.InventoryItem, input UpdateItemInput) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}
	if input.CurrentStock != nil {
		item.CurrentStock = *input.CurrentStock
	}
	if input.MinStock != nil {
		item.MinStock = *input.MinStock
	}
	if input.Unit != nil {
		item.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.ClearExpireDate {
		item.ExpireDate = nil
	} else if input.ExpireDate != nil {
		item.ExpireDate = input.ExpireDate
	}
	if input.Location != nil {
		item.Location = strings.TrimSpace(*input.Location)
	}
}
