package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gmml-lab/inventory-backend/internal/authz"
	"github.com/gmml-lab/inventory-backend/pkg/db"
	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationDTO is the API projection of a storage location entry.
type LocationDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedBy   *uuid.UUID `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Service exposes admin-gated storage location management.
type Service interface {
	ListLocations(ctx context.Context) ([]LocationDTO, error)
	CreateLocation(ctx context.Context, actorID uuid.UUID, name, description string) (*LocationDTO, error)
	RenameLocation(ctx context.Context, actorID, locationID uuid.UUID, newName string) (*LocationDTO, error)
	DeleteLocation(ctx context.Context, actorID, locationID uuid.UUID) error
}

type actorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     LocationRepository
	dbClient txRunner
	actors   actorLoader
}

// NewService constructs a storage location service instance.
func NewService(repo LocationRepository, dbClient *db.Client, actors actorLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if actors == nil {
		return nil, fmt.Errorf("actor loader required")
	}
	return &service{repo: repo, dbClient: dbClient, actors: actors}, nil
}

// ListLocations returns every location; all authenticated roles may read.
func (s *service) ListLocations(ctx context.Context) ([]LocationDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	dtos := make([]LocationDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toLocationDTO(row))
	}
	return dtos, nil
}

// CreateLocation inserts a uniquely named location stamped with its creator.
func (s *service) CreateLocation(ctx context.Context, actorID uuid.UUID, name, description string) (*LocationDTO, error) {
	if err := s.ensureAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	location := &models.StorageLocation{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   &actorID,
	}
	created, err := s.repo.Create(ctx, location)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_storage_locations_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "location already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert location")
	}

	dto := toLocationDTO(*created)
	return &dto, nil
}

// RenameLocation updates the lookup row and rewrites the denormalized name on
// every item referencing it, atomically.
func (s *service) RenameLocation(ctx context.Context, actorID, locationID uuid.UUID, newName string) (*LocationDTO, error) {
	if err := s.ensureAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	location, err := s.loadLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	oldName := location.Name
	if oldName == newName {
		dto := toLocationDTO(*location)
		return &dto, nil
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		location.Name = newName
		if _, err := txRepo.Save(ctx, location); err != nil {
			if db.IsUniqueViolation(err, "idx_storage_locations_name") {
				return pkgerrors.New(pkgerrors.CodeConflict, "location already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rename location")
		}
		if err := txRepo.RenameItemRefs(ctx, oldName, newName); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cascade location rename")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	dto := toLocationDTO(*location)
	return &dto, nil
}

// DeleteLocation removes the lookup entry unless any item still references it.
func (s *service) DeleteLocation(ctx context.Context, actorID, locationID uuid.UUID) error {
	if err := s.ensureAdmin(ctx, actorID); err != nil {
		return err
	}

	location, err := s.loadLocation(ctx, locationID)
	if err != nil {
		return err
	}

	inUse, err := s.repo.CountItemsUsing(ctx, location.Name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count location usage")
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "location is in use by inventory items").
			WithDetails(map[string]any{"items_using": inUse})
	}

	if err := s.repo.Delete(ctx, locationID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete location")
	}
	return nil
}

func (s *service) ensureAdmin(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.actors.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load actor profile")
	}
	if !authz.CanMutate(actor.Role, authz.OpLocationManage) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage locations")
	}
	return nil
}

func (s *service) loadLocation(ctx context.Context, id uuid.UUID) (*models.StorageLocation, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return location, nil
}

func toLocationDTO(location models.StorageLocation) LocationDTO {
	return LocationDTO{
		ID:          location.ID,
		Name:        location.Name,
		Description: location.Description,
		CreatedBy:   location.CreatedBy,
		CreatedAt:   location.CreatedAt,
	}
}
