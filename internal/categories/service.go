package categories

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

// CategoryDTO is the API projection of a category lookup entry.
type CategoryDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedBy   *uuid.UUID `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Service exposes admin-gated category management.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, actorID uuid.UUID, name, description string) (*CategoryDTO, error)
	RenameCategory(ctx context.Context, actorID, categoryID uuid.UUID, newName string) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, actorID, categoryID uuid.UUID) error
}

type actorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     CategoryRepository
	dbClient txRunner
	actors   actorLoader
}

// NewService constructs a category service instance.
func NewService(repo CategoryRepository, dbClient *db.Client, actors actorLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if actors == nil {
		return nil, fmt.Errorf("actor loader required")
	}
	return &service{repo: repo, dbClient: dbClient, actors: actors}, nil
}

// ListCategories returns every category; all authenticated roles may read.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toCategoryDTO(row))
	}
	return dtos, nil
}

// CreateCategory inserts a uniquely named category stamped with its creator.
func (s *service) CreateCategory(ctx context.Context, actorID uuid.UUID, name, description string) (*CategoryDTO, error) {
	if err := s.ensureAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	category := &models.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   &actorID,
	}
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_categories_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}

	dto := toCategoryDTO(*created)
	return &dto, nil
}

// RenameCategory updates the lookup row and rewrites the denormalized name on
// every item referencing it, atomically.
func (s *service) RenameCategory(ctx context.Context, actorID, categoryID uuid.UUID, newName string) (*CategoryDTO, error) {
	if err := s.ensureAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	category, err := s.loadCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	oldName := category.Name
	if oldName == newName {
		dto := toCategoryDTO(*category)
		return &dto, nil
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		category.Name = newName
		if _, err := txRepo.Save(ctx, category); err != nil {
			if db.IsUniqueViolation(err, "idx_categories_name") {
				return pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rename category")
		}
		if err := txRepo.RenameItemRefs(ctx, oldName, newName); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cascade category rename")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	dto := toCategoryDTO(*category)
	return &dto, nil
}

// DeleteCategory removes the lookup entry unless any item still references it.
func (s *service) DeleteCategory(ctx context.Context, actorID, categoryID uuid.UUID) error {
	if err := s.ensureAdmin(ctx, actorID); err != nil {
		return err
	}

	category, err := s.loadCategory(ctx, categoryID)
	if err != nil {
		return err
	}

	inUse, err := s.repo.CountItemsUsing(ctx, category.Name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count category usage")
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category is in use by inventory items").
			WithDetails(map[string]any{"items_using": inUse})
	}

	if err := s.repo.Delete(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
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
	if !authz.CanMutate(actor.Role, authz.OpCategoryManage) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage categories")
	}
	return nil
}

func (s *service) loadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func toCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedBy:   category.CreatedBy,
		CreatedAt:   category.CreatedAt,
	}
}
