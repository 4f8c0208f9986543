package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gmml-lab/inventory-backend/internal/authz"
	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/enums"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the users controller and the auth flow.
type Service interface {
	EnsureProfile(ctx context.Context, email, fullName string) (*models.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	ListUsers(ctx context.Context, actorID uuid.UUID) ([]ProfileDTO, error)
	SetRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.Role) (*ProfileDTO, error)
}

type profileRepository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

type service struct {
	profiles    profileRepository
	adminEmails map[string]struct{}
}

// NewService constructs a users service. adminEmails holds lowercased
// addresses that are bootstrapped as admins when their profile is first
// created; it never overrides a role an admin set later.
func NewService(profiles profileRepository, adminEmails map[string]struct{}) (Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	if adminEmails == nil {
		adminEmails = map[string]struct{}{}
	}
	return &service{profiles: profiles, adminEmails: adminEmails}, nil
}

// EnsureProfile returns the profile for the given email, creating it on first
// sign-in. New profiles default to the user role unless the email is on the
// admin bootstrap list.
func (s *service) EnsureProfile(ctx context.Context, email, fullName string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup profile")
	}

	role := enums.RoleUser
	if _, bootstrap := s.adminEmails[email]; bootstrap {
		role = enums.RoleAdmin
	}
	created, err := s.profiles.Create(ctx, &models.Profile{
		Email:    email,
		FullName: strings.TrimSpace(fullName),
		Role:     role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create profile")
	}
	return created, nil
}

// GetProfile loads a single profile by ID.
func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load profile")
	}
	return FromModel(profile), nil
}

// ListUsers returns every profile; admin only.
func (s *service) ListUsers(ctx context.Context, actorID uuid.UUID) ([]ProfileDTO, error) {
	if err := s.ensureRoleManager(ctx, actorID); err != nil {
		return nil, err
	}
	rows, err := s.profiles.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list profiles")
	}
	dtos := make([]ProfileDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

// SetRole assigns a new role to the target profile. Admins cannot demote
// themselves; that keeps at least the acting admin in place.
func (s *service) SetRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.Role) (*ProfileDTO, error) {
	if err := s.ensureRoleManager(ctx, actorID); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}
	if actorID == targetID && role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admins cannot demote themselves")
	}

	target, err := s.profiles.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load target profile")
	}

	target.Role = role
	saved, err := s.profiles.Save(ctx, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save profile role")
	}
	return FromModel(saved), nil
}

func (s *service) ensureRoleManager(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.profiles.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load actor profile")
	}
	if !authz.CanMutate(actor.Role, authz.OpRoleManage) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage users")
	}
	return nil
}
