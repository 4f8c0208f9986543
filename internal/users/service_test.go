package users

import (
	"context"
	"testing"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/enums"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]models.Profile)}
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	f.profiles[profile.ID] = *profile
	return profile, nil
}

func (f *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			match := p
			return &match, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeProfileRepo) List(ctx context.Context) ([]models.Profile, error) {
	rows := make([]models.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		rows = append(rows, p)
	}
	return rows, nil
}

func (f *fakeProfileRepo) Save(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	f.profiles[profile.ID] = *profile
	return profile, nil
}

func (f *fakeProfileRepo) add(role enums.Role) uuid.UUID {
	id := uuid.New()
	f.profiles[id] = models.Profile{ID: id, Email: string(role) + "@example.com", Role: role}
	return id
}

func newTestService(t *testing.T, adminEmails map[string]struct{}) (Service, *fakeProfileRepo) {
	t.Helper()
	repo := newFakeProfileRepo()
	svc, err := NewService(repo, adminEmails)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestEnsureProfileCreatesDefaultUser(t *testing.T) {
	svc, _ := newTestService(t, nil)

	profile, err := svc.EnsureProfile(context.Background(), "  Cook@Example.COM ", "Line Cook")
	if err != nil {
		t.Fatalf("ensure profile: %v", err)
	}
	if profile.Email != "cook@example.com" {
		t.Fatalf("expected normalized email, got %q", profile.Email)
	}
	if profile.Role != enums.RoleUser {
		t.Fatalf("new profile must default to user role, got %s", profile.Role)
	}

	again, err := svc.EnsureProfile(context.Background(), "cook@example.com", "Renamed")
	if err != nil {
		t.Fatalf("ensure existing profile: %v", err)
	}
	if again.ID != profile.ID || again.FullName != "Line Cook" {
		t.Fatalf("repeat sign-in must return the existing profile unchanged, got %+v", again)
	}
}

func TestEnsureProfileBootstrapsAdminEmail(t *testing.T) {
	svc, repo := newTestService(t, map[string]struct{}{"chef@example.com": {}})

	profile, err := svc.EnsureProfile(context.Background(), "chef@example.com", "Head Chef")
	if err != nil {
		t.Fatalf("ensure profile: %v", err)
	}
	if profile.Role != enums.RoleAdmin {
		t.Fatalf("bootstrap email must create admin, got %s", profile.Role)
	}

	// A later demotion sticks even for a bootstrap address.
	demoted := repo.profiles[profile.ID]
	demoted.Role = enums.RoleMember
	repo.profiles[profile.ID] = demoted

	again, err := svc.EnsureProfile(context.Background(), "chef@example.com", "Head Chef")
	if err != nil {
		t.Fatalf("ensure existing profile: %v", err)
	}
	if again.Role != enums.RoleMember {
		t.Fatalf("sign-in must not re-promote a demoted bootstrap admin, got %s", again.Role)
	}
}

func TestListUsersAdminOnly(t *testing.T) {
	svc, repo := newTestService(t, nil)
	admin := repo.add(enums.RoleAdmin)
	member := repo.add(enums.RoleMember)

	rows, err := svc.ListUsers(context.Background(), admin)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(rows))
	}

	_, err = svc.ListUsers(context.Background(), member)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("member must not list users, got %v", err)
	}
}

func TestSetRolePromotesTarget(t *testing.T) {
	svc, repo := newTestService(t, nil)
	admin := repo.add(enums.RoleAdmin)
	target := repo.add(enums.RoleUser)

	dto, err := svc.SetRole(context.Background(), admin, target, enums.RoleMember)
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if dto.Role != enums.RoleMember {
		t.Fatalf("expected member role, got %s", dto.Role)
	}
	if repo.profiles[target].Role != enums.RoleMember {
		t.Fatalf("role must persist, got %s", repo.profiles[target].Role)
	}
}

func TestSetRoleSelfDemotionForbidden(t *testing.T) {
	svc, repo := newTestService(t, nil)
	admin := repo.add(enums.RoleAdmin)

	_, err := svc.SetRole(context.Background(), admin, admin, enums.RoleMember)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden self-demotion, got %v", err)
	}
	if repo.profiles[admin].Role != enums.RoleAdmin {
		t.Fatal("self-demotion must leave the role untouched")
	}

	// Reasserting admin on yourself is allowed.
	if _, err := svc.SetRole(context.Background(), admin, admin, enums.RoleAdmin); err != nil {
		t.Fatalf("self-assign admin: %v", err)
	}
}

func TestSetRoleValidation(t *testing.T) {
	svc, repo := newTestService(t, nil)
	admin := repo.add(enums.RoleAdmin)
	member := repo.add(enums.RoleMember)
	target := repo.add(enums.RoleUser)

	_, err := svc.SetRole(context.Background(), admin, target, enums.Role("owner"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}

	_, err = svc.SetRole(context.Background(), member, target, enums.RoleMember)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("member must not set roles, got %v", err)
	}

	_, err = svc.SetRole(context.Background(), admin, uuid.New(), enums.RoleMember)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing target, got %v", err)
	}

	_, err = svc.SetRole(context.Background(), uuid.New(), target, enums.RoleMember)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unknown actor must be unauthorized, got %v", err)
	}
}
