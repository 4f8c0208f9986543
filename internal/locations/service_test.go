package locations

import (
	"context"
	"errors"
	"testing"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/enums"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeLocationRepo struct {
	locations map[uuid.UUID]models.StorageLocation
	itemRefs  map[string]int64
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{
		locations: make(map[uuid.UUID]models.StorageLocation),
		itemRefs:  make(map[string]int64),
	}
}

func (f *fakeLocationRepo) WithTx(tx *gorm.DB) LocationRepository { return f }

func (f *fakeLocationRepo) List(ctx context.Context) ([]models.StorageLocation, error) {
	rows := make([]models.StorageLocation, 0, len(f.locations))
	for _, l := range f.locations {
		rows = append(rows, l)
	}
	return rows, nil
}

func (f *fakeLocationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.StorageLocation, error) {
	l, ok := f.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (f *fakeLocationRepo) Create(ctx context.Context, location *models.StorageLocation) (*models.StorageLocation, error) {
	for _, existing := range f.locations {
		if existing.Name == location.Name {
			return nil, errors.New(`duplicate key value violates unique constraint "idx_storage_locations_name"`)
		}
	}
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	f.locations[location.ID] = *location
	return location, nil
}

func (f *fakeLocationRepo) Save(ctx context.Context, location *models.StorageLocation) (*models.StorageLocation, error) {
	for id, existing := range f.locations {
		if id != location.ID && existing.Name == location.Name {
			return nil, errors.New(`duplicate key value violates unique constraint "idx_storage_locations_name"`)
		}
	}
	f.locations[location.ID] = *location
	return location, nil
}

func (f *fakeLocationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.locations, id)
	return nil
}

func (f *fakeLocationRepo) CountItemsUsing(ctx context.Context, name string) (int64, error) {
	return f.itemRefs[name], nil
}

func (f *fakeLocationRepo) RenameItemRefs(ctx context.Context, oldName, newName string) error {
	f.itemRefs[newName] = f.itemRefs[oldName]
	delete(f.itemRefs, oldName)
	return nil
}

type fakeActors struct {
	profiles map[uuid.UUID]models.Profile
}

func (f *fakeActors) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService() (*service, *fakeLocationRepo, *fakeActors) {
	repo := newFakeLocationRepo()
	actors := &fakeActors{profiles: make(map[uuid.UUID]models.Profile)}
	svc := &service{repo: repo, dbClient: fakeTx{}, actors: actors}
	return svc, repo, actors
}

func addActor(actors *fakeActors, role enums.Role) uuid.UUID {
	id := uuid.New()
	actors.profiles[id] = models.Profile{ID: id, Email: string(role) + "@example.com", Role: role}
	return id
}

func TestCreateLocationAdminOnly(t *testing.T) {
	svc, _, actors := newTestService()
	admin := addActor(actors, enums.RoleAdmin)
	member := addActor(actors, enums.RoleMember)
	user := addActor(actors, enums.RoleUser)

	dto, err := svc.CreateLocation(context.Background(), admin, "  Walk-in Freezer ", " frozen stock ")
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	if dto.Name != "Walk-in Freezer" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.Description != "frozen stock" {
		t.Fatalf("expected trimmed description, got %q", dto.Description)
	}
	if dto.CreatedBy == nil || *dto.CreatedBy != admin {
		t.Fatalf("created_by should be the acting admin, got %v", dto.CreatedBy)
	}

	for _, actorID := range []uuid.UUID{member, user} {
		_, err := svc.CreateLocation(context.Background(), actorID, "Pantry", "")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("non-admin must not manage locations, got %v", err)
		}
	}
}

func TestCreateLocationDuplicateConflicts(t *testing.T) {
	svc, _, actors := newTestService()
	admin := addActor(actors, enums.RoleAdmin)

	if _, err := svc.CreateLocation(context.Background(), admin, "Pantry", ""); err != nil {
		t.Fatalf("create location: %v", err)
	}
	_, err := svc.CreateLocation(context.Background(), admin, "Pantry", "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteLocationInUseRefused(t *testing.T) {
	svc, repo, actors := newTestService()
	admin := addActor(actors, enums.RoleAdmin)

	dto, err := svc.CreateLocation(context.Background(), admin, "Pantry", "")
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	repo.itemRefs["Pantry"] = 2

	err = svc.DeleteLocation(context.Background(), admin, dto.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for in-use location, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["items_using"] != int64(2) {
		t.Fatalf("expected usage count in details, got %v", typed.Details())
	}
	if _, exists := repo.locations[dto.ID]; !exists {
		t.Fatal("location must survive refused delete")
	}

	repo.itemRefs["Pantry"] = 0
	if err := svc.DeleteLocation(context.Background(), admin, dto.ID); err != nil {
		t.Fatalf("delete unused location: %v", err)
	}
}

func TestRenameLocationCascadesToItems(t *testing.T) {
	svc, repo, actors := newTestService()
	admin := addActor(actors, enums.RoleAdmin)

	dto, err := svc.CreateLocation(context.Background(), admin, "Cold Room", "")
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	repo.itemRefs["Cold Room"] = 6

	renamed, err := svc.RenameLocation(context.Background(), admin, dto.ID, "Walk-in Cooler")
	if err != nil {
		t.Fatalf("rename location: %v", err)
	}
	if renamed.Name != "Walk-in Cooler" {
		t.Fatalf("unexpected name %q", renamed.Name)
	}
	if repo.itemRefs["Walk-in Cooler"] != 6 {
		t.Fatalf("item refs must follow the rename, got %v", repo.itemRefs)
	}
	if _, stale := repo.itemRefs["Cold Room"]; stale {
		t.Fatal("old name must have no refs left")
	}
}

func TestRenameLocationSameNameIsNoOp(t *testing.T) {
	svc, repo, actors := newTestService()
	admin := addActor(actors, enums.RoleAdmin)

	dto, err := svc.CreateLocation(context.Background(), admin, "Pantry", "")
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	repo.itemRefs["Pantry"] = 1

	renamed, err := svc.RenameLocation(context.Background(), admin, dto.ID, "Pantry")
	if err != nil {
		t.Fatalf("same-name rename: %v", err)
	}
	if renamed.Name != "Pantry" || repo.itemRefs["Pantry"] != 1 {
		t.Fatalf("no-op rename must leave refs untouched, got %v", repo.itemRefs)
	}
}

func TestRenameLocationNotFound(t *testing.T) {
	svc, _, actors := newTestService()
	admin := addActor(actors, enums.RoleAdmin)

	_, err := svc.RenameLocation(context.Background(), admin, uuid.New(), "X")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
