package inventory

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gmml-lab/inventory-backend/pkg/db/models"
	"github.com/gmml-lab/inventory-backend/pkg/enums"
	pkgerrors "github.com/gmml-lab/inventory-backend/pkg/errors"
	"github.com/gmml-lab/inventory-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeItemRepo struct {
	items     map[uuid.UUID]models.InventoryItem
	ops       *[]string
	deleteErr error
}

func newFakeItemRepo(ops *[]string) *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]models.InventoryItem), ops: ops}
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (f *fakeItemRepo) List(ctx context.Context) ([]models.InventoryItem, error) {
	rows := make([]models.InventoryItem, 0, len(f.items))
	for _, item := range f.items {
		rows = append(rows, item)
	}
	return rows, nil
}

func (f *fakeItemRepo) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = *item
	*f.ops = append(*f.ops, "create")
	return item, nil
}

func (f *fakeItemRepo) Save(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	f.items[item.ID] = *item
	*f.ops = append(*f.ops, "save")
	return item, nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, id)
	*f.ops = append(*f.ops, "delete")
	return nil
}

type fakeActivity struct {
	entries   []models.ActivityLog
	ops       *[]string
	recordErr error
}

func (f *fakeActivity) Record(ctx context.Context, entry *models.ActivityLog) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.entries = append(f.entries, *entry)
	*f.ops = append(*f.ops, "record")
	return nil
}

type fakeActors struct {
	profiles map[uuid.UUID]models.Profile
}

func (f *fakeActors) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &profile, nil
}

func newTestService(t *testing.T) (*service, *fakeItemRepo, *fakeActivity, *fakeActors, *[]string) {
	t.Helper()
	ops := &[]string{}
	repo := newFakeItemRepo(ops)
	activity := &fakeActivity{ops: ops}
	actors := &fakeActors{profiles: make(map[uuid.UUID]models.Profile)}
	svc := &service{
		repo:     repo,
		actors:   actors,
		activity: activity,
		logg:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		now:      func() time.Time { return time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC) },
	}
	return svc, repo, activity, actors, ops
}

func addActor(actors *fakeActors, role enums.Role) uuid.UUID {
	id := uuid.New()
	actors.profiles[id] = models.Profile{ID: id, Email: string(role) + "@example.com", Role: role}
	return id
}

func TestCreateItemLogsSnapshot(t *testing.T) {
	svc, repo, activity, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleMember)

	dto, err := svc.CreateItem(context.Background(), actorID, CreateItemInput{
		Name:         "Rice",
		Category:     "Dry Goods",
		CurrentStock: 5,
		MinStock:     5,
		Unit:         "kg",
		Location:     "Pantry",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if dto.Status != "Low Stock" {
		t.Fatalf("stock equal to minimum should derive Low Stock, got %s", dto.Status)
	}
	if dto.CreatedBy == nil || *dto.CreatedBy != actorID {
		t.Fatalf("created_by should be the acting profile, got %v", dto.CreatedBy)
	}
	if dto.UpdatedBy == nil || *dto.UpdatedBy != actorID {
		t.Fatalf("updated_by should be the acting profile, got %v", dto.UpdatedBy)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected item persisted, got %d", len(repo.items))
	}

	if len(activity.entries) != 1 {
		t.Fatalf("expected one activity entry, got %d", len(activity.entries))
	}
	entry := activity.entries[0]
	if entry.Action != enums.ActivityActionCreated {
		t.Fatalf("unexpected action %s", entry.Action)
	}
	if entry.ItemName != "Rice" {
		t.Fatalf("unexpected item name %s", entry.ItemName)
	}
	if entry.Changes["status"] != "Low Stock" {
		t.Fatalf("snapshot should include derived status, got %v", entry.Changes)
	}
}

func TestCreateItemSucceedsWhenLogWriteFails(t *testing.T) {
	svc, repo, activity, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleMember)
	activity.recordErr = errors.New("log store down")

	dto, err := svc.CreateItem(context.Background(), actorID, CreateItemInput{
		Name: "Rice", Category: "Dry Goods", Location: "Pantry",
	})
	if err != nil {
		t.Fatalf("a failed log write must not fail the create, got %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("item must persist despite the log failure, have %d", len(repo.items))
	}
	if dto == nil || dto.Name != "Rice" {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestCreateItemForbiddenForUserRole(t *testing.T) {
	svc, repo, _, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleUser)

	_, err := svc.CreateItem(context.Background(), actorID, CreateItemInput{
		Name: "Rice", Category: "Dry Goods", Location: "Pantry",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatal("item must not be created")
	}
}

func TestCreateItemValidation(t *testing.T) {
	svc, _, _, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleAdmin)

	_, err := svc.CreateItem(context.Background(), actorID, CreateItemInput{
		Name: "  ", Category: "Dry Goods", Location: "Pantry",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.CreateItem(context.Background(), actorID, CreateItemInput{
		Name: "Rice", Category: "Dry Goods", Location: "Pantry", CurrentStock: -1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative stock, got %v", err)
	}
}

func TestUpdateItemLogsDiffWithStatus(t *testing.T) {
	svc, repo, activity, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleMember)

	itemID := uuid.New()
	repo.items[itemID] = models.InventoryItem{
		ID: itemID, Name: "Milk", Category: "Dairy", CurrentStock: 5, MinStock: 5, Location: "Fridge",
	}

	newStock := 0
	dto, err := svc.UpdateItem(context.Background(), actorID, itemID, UpdateItemInput{CurrentStock: &newStock})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if dto.Status != "Out of Stock" {
		t.Fatalf("expected Out of Stock, got %s", dto.Status)
	}
	if dto.UpdatedBy == nil || *dto.UpdatedBy != actorID {
		t.Fatalf("updated_by should be the acting profile, got %v", dto.UpdatedBy)
	}

	if len(activity.entries) != 1 {
		t.Fatalf("expected one activity entry, got %d", len(activity.entries))
	}
	changes := activity.entries[0].Changes
	stock, ok := changes["current_stock"].(map[string]any)
	if !ok {
		t.Fatalf("expected current_stock diff, got %v", changes)
	}
	if stock["from"] != 5 || stock["to"] != 0 {
		t.Fatalf("unexpected stock diff %v", stock)
	}
	status, ok := changes["status"].(map[string]any)
	if !ok {
		t.Fatalf("expected status diff, got %v", changes)
	}
	if status["from"] != "Low Stock" || status["to"] != "Out of Stock" {
		t.Fatalf("unexpected status diff %v", status)
	}
}

func TestUpdateItemSucceedsWhenLogWriteFails(t *testing.T) {
	svc, repo, activity, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleMember)
	activity.recordErr = errors.New("log store down")

	itemID := uuid.New()
	repo.items[itemID] = models.InventoryItem{
		ID: itemID, Name: "Milk", Category: "Dairy", CurrentStock: 5, MinStock: 2, Location: "Fridge",
	}

	newStock := 1
	if _, err := svc.UpdateItem(context.Background(), actorID, itemID, UpdateItemInput{CurrentStock: &newStock}); err != nil {
		t.Fatalf("a failed log write must not fail the update, got %v", err)
	}
	if repo.items[itemID].CurrentStock != 1 {
		t.Fatalf("update must persist despite the log failure, stock=%d", repo.items[itemID].CurrentStock)
	}
}

func TestUpdateItemNoChangesWritesNoLog(t *testing.T) {
	svc, repo, activity, actors, ops := newTestService(t)
	actorID := addActor(actors, enums.RoleAdmin)

	itemID := uuid.New()
	repo.items[itemID] = models.InventoryItem{
		ID: itemID, Name: "Milk", Category: "Dairy", CurrentStock: 5, MinStock: 2, Location: "Fridge",
	}

	sameStock := 5
	if _, err := svc.UpdateItem(context.Background(), actorID, itemID, UpdateItemInput{CurrentStock: &sameStock}); err != nil {
		t.Fatalf("update item: %v", err)
	}

	if len(activity.entries) != 0 {
		t.Fatalf("no-op update must not log, got %v", activity.entries)
	}
	found := false
	for _, op := range *ops {
		if op == "save" {
			found = true
		}
	}
	if !found {
		t.Fatal("row should still be saved")
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	svc, _, _, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleAdmin)

	name := "x"
	_, err := svc.UpdateItem(context.Background(), actorID, uuid.New(), UpdateItemInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteItemLogsBeforeDelete(t *testing.T) {
	svc, repo, activity, actors, ops := newTestService(t)
	actorID := addActor(actors, enums.RoleMember)

	itemID := uuid.New()
	repo.items[itemID] = models.InventoryItem{
		ID: itemID, Name: "Butter", Category: "Dairy", CurrentStock: 2, MinStock: 1, Location: "Fridge",
	}

	if err := svc.DeleteItem(context.Background(), actorID, itemID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	if len(*ops) < 2 || (*ops)[len(*ops)-2] != "record" || (*ops)[len(*ops)-1] != "delete" {
		t.Fatalf("activity entry must be written before the delete, ops=%v", *ops)
	}
	if len(activity.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(activity.entries))
	}
	entry := activity.entries[0]
	if entry.Action != enums.ActivityActionDeleted || entry.ItemName != "Butter" {
		t.Fatalf("unexpected delete entry %+v", entry)
	}
	if entry.Changes["name"] != "Butter" {
		t.Fatalf("delete entry should snapshot fields, got %v", entry.Changes)
	}
	if _, exists := repo.items[itemID]; exists {
		t.Fatal("item should be gone")
	}
}

func TestDeleteItemFailureKeepsLogEntry(t *testing.T) {
	svc, repo, activity, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleAdmin)

	itemID := uuid.New()
	repo.items[itemID] = models.InventoryItem{ID: itemID, Name: "Butter", Category: "Dairy", Location: "Fridge"}
	repo.deleteErr = errors.New("disk on fire")

	err := svc.DeleteItem(context.Background(), actorID, itemID)
	if err == nil {
		t.Fatal("expected delete failure")
	}
	// The two writes are deliberately not transactional: the log entry written
	// first survives a delete that then fails.
	if len(activity.entries) != 1 {
		t.Fatalf("log entry written before the delete must survive, got %d", len(activity.entries))
	}
	if _, exists := repo.items[itemID]; !exists {
		t.Fatal("item should survive the failed delete")
	}
}

func TestDeleteItemProceedsWhenLogWriteFails(t *testing.T) {
	svc, repo, activity, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleAdmin)
	activity.recordErr = errors.New("log store down")

	itemID := uuid.New()
	repo.items[itemID] = models.InventoryItem{ID: itemID, Name: "Butter", Category: "Dairy", Location: "Fridge"}

	if err := svc.DeleteItem(context.Background(), actorID, itemID); err != nil {
		t.Fatalf("a failed log write must not block the delete, got %v", err)
	}
	if _, exists := repo.items[itemID]; exists {
		t.Fatal("item should be gone")
	}
	if len(activity.entries) != 0 {
		t.Fatalf("no entry expected, got %v", activity.entries)
	}
}

func TestDeleteItemForbiddenForUserRole(t *testing.T) {
	svc, repo, _, actors, _ := newTestService(t)
	actorID := addActor(actors, enums.RoleUser)

	itemID := uuid.New()
	repo.items[itemID] = models.InventoryItem{ID: itemID, Name: "Butter", Category: "Dairy", Location: "Fridge"}

	err := svc.DeleteItem(context.Background(), actorID, itemID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestMutationsRejectUnknownActor(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.CreateItem(context.Background(), uuid.New(), CreateItemInput{
		Name: "Rice", Category: "Dry Goods", Location: "Pantry",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for missing profile, got %v", err)
	}
}
