package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestUsersUniqueEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u := &models.User{Email: "anna@example.com", CreatedAt: base}
	if err := store.Users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatal("expected an id to be assigned")
	}
	if err := store.Users.Create(ctx, &models.User{Email: "anna@example.com"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	other := &models.User{Email: "marco@example.com", CreatedAt: base}
	store.Users.Create(ctx, other)
	other.Email = "anna@example.com"
	if err := store.Users.Save(ctx, other); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict on save, got %v", err)
	}

	got, err := store.Users.FindByEmail(ctx, "anna@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("find by email: %v %+v", err, got)
	}
	if _, err := store.Users.FindByID(ctx, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	m := &models.Macroarea{
		Name:          "Preventivi",
		StandardTasks: datatypes.JSONSlice[models.StandardTask]{{ID: "prev-1", Title: "Creazione"}},
		CreatedAt:     base,
	}
	store.Macroareas.Create(ctx, m)
	m.StandardTasks[0].Title = "mutated after insert"

	got, _ := store.Macroareas.FindByID(ctx, m.ID)
	if got.StandardTasks[0].Title != "Creazione" {
		t.Fatalf("store aliased caller slice: %q", got.StandardTasks[0].Title)
	}
	got.StandardTasks[0].Title = "mutated after read"
	again, _ := store.Macroareas.FindByID(ctx, m.ID)
	if again.StandardTasks[0].Title != "Creazione" {
		t.Fatalf("store aliased returned slice: %q", again.StandardTasks[0].Title)
	}
}

func TestOrdering(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	macro := uuid.New()

	// same timestamp for the first two: insertion order breaks the tie
	a := &models.Test{Name: "a", CreatedAt: base, MacroareaIDs: []string{macro.String()}}
	b := &models.Test{Name: "b", CreatedAt: base, Status: models.TestStatusCompleted}
	c := &models.Test{Name: "c", CreatedAt: base.Add(time.Minute), MacroareaIDs: []string{macro.String()}}
	for _, test := range []*models.Test{a, b, c} {
		if err := store.Tests.Create(ctx, test); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, _ := store.Tests.List(ctx)
	if names(list) != "cba" {
		t.Fatalf("expected newest first (cba), got %s", names(list))
	}
	refs, _ := store.Tests.ListByMacroarea(ctx, macro)
	if names(refs) != "ca" {
		t.Fatalf("expected ca, got %s", names(refs))
	}
	done, _ := store.Tests.ListByStatus(ctx, models.TestStatusCompleted)
	if names(done) != "b" {
		t.Fatalf("expected b, got %s", names(done))
	}

	testID := uuid.New()
	tasks := []models.TestTask{
		{TestID: testID, Title: "1", CreatedAt: base},
		{TestID: testID, Title: "2", CreatedAt: base},
		{TestID: uuid.New(), Title: "x", CreatedAt: base},
	}
	if err := store.Tasks.CreateBatch(ctx, tasks); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	byTest, _ := store.Tasks.ListByTest(ctx, testID)
	if len(byTest) != 2 || byTest[0].Title != "1" || byTest[1].Title != "2" {
		t.Fatalf("expected ascending insertion order, got %+v", byTest)
	}
}

func TestDelete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	task := &models.TestTask{Title: "custom", CreatedAt: base}
	store.Tasks.Create(ctx, task)

	if err := store.Tasks.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Tasks.Delete(ctx, task.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if all, _ := store.Tasks.List(ctx); len(all) != 0 {
		t.Fatalf("expected empty store, got %d", len(all))
	}
}

func TestAuditLogRecentLimit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		store.AuditLogs.Create(ctx, &models.AuditLog{
			EntityType: models.EntityTest,
			EntityID:   "t1",
			UserEmail:  "anna@example.com",
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		})
	}
	recent, _ := store.AuditLogs.ListRecent(ctx, 2)
	if len(recent) != 2 || !recent[0].Timestamp.Equal(base.Add(3*time.Second)) {
		t.Fatalf("unexpected recent rows %+v", recent)
	}
	byEntity, _ := store.AuditLogs.ListByEntity(ctx, models.EntityTest, "t1")
	if len(byEntity) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(byEntity))
	}
	byUser, _ := store.AuditLogs.ListByUser(ctx, "nobody@example.com")
	if len(byUser) != 0 {
		t.Fatalf("expected no rows, got %d", len(byUser))
	}
}

func names(tests []models.Test) string {
	out := ""
	for _, t := range tests {
		out += t.Name
	}
	return out
}
