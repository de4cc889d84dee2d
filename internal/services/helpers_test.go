package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository/memory"
	"github.com/google/uuid"
)

// stepClock advances one second on every read so ordering is deterministic.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type testEnv struct {
	store      *repository.Store
	clock      *stepClock
	audit      *AuditService
	users      *UserService
	macroareas *MacroareaService
	tests      *TestService
	tasks      *TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	clock := newStepClock()

	audit := NewAuditService(store.AuditLogs, nil)
	audit.now = clock.Now
	users := NewUserService(store, audit, models.RoleTester)
	users.now = clock.Now
	macroareas := NewMacroareaService(store, audit)
	macroareas.now = clock.Now
	tests := NewTestService(store, audit)
	tests.now = clock.Now
	tasks := NewTaskService(store, audit)
	tasks.now = clock.Now

	return &testEnv{
		store:      store,
		clock:      clock,
		audit:      audit,
		users:      users,
		macroareas: macroareas,
		tests:      tests,
		tasks:      tasks,
	}
}

func (e *testEnv) macroarea(t *testing.T, name string, titles ...string) *models.Macroarea {
	t.Helper()
	in := MacroareaInput{Name: name}
	for i, title := range titles {
		in.StandardTasks = append(in.StandardTasks, models.StandardTask{
			ID:    name + "-" + string(rune('1'+i)),
			Title: title,
		})
	}
	m, err := e.macroareas.Create(context.Background(), in, "anna@example.com")
	if err != nil {
		t.Fatalf("create macroarea %q: %v", name, err)
	}
	return m
}

func (e *testEnv) test(t *testing.T, name, creator string, macroareas ...*models.Macroarea) *models.Test {
	t.Helper()
	in := CreateTestInput{Name: name}
	for _, m := range macroareas {
		in.MacroareaIDs = append(in.MacroareaIDs, m.ID)
	}
	test, err := e.tests.Create(context.Background(), in, creator)
	if err != nil {
		t.Fatalf("create test %q: %v", name, err)
	}
	return test
}

func (e *testEnv) auditFor(t *testing.T, entityType models.EntityType, id uuid.UUID) []models.AuditLog {
	t.Helper()
	logs, err := e.store.AuditLogs.ListByEntity(context.Background(), entityType, id.String())
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	return logs
}

func (e *testEnv) auditCount(t *testing.T) int {
	t.Helper()
	logs, err := e.store.AuditLogs.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	return len(logs)
}
