package seed

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository/memory"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
)

func newServices(store *repository.Store) Services {
	audit := services.NewAuditService(store.AuditLogs, nil)
	return Services{
		Users:      services.NewUserService(store, audit, models.RoleTester),
		Macroareas: services.NewMacroareaService(store, audit),
		Tests:      services.NewTestService(store, audit),
		Tasks:      services.NewTaskService(store, audit),
	}
}

func TestRunSeedsDemoData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newServices(store)

	summary, err := Run(ctx, svc, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Skipped || summary.Users != 4 || summary.Macroareas != 5 || summary.Tests != 8 {
		t.Fatalf("summary = %+v", summary)
	}

	anna, err := svc.Users.GetByEmail(ctx, adminEmail)
	if err != nil {
		t.Fatalf("admin user: %v", err)
	}
	if anna.Role != models.RoleAdmin {
		t.Errorf("anna role = %s", anna.Role)
	}

	tests, err := svc.Tests.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := map[string]models.TestStatus{}
	for _, dt := range demoTests {
		want[dt.Name] = dt.Status
	}
	for _, test := range tests {
		if test.Status != want[test.Name] {
			t.Errorf("%s: status = %s, want %s", test.Name, test.Status, want[test.Name])
		}
		if test.Status == models.TestStatusCompleted && test.CompletedAt == nil {
			t.Errorf("%s: completed without completed_at", test.Name)
		}
	}
}

func TestRunSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newServices(store)

	if _, err := Run(ctx, svc, Options{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	summary, err := Run(ctx, svc, Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !summary.Skipped {
		t.Errorf("second run was not skipped")
	}
	users, _ := svc.Users.List(ctx)
	if len(users) != 4 {
		t.Errorf("users = %d, want 4", len(users))
	}
}

func TestTaskOutcome(t *testing.T) {
	cases := []struct {
		target models.TestStatus
		i      int
		want   models.TaskStatus
	}{
		{models.TestStatusOpen, 0, models.TaskStatusTodo},
		{models.TestStatusCompleted, 3, models.TaskStatusDone},
		{models.TestStatusFailed, 0, models.TaskStatusFailed},
		{models.TestStatusFailed, 1, models.TaskStatusDone},
		{models.TestStatusInProgress, 0, models.TaskStatusDone},
		{models.TestStatusInProgress, 1, models.TaskStatusTodo},
	}
	for _, tc := range cases {
		if got, _ := taskOutcome(tc.target, tc.i); got != tc.want {
			t.Errorf("taskOutcome(%s, %d) = %s, want %s", tc.target, tc.i, got, tc.want)
		}
	}
}
