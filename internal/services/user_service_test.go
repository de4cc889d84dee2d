package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/google/uuid"
)

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.Create(ctx, CreateUserInput{Email: "Simone@Example.com", Name: "Simone Petretto"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "simone@example.com" || u.Role != models.RoleTester || !u.IsActive {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := env.users.Create(ctx, CreateUserInput{Email: "simone@example.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	list, _ := env.users.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 user, got %d", len(list))
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	role := models.RoleTester
	in := UpsertUserInput{Email: "marco@example.com", Name: "Marco Rossi", Role: &role}

	first, err := env.users.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := env.users.Upsert(ctx, in)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	list, _ := env.users.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(list))
	}
	if first.ID != second.ID || second.Email != "marco@example.com" {
		t.Fatalf("identity changed across upserts: %v vs %v", first.ID, second.ID)
	}
	if !second.LastLogin.After(*first.LastLogin) {
		t.Fatal("last_login should advance on every upsert")
	}
	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Fatal("created_at must not change")
	}
}

func TestUpsertKeepsRoleWhenNil(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := models.RoleAdmin
	if _, err := env.users.Upsert(ctx, UpsertUserInput{Email: "anna@example.com", Role: &admin}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	u, err := env.users.Upsert(ctx, UpsertUserInput{Email: "anna@example.com", Name: "Anna Bianchi"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u.Role != models.RoleAdmin || u.Name != "Anna Bianchi" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestUpdateRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := models.RoleAdmin
	env.users.Create(ctx, CreateUserInput{Email: "anna@example.com", Role: &admin})
	tester, _ := env.users.Create(ctx, CreateUserInput{Email: "giulia@example.com"})
	env.users.Create(ctx, CreateUserInput{Email: "marco@example.com"})

	cases := []struct {
		name    string
		id      uuid.UUID
		updater string
		want    error
	}{
		{"unknown target", uuid.New(), "anna@example.com", ErrNotFound},
		{"non-admin updater", tester.ID, "marco@example.com", ErrForbidden},
		{"unknown updater", tester.ID, "ghost@example.com", ErrForbidden},
		{"self-grant", tester.ID, "giulia@example.com", ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.users.UpdateRole(ctx, tc.id, models.RoleAdmin, tc.updater); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	unchanged, _ := env.users.GetByID(ctx, tester.ID)
	if unchanged.Role != models.RoleTester {
		t.Fatalf("role changed by a rejected call: %s", unchanged.Role)
	}

	updated, err := env.users.UpdateRole(ctx, tester.ID, models.RoleAdmin, "anna@example.com")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != models.RoleAdmin {
		t.Fatalf("expected admin, got %s", updated.Role)
	}
	logs := env.auditFor(t, models.EntityUser, tester.ID)
	if len(logs) != 1 || logs[0].UserEmail != "anna@example.com" || string(logs[0].NewValue) != `{"role":"admin"}` {
		t.Fatalf("unexpected audit trail %+v", logs)
	}
}

func TestListWithStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.users.Create(ctx, CreateUserInput{Email: "simone@example.com"})
	env.users.Create(ctx, CreateUserInput{Email: "marco@example.com"})
	env.users.Create(ctx, CreateUserInput{Email: "giulia@example.com"})

	m := env.macroarea(t, "Consensi", "c1")
	t1 := env.test(t, "A", "marco@example.com", m)
	env.test(t, "B", "marco@example.com", m)
	t3 := env.test(t, "C", "marco@example.com", m)
	env.tests.UpdateStatus(ctx, t1.ID, models.TestStatusCompleted, "marco@example.com")
	env.tests.UpdateStatus(ctx, t3.ID, models.TestStatusFailed, "marco@example.com")
	env.test(t, "D", "simone@example.com", m)

	stats, err := env.users.ListWithStats(ctx)
	if err != nil {
		t.Fatalf("list with stats: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(stats))
	}
	top := stats[0]
	if top.User.Email != "marco@example.com" {
		t.Fatalf("expected marco first, got %s", top.User.Email)
	}
	if top.TotalTests != 3 || top.CompletedTests != 1 || top.ActiveTests != 1 || top.CompletionRate != 33 {
		t.Fatalf("unexpected stats %+v", top)
	}
	for _, st := range stats[1:] {
		if st.User.Email == "giulia@example.com" && (st.TotalTests != 0 || st.CompletionRate != 0) {
			t.Fatalf("expected zero stats for giulia, got %+v", st)
		}
		if st.User.Email == "simone@example.com" && st.ActiveTests != 1 {
			t.Fatalf("expected one active test for simone, got %+v", st)
		}
	}
}
