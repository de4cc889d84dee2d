package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name string
		p    Profile
		want string
	}{
		{"split claims", Profile{GivenName: "Anna", FamilyName: "Bianchi", Name: "ignored"}, "Anna Bianchi"},
		{"full name only", Profile{Name: "Giulia Maria Verdi"}, "Giulia Maria Verdi"},
		{"given and full", Profile{GivenName: "Marco", Name: "M Rossi"}, "Marco Rossi"},
		{"single word", Profile{Name: "Simone"}, "Simone"},
		{"email fallback", Profile{Email: "Tester.One@Example.com"}, "tester.one"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayName(tc.p); got != tc.want {
				t.Fatalf("DisplayName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSyncAppliesPolicyOnlyOnFirstLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	identity := NewIdentityService(env.users, RolePolicy{
		AdminEmails: []string{"Anna@Example.com"},
		DefaultRole: models.RoleTester,
	})

	anna, err := identity.Sync(ctx, Profile{Email: "anna@example.com", Name: "Anna Bianchi", Subject: "auth0|1", Provider: "auth0"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if anna.Role != models.RoleAdmin || anna.AuthID != "auth0|1" || anna.LastLogin == nil {
		t.Fatalf("unexpected user %+v", anna)
	}

	giulia, err := identity.Sync(ctx, Profile{Email: "giulia@example.com", GivenName: "Giulia"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if giulia.Role != models.RoleTester {
		t.Fatalf("expected tester, got %s", giulia.Role)
	}

	// promote, then log in again: the login must not demote
	if _, err := env.users.UpdateRole(ctx, giulia.ID, models.RoleAdmin, "anna@example.com"); err != nil {
		t.Fatalf("update role: %v", err)
	}
	again, err := identity.Sync(ctx, Profile{Email: "giulia@example.com", GivenName: "Giulia", FamilyName: "Verdi"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if again.ID != giulia.ID || again.Role != models.RoleAdmin || again.Name != "Giulia Verdi" {
		t.Fatalf("unexpected user after second login %+v", again)
	}
}

func TestSyncDefaultRolePolicy(t *testing.T) {
	env := newTestEnv(t)
	identity := NewIdentityService(env.users, RolePolicy{DefaultRole: models.RoleAdmin})
	u, err := identity.Sync(context.Background(), Profile{Email: "new@example.com"})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("expected configured default role admin, got %s", u.Role)
	}
	if _, err := identity.Sync(context.Background(), Profile{}); err == nil {
		t.Fatal("expected an error for a profile without email")
	}
}

func TestResolveRole(t *testing.T) {
	tester := &models.User{Role: models.RoleTester}
	cases := []struct {
		name     string
		user     *models.User
		override string
		allowed  bool
		want     models.Role
	}{
		{"no override", tester, "", true, models.RoleTester},
		{"override allowed", tester, "admin", true, models.RoleAdmin},
		{"override disallowed", tester, "admin", false, models.RoleTester},
		{"bogus override", tester, "root", true, models.RoleTester},
		{"nil user", nil, "", false, models.RoleTester},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveRole(tc.user, tc.override, tc.allowed); got != tc.want {
				t.Fatalf("ResolveRole = %q, want %q", got, tc.want)
			}
		})
	}
}
