package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
)

// Profile is the subset of identity-provider claims the application uses.
type Profile struct {
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Subject    string
	Provider   string
}

// RolePolicy decides the role of users seen for the first time.
type RolePolicy struct {
	AdminEmails []string
	DefaultRole models.Role
}

func (p RolePolicy) RoleFor(email string) models.Role {
	if p.IsAdminEmail(email) {
		return models.RoleAdmin
	}
	if p.DefaultRole.IsValid() {
		return p.DefaultRole
	}
	return models.RoleTester
}

// SelfServiceRole is the role for accounts created without an identity
// provider. Only ADMIN_EMAILS elevates them; DefaultRole does not apply.
func (p RolePolicy) SelfServiceRole(email string) models.Role {
	if p.IsAdminEmail(email) {
		return models.RoleAdmin
	}
	return models.RoleTester
}

func (p RolePolicy) IsAdminEmail(email string) bool {
	email = normalizeEmail(email)
	if email == "" {
		return false
	}
	for _, e := range p.AdminEmails {
		if normalizeEmail(e) == email {
			return true
		}
	}
	return false
}

// IdentityService maps an external identity onto a local user row.
type IdentityService struct {
	users  *UserService
	policy RolePolicy
}

func NewIdentityService(users *UserService, policy RolePolicy) *IdentityService {
	return &IdentityService{users: users, policy: policy}
}

func (s *IdentityService) Policy() RolePolicy {
	return s.policy
}

// Sync inserts the user on first login with the policy role. Later logins
// refresh the name and last_login and never touch the role.
func (s *IdentityService) Sync(ctx context.Context, p Profile) (*models.User, error) {
	email := normalizeEmail(p.Email)
	if email == "" {
		return nil, invalid("identity has no email")
	}

	in := UpsertUserInput{
		Email:        email,
		Name:         DisplayName(p),
		AuthProvider: p.Provider,
		AuthID:       p.Subject,
	}
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		role := s.policy.RoleFor(email)
		in.Role = &role
	case err != nil:
		return nil, fmt.Errorf("sync identity: %w", err)
	}
	return s.users.Upsert(ctx, in)
}

// DisplayName builds "given family" from the profile, splitting the full
// name when the split claims are absent, and falls back to the e-mail
// local part.
func DisplayName(p Profile) string {
	words := strings.Fields(p.Name)
	first := strings.TrimSpace(p.GivenName)
	if first == "" && len(words) > 0 {
		first = words[0]
	}
	last := strings.TrimSpace(p.FamilyName)
	if last == "" && len(words) > 1 {
		last = strings.Join(words[1:], " ")
	}
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	local, _, _ := strings.Cut(normalizeEmail(p.Email), "@")
	return local
}

// ResolveRole returns the role the request acts with. override only applies
// when allowed is true, which callers tie to development environments.
func ResolveRole(user *models.User, override string, allowed bool) models.Role {
	if allowed {
		if r := models.Role(strings.ToLower(strings.TrimSpace(override))); r.IsValid() {
			return r
		}
	}
	if user == nil {
		return models.RoleTester
	}
	return user.Role
}
