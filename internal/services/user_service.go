package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
)

type UserService struct {
	store       *repository.Store
	audit       *AuditService
	defaultRole models.Role
	now         func() time.Time
}

func NewUserService(store *repository.Store, audit *AuditService, defaultRole models.Role) *UserService {
	if !defaultRole.IsValid() {
		defaultRole = models.RoleTester
	}
	return &UserService{store: store, audit: audit, defaultRole: defaultRole, now: time.Now}
}

// CreateUserInput is the payload for an explicit user creation.
// Role defaults to tester when nil.
type CreateUserInput struct {
	Email        string       `json:"email"`
	Name         string       `json:"name,omitempty"`
	Role         *models.Role `json:"role,omitempty"`
	AuthProvider string       `json:"auth_provider,omitempty"`
	AuthID       string       `json:"auth_id,omitempty"`
	PasswordHash string       `json:"-"`
}

// UpsertUserInput identifies a user by e-mail. A nil Role leaves the stored
// role untouched and falls back to the default role on insert.
type UpsertUserInput struct {
	Email        string
	Name         string
	Role         *models.Role
	AuthProvider string
	AuthID       string
}

type UserStats struct {
	User           models.User `json:"user"`
	TotalTests     int         `json:"total_tests"`
	CompletedTests int         `json:"completed_tests"`
	ActiveTests    int         `json:"active_tests"`
	CompletionRate int         `json:"completion_rate"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users.List(ctx)
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, invalid("email is required")
	}
	role := models.RoleTester
	if in.Role != nil {
		if !in.Role.IsValid() {
			return nil, invalid("unknown role " + string(*in.Role))
		}
		role = *in.Role
	}

	if _, err := s.store.Users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		AuthProvider: in.AuthProvider,
		AuthID:       in.AuthID,
		PasswordHash: in.PasswordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Upsert inserts the user on first sight, otherwise patches the profile and
// advances last_login. Repeated identical calls leave exactly one row.
func (s *UserService) Upsert(ctx context.Context, in UpsertUserInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, invalid("email is required")
	}
	if in.Role != nil && !in.Role.IsValid() {
		return nil, invalid("unknown role " + string(*in.Role))
	}
	now := s.now()

	user, err := s.store.Users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		role := s.defaultRole
		if in.Role != nil {
			role = *in.Role
		}
		user = &models.User{
			ID:           uuid.New(),
			Email:        email,
			Name:         strings.TrimSpace(in.Name),
			Role:         role,
			AuthProvider: in.AuthProvider,
			AuthID:       in.AuthID,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
			LastLogin:    &now,
		}
		if err := s.store.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				// lost a race with a concurrent first login
				return s.Upsert(ctx, UpsertUserInput{Email: email, Name: in.Name, AuthProvider: in.AuthProvider, AuthID: in.AuthID})
			}
			return nil, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	case err != nil:
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if user.AuthID == "" && in.AuthID != "" {
		user.AuthProvider = in.AuthProvider
		user.AuthID = in.AuthID
	}
	user.UpdatedAt = now
	user.LastLogin = &now
	if err := s.store.Users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UpdateRole lets an existing admin change another user's role.
func (s *UserService) UpdateRole(ctx context.Context, userID uuid.UUID, role models.Role, updatedBy string) (*models.User, error) {
	if !role.IsValid() {
		return nil, invalid("unknown role " + string(role))
	}
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound("user", err)
	}
	actor, err := s.store.Users.FindByEmail(ctx, normalizeEmail(updatedBy))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("lookup acting user: %w", err)
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	oldRole := user.Role
	user.Role = role
	user.UpdatedAt = s.now()
	if err := s.store.Users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityUser,
		EntityID:   user.ID.String(),
		Action:     models.ActionUpdated,
		UserEmail:  actor.Email,
		OldValue:   map[string]any{"role": oldRole},
		NewValue:   map[string]any{"role": role},
	})
	return user, nil
}

// ListWithStats returns every user with counters over the tests they created,
// most completed tests first.
func (s *UserService) ListWithStats(ctx context.Context) ([]UserStats, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	tests, err := s.store.Tests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	byCreator := make(map[string][]models.Test)
	for _, t := range tests {
		byCreator[t.CreatorEmail] = append(byCreator[t.CreatorEmail], t)
	}

	out := make([]UserStats, 0, len(users))
	for _, u := range users {
		st := UserStats{User: u}
		for _, t := range byCreator[u.Email] {
			st.TotalTests++
			switch t.Status {
			case models.TestStatusCompleted:
				st.CompletedTests++
			case models.TestStatusOpen, models.TestStatusInProgress:
				st.ActiveTests++
			}
		}
		if st.TotalTests > 0 {
			st.CompletionRate = int(math.Round(float64(st.CompletedTests) / float64(st.TotalTests) * 100))
		}
		out = append(out, st)
	}
	slices.SortStableFunc(out, func(a, b UserStats) int {
		return cmp.Compare(b.CompletedTests, a.CompletedTests)
	})
	return out, nil
}
