package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
)

type MacroareaService struct {
	store *repository.Store
	audit *AuditService
	now   func() time.Time
}

func NewMacroareaService(store *repository.Store, audit *AuditService) *MacroareaService {
	return &MacroareaService{store: store, audit: audit, now: time.Now}
}

type MacroareaInput struct {
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	StandardTasks []models.StandardTask `json:"standard_tasks"`
}

type MacroareaStats struct {
	Macroarea  models.Macroarea `json:"macroarea"`
	TestsCount int              `json:"tests_count"`
	TasksCount int              `json:"tasks_count"`
}

func (in *MacroareaInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("name is required")
	}
	tasks := make([]models.StandardTask, 0, len(in.StandardTasks))
	for _, t := range in.StandardTasks {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			return invalid("standard task title is required")
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		tasks = append(tasks, t)
	}
	in.StandardTasks = tasks
	return nil
}

func (s *MacroareaService) List(ctx context.Context) ([]models.Macroarea, error) {
	return s.store.Macroareas.List(ctx)
}

func (s *MacroareaService) Get(ctx context.Context, id uuid.UUID) (*models.Macroarea, error) {
	m, err := s.store.Macroareas.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("macroarea", err)
	}
	return m, nil
}

func (s *MacroareaService) Create(ctx context.Context, in MacroareaInput, createdBy string) (*models.Macroarea, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.store.Macroareas.FindByName(ctx, in.Name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup macroarea: %w", err)
	}

	now := s.now()
	m := &models.Macroarea{
		ID:            uuid.New(),
		Name:          in.Name,
		Description:   in.Description,
		StandardTasks: in.StandardTasks,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     createdBy,
	}
	if err := s.store.Macroareas.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create macroarea: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityMacroarea,
		EntityID:   m.ID.String(),
		Action:     models.ActionCreated,
		UserEmail:  createdBy,
		NewValue:   in,
	})
	return m, nil
}

func (s *MacroareaService) Update(ctx context.Context, id uuid.UUID, in MacroareaInput, updatedBy string) (*models.Macroarea, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	m, err := s.store.Macroareas.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("macroarea", err)
	}
	if in.Name != m.Name {
		if _, err := s.store.Macroareas.FindByName(ctx, in.Name); err == nil {
			return nil, ErrDuplicateName
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup macroarea: %w", err)
		}
	}

	before := *m
	m.Name = in.Name
	m.Description = in.Description
	m.StandardTasks = in.StandardTasks
	m.UpdatedAt = s.now()
	if err := s.store.Macroareas.Save(ctx, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("update macroarea: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityMacroarea,
		EntityID:   m.ID.String(),
		Action:     models.ActionUpdated,
		UserEmail:  updatedBy,
		OldValue:   before,
		NewValue:   m,
	})
	return m, nil
}

// Delete removes a macroarea nothing refers to. A referenced macroarea
// yields an *InUseError carrying the number of blocking tests.
func (s *MacroareaService) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	m, err := s.store.Macroareas.FindByID(ctx, id)
	if err != nil {
		return notFound("macroarea", err)
	}
	refs, err := s.store.Tests.ListByMacroarea(ctx, id)
	if err != nil {
		return fmt.Errorf("scan tests: %w", err)
	}
	if len(refs) > 0 {
		return &InUseError{Count: len(refs)}
	}
	if err := s.store.Macroareas.Delete(ctx, id); err != nil {
		return notFound("macroarea", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityMacroarea,
		EntityID:   id.String(),
		Action:     models.ActionDeleted,
		UserEmail:  deletedBy,
		OldValue:   m,
	})
	return nil
}

func (s *MacroareaService) Stats(ctx context.Context) ([]MacroareaStats, error) {
	macroareas, err := s.store.Macroareas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list macroareas: %w", err)
	}
	tests, err := s.store.Tests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	refs := make(map[string]int)
	for _, t := range tests {
		for _, id := range t.MacroareaIDs {
			refs[id]++
		}
	}
	out := make([]MacroareaStats, 0, len(macroareas))
	for _, m := range macroareas {
		out = append(out, MacroareaStats{
			Macroarea:  m,
			TestsCount: refs[m.ID.String()],
			TasksCount: len(m.StandardTasks),
		})
	}
	return out, nil
}
