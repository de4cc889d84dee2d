package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type TestService struct {
	store *repository.Store
	audit *AuditService
	now   func() time.Time
}

func NewTestService(store *repository.Store, audit *AuditService) *TestService {
	return &TestService{store: store, audit: audit, now: time.Now}
}

type CreateTestInput struct {
	Name         string      `json:"name"`
	JiraLink     string      `json:"jira_link,omitempty"`
	MacroareaIDs []uuid.UUID `json:"macroarea_ids"`
}

// TestDetails is a test with its macroarea references resolved. References
// to macroareas that no longer exist are dropped.
type TestDetails struct {
	models.Test
	Macroareas []models.Macroarea `json:"macroareas"`
}

type TestWithTasks struct {
	Test  TestDetails       `json:"test"`
	Tasks []models.TestTask `json:"tasks"`
}

// Create inserts an open test and clones every standard task of the selected
// macroareas into a todo task. Only the test itself is audited.
func (s *TestService) Create(ctx context.Context, in CreateTestInput, creatorEmail string) (*models.Test, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	ids := dedupe(in.MacroareaIDs)
	if len(ids) == 0 {
		return nil, invalid("at least one macroarea is required")
	}
	in.MacroareaIDs = ids

	macroareas := make([]models.Macroarea, 0, len(ids))
	for _, id := range ids {
		m, err := s.store.Macroareas.FindByID(ctx, id)
		if err != nil {
			return nil, notFound("macroarea "+id.String(), err)
		}
		macroareas = append(macroareas, *m)
	}

	now := s.now()
	test := &models.Test{
		ID:           uuid.New(),
		Name:         in.Name,
		JiraLink:     strings.TrimSpace(in.JiraLink),
		Status:       models.TestStatusOpen,
		CreatorEmail: creatorEmail,
		MacroareaIDs: make(pq.StringArray, 0, len(ids)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, id := range ids {
		test.MacroareaIDs = append(test.MacroareaIDs, id.String())
	}
	if err := s.store.Tests.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}

	var tasks []models.TestTask
	for _, m := range macroareas {
		for _, st := range m.StandardTasks {
			sourceID := st.ID
			tasks = append(tasks, models.TestTask{
				ID:          uuid.New(),
				TestID:      test.ID,
				Title:       st.Title,
				Description: st.Description,
				Status:      models.TaskStatusTodo,
				Source:      models.TaskSourceMacroarea,
				SourceID:    &sourceID,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}
	if len(tasks) > 0 {
		if err := s.store.Tasks.CreateBatch(ctx, tasks); err != nil {
			return nil, fmt.Errorf("create test tasks: %w", err)
		}
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityTest,
		EntityID:   test.ID.String(),
		Action:     models.ActionCreated,
		UserEmail:  creatorEmail,
		NewValue: map[string]any{
			"name":          in.Name,
			"jira_link":     in.JiraLink,
			"creator_email": creatorEmail,
			"macroarea_ids": in.MacroareaIDs,
		},
	})
	return test, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// UpdateStatus sets the status by hand. completed_at is stamped only when
// the new status is completed.
func (s *TestService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TestStatus, userEmail string) (*models.Test, error) {
	if !status.IsValid() {
		return nil, invalid("unknown test status " + string(status))
	}
	test, err := s.store.Tests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("test", err)
	}

	old := test.Status
	now := s.now()
	test.Status = status
	test.UpdatedAt = now
	if status == models.TestStatusCompleted {
		test.CompletedAt = &now
	}
	if err := s.store.Tests.Save(ctx, test); err != nil {
		return nil, fmt.Errorf("update test status: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityTest,
		EntityID:   test.ID.String(),
		Action:     models.ActionStatusChanged,
		UserEmail:  userEmail,
		OldValue:   map[string]any{"status": old},
		NewValue:   map[string]any{"status": status},
	})
	return test, nil
}

func (s *TestService) List(ctx context.Context) ([]TestDetails, error) {
	tests, err := s.store.Tests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return s.resolve(ctx, tests)
}

func (s *TestService) GetByID(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	test, err := s.store.Tests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("test", err)
	}
	return test, nil
}

func (s *TestService) GetWithTasks(ctx context.Context, id uuid.UUID) (*TestWithTasks, error) {
	test, err := s.store.Tests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("test", err)
	}
	details, err := s.resolve(ctx, []models.Test{*test})
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks.ListByTest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list test tasks: %w", err)
	}
	return &TestWithTasks{Test: details[0], Tasks: tasks}, nil
}

func (s *TestService) ListByCreator(ctx context.Context, email string) ([]models.Test, error) {
	return s.store.Tests.ListByCreator(ctx, email)
}

func (s *TestService) ListByStatus(ctx context.Context, status models.TestStatus) ([]models.Test, error) {
	if !status.IsValid() {
		return nil, invalid("unknown test status " + string(status))
	}
	return s.store.Tests.ListByStatus(ctx, status)
}

func (s *TestService) resolve(ctx context.Context, tests []models.Test) ([]TestDetails, error) {
	macroareas, err := s.store.Macroareas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list macroareas: %w", err)
	}
	byID := make(map[string]models.Macroarea, len(macroareas))
	for _, m := range macroareas {
		byID[m.ID.String()] = m
	}

	out := make([]TestDetails, 0, len(tests))
	for _, t := range tests {
		d := TestDetails{Test: t, Macroareas: make([]models.Macroarea, 0, len(t.MacroareaIDs))}
		for _, id := range t.MacroareaIDs {
			if m, ok := byID[id]; ok {
				d.Macroareas = append(d.Macroareas, m)
			}
		}
		out = append(out, d)
	}
	return out, nil
}
