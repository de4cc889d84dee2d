package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
)

// systemActor is recorded on roll-up audit rows triggered without an actor.
const systemActor = "system"

type TaskService struct {
	store *repository.Store
	audit *AuditService
	now   func() time.Time
}

func NewTaskService(store *repository.Store, audit *AuditService) *TaskService {
	return &TaskService{store: store, audit: audit, now: time.Now}
}

// UpdateTaskInput patches only the fields that are set.
type UpdateTaskInput struct {
	Status *models.TaskStatus `json:"status,omitempty"`
	Notes  *string            `json:"notes,omitempty"`
}

type AddCustomTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type TaskStats struct {
	Total    int                       `json:"total"`
	ByStatus map[models.TaskStatus]int `json:"by_status"`
	BySource map[models.TaskSource]int `json:"by_source"`
}

func (s *TaskService) ListByTest(ctx context.Context, testID uuid.UUID) ([]models.TestTask, error) {
	return s.store.Tasks.ListByTest(ctx, testID)
}

func (s *TaskService) UpdateStatus(ctx context.Context, taskID uuid.UUID, status models.TaskStatus, userEmail string) (*models.TestTask, error) {
	if !status.IsValid() {
		return nil, invalid("unknown task status " + string(status))
	}
	task, err := s.store.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, notFound("task", err)
	}

	old := task.Status
	now := s.now()
	task.Status = status
	task.UpdatedAt = now
	if status == models.TaskStatusDone {
		task.CompletedAt = &now
	}
	if err := s.store.Tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityTestTask,
		EntityID:   task.ID.String(),
		Action:     models.ActionStatusChanged,
		UserEmail:  userEmail,
		OldValue:   map[string]any{"status": old},
		NewValue:   map[string]any{"status": status},
	})

	if err := s.rollUp(ctx, task.TestID, userEmail); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) UpdateNotes(ctx context.Context, taskID uuid.UUID, notes, userEmail string) (*models.TestTask, error) {
	task, err := s.store.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, notFound("task", err)
	}

	old := task.Notes
	task.Notes = notes
	task.UpdatedAt = s.now()
	if err := s.store.Tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("update task notes: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityTestTask,
		EntityID:   task.ID.String(),
		Action:     models.ActionUpdated,
		UserEmail:  userEmail,
		OldValue:   map[string]any{"notes": old},
		NewValue:   map[string]any{"notes": notes},
	})
	return task, nil
}

// Update applies a combined patch. It is audited only when userEmail is
// set, and runs the roll-up check when the task becomes done.
func (s *TaskService) Update(ctx context.Context, taskID uuid.UUID, in UpdateTaskInput, userEmail string) (*models.TestTask, error) {
	if in.Status != nil && !in.Status.IsValid() {
		return nil, invalid("unknown task status " + string(*in.Status))
	}
	task, err := s.store.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, notFound("task", err)
	}

	before := map[string]any{"status": task.Status, "notes": task.Notes}
	after := map[string]any{}
	now := s.now()
	task.UpdatedAt = now
	if in.Status != nil {
		task.Status = *in.Status
		after["status"] = *in.Status
		if *in.Status == models.TaskStatusDone {
			task.CompletedAt = &now
		}
	}
	if in.Notes != nil {
		task.Notes = *in.Notes
		after["notes"] = *in.Notes
	}
	if err := s.store.Tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if userEmail != "" {
		s.audit.Record(ctx, AuditEntry{
			EntityType: models.EntityTestTask,
			EntityID:   task.ID.String(),
			Action:     models.ActionUpdated,
			UserEmail:  userEmail,
			OldValue:   before,
			NewValue:   after,
		})
	}

	if in.Status != nil && *in.Status == models.TaskStatusDone {
		if err := s.rollUp(ctx, task.TestID, userEmail); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// rollUp completes the owning test once every one of its tasks is done.
// It never moves a test in any other direction.
func (s *TaskService) rollUp(ctx context.Context, testID uuid.UUID, actor string) error {
	tasks, err := s.store.Tasks.ListByTest(ctx, testID)
	if err != nil {
		return fmt.Errorf("list sibling tasks: %w", err)
	}
	if !allDone(tasks) {
		return nil
	}

	test, err := s.store.Tests.FindByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.WarnContext(ctx, "tasks reference a missing test", "entity_id", testID.String())
			return nil
		}
		return fmt.Errorf("load test: %w", err)
	}
	// A completed test keeps its first completed_at and is not audited again
	// when a later task change leaves every task done once more.
	if test.Status == models.TestStatusCompleted {
		return nil
	}

	old := test.Status
	now := s.now()
	test.Status = models.TestStatusCompleted
	test.CompletedAt = &now
	test.UpdatedAt = now
	if err := s.store.Tests.Save(ctx, test); err != nil {
		return fmt.Errorf("complete test: %w", err)
	}

	if actor == "" {
		actor = systemActor
	}
	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityTest,
		EntityID:   test.ID.String(),
		Action:     models.ActionStatusChanged,
		UserEmail:  actor,
		OldValue:   map[string]any{"status": old},
		NewValue:   map[string]any{"status": models.TestStatusCompleted},
	})
	return nil
}

func (s *TaskService) AddCustom(ctx context.Context, testID uuid.UUID, in AddCustomTaskInput, userEmail string) (*models.TestTask, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if _, err := s.store.Tests.FindByID(ctx, testID); err != nil {
		return nil, notFound("test", err)
	}

	now := s.now()
	task := &models.TestTask{
		ID:          uuid.New(),
		TestID:      testID,
		Title:       title,
		Description: in.Description,
		Status:      models.TaskStatusTodo,
		Source:      models.TaskSourceCustom,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create custom task: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityTestTask,
		EntityID:   task.ID.String(),
		Action:     models.ActionCreated,
		UserEmail:  userEmail,
		NewValue: map[string]any{
			"test_id":     testID,
			"title":       title,
			"description": in.Description,
			"source":      models.TaskSourceCustom,
		},
	})
	return task, nil
}

func (s *TaskService) DeleteCustom(ctx context.Context, taskID uuid.UUID, userEmail string) error {
	task, err := s.store.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return notFound("task", err)
	}
	if task.Source != models.TaskSourceCustom {
		return ErrNotCustom
	}
	if err := s.store.Tasks.Delete(ctx, taskID); err != nil {
		return notFound("task", err)
	}

	s.audit.Record(ctx, AuditEntry{
		EntityType: models.EntityTestTask,
		EntityID:   task.ID.String(),
		Action:     models.ActionDeleted,
		UserEmail:  userEmail,
		OldValue:   task,
	})
	return nil
}

func (s *TaskService) Stats(ctx context.Context) (*TaskStats, error) {
	tasks, err := s.store.Tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	st := &TaskStats{
		Total:    len(tasks),
		ByStatus: make(map[models.TaskStatus]int, len(models.TaskStatuses)),
		BySource: map[models.TaskSource]int{
			models.TaskSourceMacroarea: 0,
			models.TaskSourceCustom:    0,
		},
	}
	for _, status := range models.TaskStatuses {
		st.ByStatus[status] = 0
	}
	for _, t := range tasks {
		st.ByStatus[t.Status]++
		st.BySource[t.Source]++
	}
	return st, nil
}
