// Package seed loads a small demo dataset through the regular services, so
// every seeded record has the same audit trail a user action would leave.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Services struct {
	Users      *services.UserService
	Macroareas *services.MacroareaService
	Tests      *services.TestService
	Tasks      *services.TaskService
}

type Options struct {
	// Password, when set, is given to every demo user so local login works.
	Password string
}

type Summary struct {
	Skipped    bool `json:"skipped"`
	Users      int  `json:"users"`
	Macroareas int  `json:"macroareas"`
	Tests      int  `json:"tests"`
}

// Run seeds an empty store. A store that already holds users or macroareas
// is left untouched.
func Run(ctx context.Context, svc Services, opts Options) (*Summary, error) {
	existingUsers, err := svc.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	existingAreas, err := svc.Macroareas.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existingUsers) > 0 || len(existingAreas) > 0 {
		slog.Info("seed skipped, store not empty", "users", len(existingUsers), "macroareas", len(existingAreas))
		return &Summary{Skipped: true}, nil
	}

	var hash string
	if opts.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo password: %w", err)
		}
		hash = string(h)
	}

	summary := &Summary{}
	for _, u := range demoUsers {
		role := u.Role
		provider := ""
		if hash != "" {
			provider = "local"
		}
		if _, err := svc.Users.Create(ctx, services.CreateUserInput{
			Email:        u.Email,
			Name:         u.Name,
			Role:         &role,
			AuthProvider: provider,
			PasswordHash: hash,
		}); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		summary.Users++
	}

	areaIDs := make(map[string]uuid.UUID, len(demoMacroareas))
	for _, m := range demoMacroareas {
		created, err := svc.Macroareas.Create(ctx, services.MacroareaInput{
			Name:          m.Name,
			Description:   m.Description,
			StandardTasks: m.Tasks,
		}, adminEmail)
		if err != nil {
			return nil, fmt.Errorf("seed macroarea %s: %w", m.Name, err)
		}
		areaIDs[m.Name] = created.ID
		summary.Macroareas++
	}

	for _, dt := range demoTests {
		if err := seedTest(ctx, svc, dt, areaIDs); err != nil {
			return nil, fmt.Errorf("seed test %q: %w", dt.Name, err)
		}
		summary.Tests++
	}

	slog.Info("demo data seeded", "users", summary.Users, "macroareas", summary.Macroareas, "tests", summary.Tests)
	return summary, nil
}

func seedTest(ctx context.Context, svc Services, dt demoTest, areaIDs map[string]uuid.UUID) error {
	ids := make([]uuid.UUID, 0, len(dt.Macroareas))
	for _, name := range dt.Macroareas {
		ids = append(ids, areaIDs[name])
	}
	test, err := svc.Tests.Create(ctx, services.CreateTestInput{
		Name:         dt.Name,
		JiraLink:     dt.JiraLink,
		MacroareaIDs: ids,
	}, dt.Creator)
	if err != nil {
		return err
	}

	if dt.CustomTask != "" {
		if _, err := svc.Tasks.AddCustom(ctx, test.ID, services.AddCustomTaskInput{
			Title:       dt.CustomTask,
			Description: "Task custom aggiunto dal tester",
		}, dt.Creator); err != nil {
			return err
		}
	}

	tasks, err := svc.Tasks.ListByTest(ctx, test.ID)
	if err != nil {
		return err
	}
	for i, task := range tasks {
		status, notes := taskOutcome(dt.Status, i)
		if status == models.TaskStatusTodo {
			continue
		}
		if _, err := svc.Tasks.Update(ctx, task.ID, services.UpdateTaskInput{
			Status: &status,
			Notes:  &notes,
		}, dt.Creator); err != nil {
			return err
		}
	}

	// Completed tests are closed by the roll-up; the others are set by hand.
	if dt.Status == models.TestStatusInProgress || dt.Status == models.TestStatusFailed {
		if _, err := svc.Tests.UpdateStatus(ctx, test.ID, dt.Status, dt.Creator); err != nil {
			return err
		}
	}
	return nil
}

// taskOutcome picks the status of the i-th task of a test that should end up
// in the given status.
func taskOutcome(target models.TestStatus, i int) (models.TaskStatus, string) {
	switch target {
	case models.TestStatusCompleted:
		return models.TaskStatusDone, "Completato con successo"
	case models.TestStatusFailed:
		if i == 0 {
			return models.TaskStatusFailed, "Errore durante il test"
		}
		return models.TaskStatusDone, "Completato con successo"
	case models.TestStatusInProgress:
		if i%2 == 0 {
			return models.TaskStatusDone, "Completato con successo"
		}
	}
	return models.TaskStatusTodo, ""
}
