package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"github.com/google/uuid"
)

// NewStore returns an empty store.
func NewStore() *repository.Store {
	return &repository.Store{
		Users:      newUserRepo(),
		Macroareas: newMacroareaRepo(),
		Tests:      newTestRepo(),
		Tasks:      newTaskRepo(),
		AuditLogs:  newAuditLogRepo(),
	}
}

// --- users ---

type userRepo struct {
	rows *table[models.User]
	// guards the unique e-mail check together with the write
	mu sync.Mutex
}

func newUserRepo() *userRepo {
	return &userRepo{rows: newTable(
		func(u *models.User) *uuid.UUID { return &u.ID },
		func(u *models.User) time.Time { return u.CreatedAt },
		func(u models.User) models.User {
			if u.LastLogin != nil {
				t := *u.LastLogin
				u.LastLogin = &t
			}
			return u
		},
	)}
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.rows.first(func(u *models.User) bool { return u.Email == user.Email }); err == nil {
		return repository.ErrConflict
	}
	return r.rows.insert(user)
}

func (r *userRepo) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if other, err := r.rows.first(func(u *models.User) bool { return u.Email == user.Email }); err == nil && other.ID != user.ID {
		return repository.ErrConflict
	}
	return r.rows.save(user)
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return r.rows.get(id)
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.rows.first(func(u *models.User) bool { return u.Email == email })
}

func (r *userRepo) List(_ context.Context) ([]models.User, error) {
	return r.rows.ascending(nil), nil
}

// --- macroareas ---

type macroareaRepo struct {
	rows *table[models.Macroarea]
	mu   sync.Mutex
}

func newMacroareaRepo() *macroareaRepo {
	return &macroareaRepo{rows: newTable(
		func(m *models.Macroarea) *uuid.UUID { return &m.ID },
		func(m *models.Macroarea) time.Time { return m.CreatedAt },
		func(m models.Macroarea) models.Macroarea {
			m.StandardTasks = slices.Clone(m.StandardTasks)
			return m
		},
	)}
}

func (r *macroareaRepo) Create(_ context.Context, macroarea *models.Macroarea) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.rows.first(func(m *models.Macroarea) bool { return m.Name == macroarea.Name }); err == nil {
		return repository.ErrConflict
	}
	return r.rows.insert(macroarea)
}

func (r *macroareaRepo) Save(_ context.Context, macroarea *models.Macroarea) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if other, err := r.rows.first(func(m *models.Macroarea) bool { return m.Name == macroarea.Name }); err == nil && other.ID != macroarea.ID {
		return repository.ErrConflict
	}
	return r.rows.save(macroarea)
}

func (r *macroareaRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.rows.remove(id)
}

func (r *macroareaRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Macroarea, error) {
	return r.rows.get(id)
}

func (r *macroareaRepo) FindByName(_ context.Context, name string) (*models.Macroarea, error) {
	return r.rows.first(func(m *models.Macroarea) bool { return m.Name == name })
}

func (r *macroareaRepo) List(_ context.Context) ([]models.Macroarea, error) {
	return r.rows.ascending(nil), nil
}

// --- tests ---

type testRepo struct {
	rows *table[models.Test]
}

func newTestRepo() *testRepo {
	return &testRepo{rows: newTable(
		func(t *models.Test) *uuid.UUID { return &t.ID },
		func(t *models.Test) time.Time { return t.CreatedAt },
		func(t models.Test) models.Test {
			t.MacroareaIDs = slices.Clone(t.MacroareaIDs)
			if t.CompletedAt != nil {
				c := *t.CompletedAt
				t.CompletedAt = &c
			}
			return t
		},
	)}
}

func (r *testRepo) Create(_ context.Context, test *models.Test) error {
	return r.rows.insert(test)
}

func (r *testRepo) Save(_ context.Context, test *models.Test) error {
	return r.rows.save(test)
}

func (r *testRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Test, error) {
	return r.rows.get(id)
}

func (r *testRepo) List(_ context.Context) ([]models.Test, error) {
	return r.rows.descending(nil), nil
}

func (r *testRepo) ListByCreator(_ context.Context, email string) ([]models.Test, error) {
	return r.rows.descending(func(t *models.Test) bool { return t.CreatorEmail == email }), nil
}

func (r *testRepo) ListByStatus(_ context.Context, status models.TestStatus) ([]models.Test, error) {
	return r.rows.descending(func(t *models.Test) bool { return t.Status == status }), nil
}

func (r *testRepo) ListByMacroarea(_ context.Context, macroareaID uuid.UUID) ([]models.Test, error) {
	return r.rows.descending(func(t *models.Test) bool { return t.References(macroareaID) }), nil
}

// --- tasks ---

type taskRepo struct {
	rows *table[models.TestTask]
}

func newTaskRepo() *taskRepo {
	return &taskRepo{rows: newTable(
		func(t *models.TestTask) *uuid.UUID { return &t.ID },
		func(t *models.TestTask) time.Time { return t.CreatedAt },
		func(t models.TestTask) models.TestTask {
			if t.SourceID != nil {
				s := *t.SourceID
				t.SourceID = &s
			}
			if t.CompletedAt != nil {
				c := *t.CompletedAt
				t.CompletedAt = &c
			}
			return t
		},
	)}
}

func (r *taskRepo) Create(_ context.Context, task *models.TestTask) error {
	return r.rows.insert(task)
}

func (r *taskRepo) CreateBatch(_ context.Context, tasks []models.TestTask) error {
	for i := range tasks {
		if err := r.rows.insert(&tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *taskRepo) Save(_ context.Context, task *models.TestTask) error {
	return r.rows.save(task)
}

func (r *taskRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.rows.remove(id)
}

func (r *taskRepo) FindByID(_ context.Context, id uuid.UUID) (*models.TestTask, error) {
	return r.rows.get(id)
}

func (r *taskRepo) ListByTest(_ context.Context, testID uuid.UUID) ([]models.TestTask, error) {
	return r.rows.ascending(func(t *models.TestTask) bool { return t.TestID == testID }), nil
}

func (r *taskRepo) List(_ context.Context) ([]models.TestTask, error) {
	return r.rows.ascending(nil), nil
}

// --- audit logs ---

type auditLogRepo struct {
	rows *table[models.AuditLog]
}

func newAuditLogRepo() *auditLogRepo {
	return &auditLogRepo{rows: newTable(
		func(l *models.AuditLog) *uuid.UUID { return &l.ID },
		func(l *models.AuditLog) time.Time { return l.Timestamp },
		func(l models.AuditLog) models.AuditLog {
			l.OldValue = slices.Clone(l.OldValue)
			l.NewValue = slices.Clone(l.NewValue)
			return l
		},
	)}
}

func (r *auditLogRepo) Create(_ context.Context, entry *models.AuditLog) error {
	return r.rows.insert(entry)
}

func (r *auditLogRepo) ListByEntity(_ context.Context, entityType models.EntityType, entityID string) ([]models.AuditLog, error) {
	return r.rows.descending(func(l *models.AuditLog) bool {
		return l.EntityType == entityType && l.EntityID == entityID
	}), nil
}

func (r *auditLogRepo) ListByUser(_ context.Context, email string) ([]models.AuditLog, error) {
	return r.rows.descending(func(l *models.AuditLog) bool { return l.UserEmail == email }), nil
}

func (r *auditLogRepo) ListRecent(_ context.Context, limit int) ([]models.AuditLog, error) {
	logs := r.rows.descending(nil)
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
