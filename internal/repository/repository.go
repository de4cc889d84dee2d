// Package repository declares the persistence contract the services depend on.
// Implementations live in the postgres and memory subpackages.
package repository

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a unique index.
	ErrConflict = errors.New("unique constraint violated")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type MacroareaRepository interface {
	Create(ctx context.Context, macroarea *models.Macroarea) error
	Save(ctx context.Context, macroarea *models.Macroarea) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Macroarea, error)
	FindByName(ctx context.Context, name string) (*models.Macroarea, error)
	// List returns macroareas in ascending creation order.
	List(ctx context.Context) ([]models.Macroarea, error)
}

type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	Save(ctx context.Context, test *models.Test) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Test, error)
	// List, ListByCreator and ListByStatus return newest first.
	List(ctx context.Context) ([]models.Test, error)
	ListByCreator(ctx context.Context, email string) ([]models.Test, error)
	ListByStatus(ctx context.Context, status models.TestStatus) ([]models.Test, error)
	// ListByMacroarea returns every test whose macroarea set contains id.
	ListByMacroarea(ctx context.Context, macroareaID uuid.UUID) ([]models.Test, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.TestTask) error
	CreateBatch(ctx context.Context, tasks []models.TestTask) error
	Save(ctx context.Context, task *models.TestTask) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.TestTask, error)
	// ListByTest returns the tasks of one test in ascending creation order.
	ListByTest(ctx context.Context, testID uuid.UUID) ([]models.TestTask, error)
	List(ctx context.Context) ([]models.TestTask, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByEntity(ctx context.Context, entityType models.EntityType, entityID string) ([]models.AuditLog, error)
	ListByUser(ctx context.Context, email string) ([]models.AuditLog, error)
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Store bundles the five collections.
type Store struct {
	Users      UserRepository
	Macroareas MacroareaRepository
	Tests      TestRepository
	Tasks      TaskRepository
	AuditLogs  AuditLogRepository
}
