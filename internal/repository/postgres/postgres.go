// Package postgres implements the repository contract on top of GORM.
package postgres

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"gorm.io/gorm"
)

// NewStore wires every repository to the same *gorm.DB.
func NewStore(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Users:      NewUserRepository(db),
		Macroareas: NewMacroareaRepository(db),
		Tests:      NewTestRepository(db),
		Tasks:      NewTaskRepository(db),
		AuditLogs:  NewAuditLogRepository(db),
	}
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrConflict
	}
	return err
}

// deleteResult reports ErrNotFound when a delete touched nothing.
func deleteResult(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
