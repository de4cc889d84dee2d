package postgres

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"gorm.io/gorm"
)

type auditLogRepo struct{ db *gorm.DB }

func NewAuditLogRepository(db *gorm.DB) repository.AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) ListByEntity(ctx context.Context, entityType models.EntityType, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Scopes(newestAuditFirst).
		Find(&logs).Error
	return logs, err
}

func (r *auditLogRepo) ListByUser(ctx context.Context, email string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("user_email = ?", email).
		Scopes(newestAuditFirst).
		Find(&logs).Error
	return logs, err
}

func (r *auditLogRepo) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(newestAuditFirst).
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
