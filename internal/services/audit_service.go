package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/events"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
	"gorm.io/datatypes"
)

// AuditEntry describes one mutation. OldValue and NewValue are JSON-encoded
// as-is and left empty when nil.
type AuditEntry struct {
	EntityType models.EntityType
	EntityID   string
	Action     models.AuditAction
	UserEmail  string
	OldValue   any
	NewValue   any
}

type AuditService struct {
	logs      repository.AuditLogRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewAuditService(logs repository.AuditLogRepository, publisher events.Publisher) *AuditService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &AuditService{logs: logs, publisher: publisher, now: time.Now}
}

// Record appends one audit row. Failures are logged and never returned:
// the primary mutation has already been committed by the time this runs.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	row, err := s.buildRow(entry)
	if err == nil {
		err = s.logs.Create(ctx, row)
	}
	if err != nil {
		slog.ErrorContext(ctx, "audit write failed",
			"error", err,
			"entity", string(entry.EntityType),
			"entity_id", entry.EntityID,
			"action", string(entry.Action),
			"user_email", entry.UserEmail,
		)
		return
	}

	event := events.AuditEvent{
		ID:         row.ID.String(),
		EntityType: string(row.EntityType),
		EntityID:   row.EntityID,
		Action:     string(row.Action),
		UserEmail:  row.UserEmail,
		OldValue:   json.RawMessage(row.OldValue),
		NewValue:   json.RawMessage(row.NewValue),
		Timestamp:  row.Timestamp,
	}
	if err := s.publisher.PublishAudit(ctx, event); err != nil {
		slog.WarnContext(ctx, "audit event publish failed",
			"error", err,
			"entity", event.EntityType,
			"entity_id", event.EntityID,
		)
	}
}

func (s *AuditService) buildRow(entry AuditEntry) (*models.AuditLog, error) {
	oldValue, err := snapshot(entry.OldValue)
	if err != nil {
		return nil, fmt.Errorf("encode old value: %w", err)
	}
	newValue, err := snapshot(entry.NewValue)
	if err != nil {
		return nil, fmt.Errorf("encode new value: %w", err)
	}
	return &models.AuditLog{
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		UserEmail:  entry.UserEmail,
		OldValue:   oldValue,
		NewValue:   newValue,
		Timestamp:  s.now(),
	}, nil
}

func snapshot(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func (s *AuditService) ForEntity(ctx context.Context, entityType models.EntityType, entityID string) ([]models.AuditLog, error) {
	if !entityType.IsValid() || entityID == "" {
		return nil, invalid("entity_type and entity_id are required")
	}
	return s.logs.ListByEntity(ctx, entityType, entityID)
}

func (s *AuditService) ByUser(ctx context.Context, email string) ([]models.AuditLog, error) {
	return s.logs.ListByUser(ctx, email)
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// Recent returns the newest rows first. limit is clamped to [1, 500].
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return s.logs.ListRecent(ctx, limit)
}
