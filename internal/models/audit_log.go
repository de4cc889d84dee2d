package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is an append-only record of a mutation. Rows are never updated.
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityType EntityType     `gorm:"size:20;not null;index:idx_audit_logs_entity,priority:1" json:"entity_type"`
	EntityID   string         `gorm:"size:64;not null;index:idx_audit_logs_entity,priority:2" json:"entity_id"`
	Action     AuditAction    `gorm:"size:20;not null" json:"action"`
	UserEmail  string         `gorm:"size:255;not null;index" json:"user_email"`
	OldValue   datatypes.JSON `gorm:"type:jsonb" json:"old_value,omitempty"`
	NewValue   datatypes.JSON `gorm:"type:jsonb" json:"new_value,omitempty"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
}
