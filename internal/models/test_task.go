package models

import (
	"time"

	"github.com/google/uuid"
)

// TestTask is a concrete checklist item of a Test.
type TestTask struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TestID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"test_id"`
	Title       string     `gorm:"not null;size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus `gorm:"size:20;not null;default:'todo';index" json:"status"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	Source      TaskSource `gorm:"size:20;not null;index" json:"source"`
	SourceID    *string    `gorm:"size:255" json:"source_id,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (TestTask) TableName() string {
	return "test_tasks"
}
