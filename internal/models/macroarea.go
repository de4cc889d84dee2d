package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StandardTask is a checklist template entry. Its ID is stable so that
// tasks cloned from it can be traced back.
type StandardTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Macroarea is a functional area of the system under test.
type Macroarea struct {
	ID            uuid.UUID                        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string                           `gorm:"not null;size:255;uniqueIndex:idx_macroareas_name" json:"name"`
	Description   string                           `gorm:"type:text" json:"description,omitempty"`
	StandardTasks datatypes.JSONSlice[StandardTask] `gorm:"type:jsonb;not null" json:"standard_tasks"`
	CreatedAt     time.Time                        `gorm:"not null;index;autoCreateTime:false" json:"created_at"`
	UpdatedAt     time.Time                        `gorm:"autoUpdateTime:false" json:"updated_at"`
	CreatedBy     string                           `gorm:"size:255;not null" json:"created_by"`
}
