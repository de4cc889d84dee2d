package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Test is one manual QA run over one or more macroareas.
type Test struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	JiraLink     string         `gorm:"size:500" json:"jira_link,omitempty"`
	Status       TestStatus     `gorm:"size:20;not null;default:'open';index" json:"status"`
	CreatorEmail string         `gorm:"size:255;not null;index" json:"creator_email"`
	MacroareaIDs pq.StringArray `gorm:"type:text[];not null" json:"macroarea_ids"`
	CreatedAt    time.Time      `gorm:"not null;index;autoCreateTime:false" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime:false" json:"updated_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// References reports whether the test was created over the given macroarea.
func (t *Test) References(macroareaID uuid.UUID) bool {
	id := macroareaID.String()
	for _, m := range t.MacroareaIDs {
		if m == id {
			return true
		}
	}
	return false
}
