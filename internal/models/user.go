package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a person allowed into the application, keyed by e-mail.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string     `gorm:"not null;size:255;uniqueIndex:idx_users_email" json:"email"`
	Name         string     `gorm:"size:255" json:"name,omitempty"`
	Role         Role       `gorm:"size:20;not null;default:'tester'" json:"role"`
	AuthProvider string     `gorm:"size:50" json:"auth_provider,omitempty"`
	AuthID       string     `gorm:"size:255;index" json:"auth_id,omitempty"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
