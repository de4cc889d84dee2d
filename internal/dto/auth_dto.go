package dto

import (
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
)

type CallbackRequest struct {
	IDToken string `json:"id_token"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MeResponse struct {
	User *models.User `json:"user"`
	// Role is the effective role, which differs from User.Role when an
	// admin e-mail or the development override applies.
	Role models.Role `json:"role"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Count   *int   `json:"count,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Store     string `json:"store"`
}
