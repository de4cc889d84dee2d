package handlers

import (
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Callback exchanges an identity-provider ID token for a session.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	var req dto.CallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	session, err := h.authService.Callback(c.UserContext(), req.IDToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(session)
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	session, err := h.authService.Signup(c.UserContext(), req.Email, req.Name, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	session, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(session)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := authctx.User(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(dto.MeResponse{User: user, Role: authctx.Role(c)})
}
