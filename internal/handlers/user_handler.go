package handlers

import (
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.users.ListWithStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	user, err := h.users.UpdateRole(c.UserContext(), id, req.Role, authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
