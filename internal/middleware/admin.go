package middleware

import (
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired admits requests whose effective role is admin. The role is
// resolved by LoadPrincipal from the stored role, ADMIN_EMAILS and the
// development override.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := authctx.User(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if authctx.Role(c) != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

// StoredAdminRequired admits users whose stored role is admin. ADMIN_EMAILS
// and the development override do not count here; it guards role changes,
// which the user service authorizes against the stored role as well.
func StoredAdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authctx.User(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Role management requires a stored admin role",
			})
		}
		return c.Next()
	}
}
