package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps service error kinds to HTTP statuses. Anything it does
// not recognize is returned to Fiber's ErrorHandler as a 500.
func respondError(c *fiber.Ctx, err error) error {
	var inUse *services.InUseError
	switch {
	case errors.As(err, &inUse):
		count := inUse.Count
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(), Count: &count,
		})
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateName),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrNotCustom):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrAuthDisabled):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	}
	return err
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "Invalid request body")
}

// paramID parses the :id route parameter. The returned *fiber.Error is
// rendered by the app's ErrorHandler.
func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}
