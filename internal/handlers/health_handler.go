package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ping  func(ctx context.Context) error
	store string
}

// NewHealthHandler reports the store driver in use. ping may be nil for
// stores without a connection.
func NewHealthHandler(store string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping, store: store}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	status := fiber.StatusOK
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			dbStatus = "unhealthy: " + err.Error()
			status = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(status).JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Store:     h.store,
	})
}
