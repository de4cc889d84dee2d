package handlers

import (
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List serves one of three views, picked by query: entity_type+entity_id,
// user_email, or the most recent rows (?limit=).
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var (
		logs []models.AuditLog
		err  error
	)
	entityType, entityID := c.Query("entity_type"), c.Query("entity_id")
	switch {
	case entityType != "" || entityID != "":
		logs, err = h.audit.ForEntity(c.UserContext(), models.EntityType(entityType), entityID)
	case c.Query("user_email") != "":
		logs, err = h.audit.ByUser(c.UserContext(), c.Query("user_email"))
	default:
		logs, err = h.audit.Recent(c.UserContext(), c.QueryInt("limit", 0))
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}
