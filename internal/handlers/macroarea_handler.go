package handlers

import (
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MacroareaHandler struct {
	macroareas *services.MacroareaService
}

func NewMacroareaHandler(macroareas *services.MacroareaService) *MacroareaHandler {
	return &MacroareaHandler{macroareas: macroareas}
}

func (h *MacroareaHandler) List(c *fiber.Ctx) error {
	list, err := h.macroareas.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *MacroareaHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.macroareas.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *MacroareaHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	m, err := h.macroareas.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

func (h *MacroareaHandler) Create(c *fiber.Ctx) error {
	var req dto.MacroareaRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	m, err := h.macroareas.Create(c.UserContext(), macroareaInput(req), authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *MacroareaHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.MacroareaRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	m, err := h.macroareas.Update(c.UserContext(), id, macroareaInput(req), authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

func (h *MacroareaHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.macroareas.Delete(c.UserContext(), id, authctx.Email(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func macroareaInput(req dto.MacroareaRequest) services.MacroareaInput {
	return services.MacroareaInput{
		Name:          req.Name,
		Description:   req.Description,
		StandardTasks: req.StandardTasks,
	}
}
