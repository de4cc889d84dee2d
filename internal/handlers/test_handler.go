package handlers

import (
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TestHandler struct {
	tests *services.TestService
	tasks *services.TaskService
}

func NewTestHandler(tests *services.TestService, tasks *services.TaskService) *TestHandler {
	return &TestHandler{tests: tests, tasks: tasks}
}

// List returns every test newest first with its macroareas resolved.
// ?status= narrows the list to one status.
func (h *TestHandler) List(c *fiber.Ctx) error {
	if status := c.Query("status"); status != "" {
		tests, err := h.tests.ListByStatus(c.UserContext(), models.TestStatus(status))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(tests)
	}

	tests, err := h.tests.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tests)
}

func (h *TestHandler) Mine(c *fiber.Ctx) error {
	tests, err := h.tests.ListByCreator(c.UserContext(), authctx.Email(c))
	if err != nil {
		return err
	}
	return c.JSON(tests)
}

func (h *TestHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	test, err := h.tests.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(test)
}

func (h *TestHandler) Full(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	full, err := h.tests.GetWithTasks(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(full)
}

func (h *TestHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTestRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	ids := make([]uuid.UUID, 0, len(req.MacroareaIDs))
	for _, raw := range req.MacroareaIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid macroarea id: "+raw)
		}
		ids = append(ids, id)
	}

	test, err := h.tests.Create(c.UserContext(), services.CreateTestInput{
		Name:         req.Name,
		JiraLink:     req.JiraLink,
		MacroareaIDs: ids,
	}, authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(test)
}

func (h *TestHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.TestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	test, err := h.tests.UpdateStatus(c.UserContext(), id, req.Status, authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(test)
}

func (h *TestHandler) Tasks(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := h.tests.GetByID(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	tasks, err := h.tasks.ListByTest(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(tasks)
}

func (h *TestHandler) AddTask(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.AddCustomTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	task, err := h.tasks.AddCustom(c.UserContext(), id, services.AddCustomTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}, authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}
