package handlers

import (
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.TaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	task, err := h.tasks.UpdateStatus(c.UserContext(), id, req.Status, authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) UpdateNotes(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.TaskNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	task, err := h.tasks.UpdateNotes(c.UserContext(), id, req.Notes, authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	task, err := h.tasks.Update(c.UserContext(), id, services.UpdateTaskInput{
		Status: req.Status,
		Notes:  req.Notes,
	}, authctx.Email(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.tasks.DeleteCustom(c.UserContext(), id, authctx.Email(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TaskHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.tasks.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// PreviewStatus runs the test status rule over a list of task statuses
// without touching the store.
func (h *TaskHandler) PreviewStatus(c *fiber.Ctx) error {
	var req dto.PreviewStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	for _, s := range req.Statuses {
		if !s.IsValid() {
			return fail(c, fiber.StatusBadRequest, "Invalid task status: "+string(s))
		}
	}
	return c.JSON(dto.PreviewStatusResponse{Status: services.CalculateTestStatus(req.Statuses)})
}
