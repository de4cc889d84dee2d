package dto

import "github.com/ahmetcoskunkizilkaya/smarttest/internal/models"

type UpdateRoleRequest struct {
	Role models.Role `json:"role"`
}

type MacroareaRequest struct {
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	StandardTasks []models.StandardTask `json:"standard_tasks"`
}

type CreateTestRequest struct {
	Name         string   `json:"name"`
	JiraLink     string   `json:"jira_link"`
	MacroareaIDs []string `json:"macroarea_ids"`
}

type TestStatusRequest struct {
	Status models.TestStatus `json:"status"`
}

type TaskStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

type TaskNotesRequest struct {
	Notes string `json:"notes"`
}

type UpdateTaskRequest struct {
	Status *models.TaskStatus `json:"status"`
	Notes  *string            `json:"notes"`
}

type AddCustomTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PreviewStatusRequest struct {
	Statuses []models.TaskStatus `json:"statuses"`
}

type PreviewStatusResponse struct {
	Status models.TestStatus `json:"status"`
}

type IDResponse struct {
	ID string `json:"id"`
}
