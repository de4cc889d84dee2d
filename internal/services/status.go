package services

import "github.com/ahmetcoskunkizilkaya/smarttest/internal/models"

// CalculateTestStatus derives a test status from its task statuses.
// It is used to preview a transition before it is saved; the stored status
// is only moved automatically when every task is done.
func CalculateTestStatus(statuses []models.TaskStatus) models.TestStatus {
	if len(statuses) == 0 {
		return models.TestStatusOpen
	}
	done := 0
	for _, s := range statuses {
		if s == models.TaskStatusFailed {
			return models.TestStatusFailed
		}
		if s == models.TaskStatusDone {
			done++
		}
	}
	switch {
	case done == len(statuses):
		return models.TestStatusCompleted
	case done > 0:
		return models.TestStatusInProgress
	default:
		return models.TestStatusOpen
	}
}

func allDone(tasks []models.TestTask) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if t.Status != models.TaskStatusDone {
			return false
		}
	}
	return true
}
