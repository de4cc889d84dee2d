package models

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTester Role = "tester"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleTester
}

// TestStatus is the cached aggregate status of a Test.
type TestStatus string

const (
	TestStatusOpen       TestStatus = "open"
	TestStatusInProgress TestStatus = "in_progress"
	TestStatusCompleted  TestStatus = "completed"
	TestStatusFailed     TestStatus = "failed"
)

func (s TestStatus) IsValid() bool {
	switch s {
	case TestStatusOpen, TestStatusInProgress, TestStatusCompleted, TestStatusFailed:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusTodo     TaskStatus = "todo"
	TaskStatusDone     TaskStatus = "done"
	TaskStatusRejected TaskStatus = "rejected"
	TaskStatusFailed   TaskStatus = "failed"
	TaskStatusSkipped  TaskStatus = "skipped"
)

// TaskStatuses lists every task status in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo, TaskStatusDone, TaskStatusRejected, TaskStatusFailed, TaskStatusSkipped,
}

func (s TaskStatus) IsValid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TaskSource tells whether a task was cloned from a macroarea template or added by hand.
type TaskSource string

const (
	TaskSourceMacroarea TaskSource = "macroarea"
	TaskSourceCustom    TaskSource = "custom"
)

type EntityType string

const (
	EntityTest      EntityType = "test"
	EntityMacroarea EntityType = "macroarea"
	EntityTestTask  EntityType = "testTask"
	EntityUser      EntityType = "user"
)

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTest, EntityMacroarea, EntityTestTask, EntityUser:
		return true
	}
	return false
}

type AuditAction string

const (
	ActionCreated       AuditAction = "created"
	ActionUpdated       AuditAction = "updated"
	ActionDeleted       AuditAction = "deleted"
	ActionStatusChanged AuditAction = "status_changed"
)
