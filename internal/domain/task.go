package domain

import (
	"slices"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every task status, in lifecycle order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusDone,
	TaskStatusCancelled,
}

// ParseTaskStatus rejects unknown status values at the boundary.
func ParseTaskStatus(s string) (TaskStatus, error) {
	if slices.Contains(TaskStatuses, TaskStatus(s)) {
		return TaskStatus(s), nil
	}
	return "", &ValidationError{Field: "status", Message: "unknown task status " + s}
}

// TaskUrgency represents how urgent a task is. It carries no transition
// rules of its own.
type TaskUrgency string

const (
	TaskUrgencyHigh   TaskUrgency = "high"
	TaskUrgencyMedium TaskUrgency = "medium"
	TaskUrgencyNormal TaskUrgency = "normal"
)

// TaskUrgencies lists every task urgency, highest first.
var TaskUrgencies = []TaskUrgency{TaskUrgencyHigh, TaskUrgencyMedium, TaskUrgencyNormal}

// ParseTaskUrgency rejects unknown urgency values at the boundary.
func ParseTaskUrgency(s string) (TaskUrgency, error) {
	if slices.Contains(TaskUrgencies, TaskUrgency(s)) {
		return TaskUrgency(s), nil
	}
	return "", &ValidationError{Field: "urgency", Message: "unknown task urgency " + s}
}

// Task is a unit of project work assigned to exactly one member.
// ProjectID and CreatedByID are immutable once written.
type Task struct {
	ID            string      `json:"id" db:"id"`
	ProjectID     string      `json:"project_id" db:"project_id"`
	Title         string      `json:"title" db:"title"`
	Details       string      `json:"details" db:"details"`
	AssigneeID    string      `json:"assignee_id" db:"assignee_id"`
	CreatedByID   string      `json:"created_by_id" db:"created_by_id"`
	Urgency       TaskUrgency `json:"urgency" db:"urgency"`
	Status        TaskStatus  `json:"status" db:"status"`
	StartDate     *time.Time  `json:"start_date,omitempty" db:"start_date"`
	Deadline      *time.Time  `json:"deadline,omitempty" db:"deadline"`
	AssigneeName  string      `json:"assignee_name" db:"assignee_name"`
	CreatedByName string      `json:"created_by_name" db:"created_by_name"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}
