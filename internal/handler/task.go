package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabinsight/server/internal/domain"
	"github.com/collabinsight/server/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List returns the project's tasks visible to the requester.
func (h *TaskHandler) List(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	tasks, err := h.tasks.List(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title      string     `json:"title" validate:"required,max=100"`
	Details    string     `json:"details" validate:"max=500"`
	AssigneeID string     `json:"assignee_id"`
	Urgency    string     `json:"urgency"`
	Status     string     `json:"status"`
	StartDate  *time.Time `json:"start_date"`
	Deadline   *time.Time `json:"deadline"`
}

// Create adds a task to the project.
func (h *TaskHandler) Create(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.CreateTaskInput{
		Title:      req.Title,
		Details:    req.Details,
		AssigneeID: req.AssigneeID,
		StartDate:  req.StartDate,
		Deadline:   req.Deadline,
	}
	if req.Urgency != "" {
		urgency, err := domain.ParseTaskUrgency(req.Urgency)
		if err != nil {
			return err
		}
		in.Urgency = urgency
	}
	if req.Status != "" {
		status, err := domain.ParseTaskStatus(req.Status)
		if err != nil {
			return err
		}
		in.Status = status
	}

	task, err := h.tasks.Create(c.Request().Context(), c.Param("id"), userID, in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title      *string    `json:"title" validate:"omitempty,max=100"`
	Details    *string    `json:"details" validate:"omitempty,max=500"`
	AssigneeID *string    `json:"assignee_id"`
	Urgency    *string    `json:"urgency"`
	Status     *string    `json:"status"`
	StartDate  *time.Time `json:"start_date"`
	Deadline   *time.Time `json:"deadline"`
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.UpdateTaskInput{
		Title:      req.Title,
		Details:    req.Details,
		AssigneeID: req.AssigneeID,
		StartDate:  req.StartDate,
		Deadline:   req.Deadline,
	}
	if req.Urgency != nil {
		urgency, err := domain.ParseTaskUrgency(*req.Urgency)
		if err != nil {
			return err
		}
		in.Urgency = &urgency
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			return err
		}
		in.Status = &status
	}

	task, err := h.tasks.Update(c.Request().Context(), c.Param("id"), userID, in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, task)
}

// Delete removes a task.
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := h.tasks.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]string{"message": "task deleted"})
}
