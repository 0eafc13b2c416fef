package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabinsight/server/internal/domain"
	"github.com/collabinsight/server/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// List returns the requester's projects, optionally keyword-filtered.
func (h *ProjectHandler) List(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	projects, err := h.projects.List(c.Request().Context(), userID, c.QueryParam("keyword"))
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, projects)
}

type createProjectRequest struct {
	Name        string     `json:"name" validate:"required,min=2,max=80"`
	Description string     `json:"description" validate:"max=500"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	MemberIDs   []string   `json:"member_ids"`
}

// Create makes the requester the leader of a new project.
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		MemberIDs:   req.MemberIDs,
	}
	if req.Status != "" {
		status, err := domain.ParseProjectStatus(req.Status)
		if err != nil {
			return err
		}
		in.Status = status
	}
	if req.Priority != "" {
		priority, err := domain.ParseProjectPriority(req.Priority)
		if err != nil {
			return err
		}
		in.Priority = priority
	}

	project, err := h.projects.Create(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, project)
}

// SearchUsers finds assignable users for the project. Leader-only.
func (h *ProjectHandler) SearchUsers(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	users, err := h.projects.SearchUsers(c.Request().Context(), c.Param("id"), userID, c.QueryParam("keyword"))
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, users)
}
