package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabinsight/server/internal/domain"
	"github.com/collabinsight/server/internal/service"
)

// BugHandler handles bug endpoints, including the review sub-workflow.
type BugHandler struct {
	bugs     *service.BugService
	projects *service.ProjectService
}

// NewBugHandler creates a new BugHandler.
func NewBugHandler(bugs *service.BugService, projects *service.ProjectService) *BugHandler {
	return &BugHandler{bugs: bugs, projects: projects}
}

// List returns the project's bugs visible to the requester.
func (h *BugHandler) List(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	bugs, err := h.bugs.List(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, bugs)
}

type createBugRequest struct {
	Title      string     `json:"title" validate:"required,max=100"`
	Details    string     `json:"details" validate:"max=500"`
	AssigneeID string     `json:"assignee_id"`
	Severity   string     `json:"severity"`
	StartDate  *time.Time `json:"start_date"`
	Deadline   *time.Time `json:"deadline"`
}

// Create reports a bug in the project.
func (h *BugHandler) Create(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req createBugRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.CreateBugInput{
		Title:      req.Title,
		Details:    req.Details,
		AssigneeID: req.AssigneeID,
		StartDate:  req.StartDate,
		Deadline:   req.Deadline,
	}
	if req.Severity != "" {
		severity, err := domain.ParseBugSeverity(req.Severity)
		if err != nil {
			return err
		}
		in.Severity = severity
	}

	bug, err := h.bugs.Create(c.Request().Context(), c.Param("id"), userID, in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, bug)
}

type updateBugRequest struct {
	Title      *string    `json:"title" validate:"omitempty,max=100"`
	Details    *string    `json:"details" validate:"omitempty,max=500"`
	AssigneeID *string    `json:"assignee_id"`
	Severity   *string    `json:"severity"`
	Status     *string    `json:"status"`
	Solution   *string    `json:"solution" validate:"omitempty,max=500"`
	StartDate  *time.Time `json:"start_date"`
	Deadline   *time.Time `json:"deadline"`
}

// Update applies a partial update to a bug.
func (h *BugHandler) Update(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req updateBugRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.UpdateBugInput{
		Title:      req.Title,
		Details:    req.Details,
		AssigneeID: req.AssigneeID,
		Solution:   req.Solution,
		StartDate:  req.StartDate,
		Deadline:   req.Deadline,
	}
	if req.Severity != nil {
		severity, err := domain.ParseBugSeverity(*req.Severity)
		if err != nil {
			return err
		}
		in.Severity = &severity
	}
	if req.Status != nil {
		status, err := domain.ParseBugStatus(*req.Status)
		if err != nil {
			return err
		}
		in.Status = &status
	}

	bug, err := h.bugs.Update(c.Request().Context(), c.Param("id"), userID, in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, bug)
}

// Delete removes a bug.
func (h *BugHandler) Delete(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := h.bugs.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]string{"message": "bug deleted"})
}

type approveBugRequest struct {
	ApprovalResult string `json:"approval_result" validate:"required"`
	ReviewComment  string `json:"review_comment" validate:"max=200"`
}

// Approve records the leader's review verdict on a bug awaiting review.
func (h *BugHandler) Approve(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req approveBugRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := domain.ParseApprovalStatus(req.ApprovalResult)
	if err != nil {
		return err
	}

	bug, err := h.bugs.Approve(c.Request().Context(), c.Param("id"), userID, service.ApproveBugInput{
		Result:        result,
		ReviewComment: req.ReviewComment,
	})
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, bug)
}

// SearchUsers finds assignable users for the project. Leader-only.
func (h *BugHandler) SearchUsers(c echo.Context) error {
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
