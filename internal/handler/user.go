package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabinsight/server/internal/domain"
	"github.com/collabinsight/server/internal/service"
)

// UserHandler handles the admin-only account management endpoints.
type UserHandler struct {
	users *service.UserAdminService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserAdminService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all accounts.
func (h *UserHandler) List(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	users, err := h.users.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, users)
}

// Get returns a single account.
func (h *UserHandler) Get(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	user, err := h.users.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, user)
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

// Create adds an account with an explicit role.
func (h *UserHandler) Create(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != "" {
		role, err := domain.ParseAccountRole(req.Role)
		if err != nil {
			return err
		}
		in.Role = role
	}

	user, err := h.users.Create(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, user)
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=2,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role"`
}

// Update modifies an account's profile or role.
func (h *UserHandler) Update(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
	}
	if req.Role != nil {
		role, err := domain.ParseAccountRole(*req.Role)
		if err != nil {
			return err
		}
		in.Role = &role
	}

	user, err := h.users.Update(c.Request().Context(), userID, c.Param("id"), in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, user)
}

// Delete removes an account.
func (h *UserHandler) Delete(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := h.users.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]string{"message": "user deleted"})
}
