package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/collabinsight/server/internal/domain"
	"github.com/collabinsight/server/internal/service"
)

// MessageHandler handles project chat history endpoints.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// List returns the project's chat history in chronological order.
func (h *MessageHandler) List(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	messages, err := h.messages.List(c.Request().Context(), c.Param("id"), userID, limit)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, messages)
}

type postMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
	Type    string `json:"type" validate:"omitempty,oneof=text image"`
}

// Post appends a message to the project's chat history.
func (h *MessageHandler) Post(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.messages.Post(c.Request().Context(), c.Param("id"), userID, req.Content, domain.MessageType(req.Type))
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, msg)
}
