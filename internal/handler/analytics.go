package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabinsight/server/internal/domain"
	"github.com/collabinsight/server/internal/service"
)

// AnalyticsHandler handles the dashboard endpoint.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview returns the aggregated dashboard for the requester's projects.
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	userID, ok := GetUserID(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	overview, err := h.analytics.Overview(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, overview)
}
