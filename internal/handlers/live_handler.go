package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/live"
)

// LiveHandler upgrades authenticated requests to live notification channels
type LiveHandler struct {
	hub *live.Hub
}

// NewLiveHandler creates a new LiveHandler
func NewLiveHandler(hub *live.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// RegisterLiveRoutes registers the websocket route on an authenticated group
func (h *LiveHandler) RegisterLiveRoutes(g *echo.Group) {
	g.GET("/live", h.Connect)
}

// Connect registers the authenticated user for best-effort live delivery
func (h *LiveHandler) Connect(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}
	return h.hub.ServeWS(c.Response(), c.Request(), userID)
}
