package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tahmid-rahman/inkwell-backend/internal/apperrors"
	"github.com/tahmid-rahman/inkwell-backend/internal/engagement"
)

// NotificationHandler exposes the notification inbox
type NotificationHandler struct {
	inbox *engagement.Inbox
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inbox *engagement.Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// RegisterNotificationRoutes registers inbox routes on an authenticated group
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/user/notifications", h.ListNotifications)
	g.GET("/user/notifications/:id", h.ReadNotification)
}

// ListNotifications returns the recipient's notifications newest first with
// rendered summary lines
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}

	entries, err := h.inbox.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	unread, err := h.inbox.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": entries,
		"unreadCount":   unread,
	})
}

// ReadNotification marks one notification read and returns the subject post
// when present
func (h *NotificationHandler) ReadNotification(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return apperrors.Unauthorized("user not authenticated")
	}

	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return apperrors.InvalidOperation("invalid notification ID")
	}

	notification, post, err := h.inbox.MarkRead(c.Request().Context(), userID, uint(notifID))
	if err != nil {
		return err
	}

	resp := echo.Map{
		"success":      true,
		"message":      "notification read",
		"notification": notification,
	}
	if post != nil {
		resp["post"] = post
	}
	return c.JSON(http.StatusOK, resp)
}
