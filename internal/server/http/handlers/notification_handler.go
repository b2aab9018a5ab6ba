package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PhamQuy48/storefront/internal/server/http/dto"
	"github.com/PhamQuy48/storefront/internal/stream"
)

// NotificationHandler exposes the caller's notification log.
type NotificationHandler struct {
	facade NotificationFacade
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade}
}

// List handles GET /api/notifications. Clients call it after every
// reconnect to resync with the store.
func (h *NotificationHandler) List(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	page, err := h.facade.Notifications(c.Request.Context(), CurrentIdentity(c).UserID, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]stream.NotificationPayload, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, stream.NewNotificationPayload(n))
	}
	c.JSON(http.StatusOK, dto.NotificationListResponse{Items: items, UnreadCount: page.Unread})
}

// Mark handles PATCH /api/notifications.
func (h *NotificationHandler) Mark(c *gin.Context) {
	var req dto.MarkNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "", "malformed request body")
		return
	}
	userID := CurrentIdentity(c).UserID

	if req.MarkAllAsRead {
		unread, err := h.facade.MarkAllNotificationsRead(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: unread})
		return
	}

	if strings.TrimSpace(req.NotificationID) == "" {
		badRequest(c, "notificationId", "is required")
		return
	}
	id, ok := parseUUID(c, req.NotificationID, "notificationId")
	if !ok {
		return
	}
	unread, err := h.facade.MarkNotificationRead(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: unread})
}

// Delete handles DELETE /api/notifications?id=.
func (h *NotificationHandler) Delete(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		badRequest(c, "id", "is required")
		return
	}
	id, ok := parseUUID(c, raw, "id")
	if !ok {
		return
	}
	unread, err := h.facade.DeleteNotification(c.Request.Context(), id, CurrentIdentity(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: unread})
}
