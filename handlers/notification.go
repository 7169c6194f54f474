package handlers

import (
	"net/http"
	"strconv"

	"groundbook/middleware"
	"groundbook/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// ListNotificationsHandler handles GET /api/notifications?limit=.
func (h *HandlerBundle) ListNotificationsHandler(c *gin.Context) {
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(c, utils.ValidationError{Field: "limit", Msg: "must be a positive integer"})
			return
		}
		limit = min(n, maxNotificationLimit)
	}

	list, err := h.Notifications.ListUserNotifications(c.Request.Context(), middleware.CurrentIdentity(c).UserID, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UnreadNotificationsHandler handles GET /api/notifications/unread-count.
func (h *HandlerBundle) UnreadNotificationsHandler(c *gin.Context) {
	n, err := h.Notifications.UnreadCount(c.Request.Context(), middleware.CurrentIdentity(c).UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// MarkNotificationReadHandler handles PATCH /api/notifications/:id/read.
func (h *HandlerBundle) MarkNotificationReadHandler(c *gin.Context) {
	if err := h.Notifications.MarkNotificationRead(c.Request.Context(), c.Param("id"), middleware.CurrentIdentity(c).UserID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsReadHandler handles PATCH /api/notifications/read-all.
func (h *HandlerBundle) MarkAllNotificationsReadHandler(c *gin.Context) {
	n, err := h.Notifications.MarkAllNotificationsRead(c.Request.Context(), middleware.CurrentIdentity(c).UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
