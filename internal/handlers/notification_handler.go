package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campustrack/participation-service/internal/models"
	"github.com/campustrack/participation-service/internal/repositories"
	"github.com/campustrack/participation-service/internal/services"
	"github.com/campustrack/participation-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// ListNotifications lists the caller's notifications
// @Summary List notifications
// @Description Lists the caller's notifications, newest first, with the unread count
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param type query string false "Filter by notification type"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.NotificationListResponse
// @Failure 401 {object} ErrorResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	filters := repositories.NotificationFilters{}

	if unreadStr := c.Query("unread"); unreadStr != "" {
		unread := unreadStr == "true"
		filters.Unread = &unread
	}
	if notificationType := c.Query("type"); notificationType != "" {
		t := models.NotificationType(notificationType)
		filters.Type = &t
	}
	filters.Limit, filters.Offset = parsePagination(c)

	response, err := h.notificationService.List(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// MarkNotificationRead marks a single notification as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param id path uint true "Notification ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead marks every notification of the caller as read
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID := h.requireUserID(c)
	if userID == 0 {
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
