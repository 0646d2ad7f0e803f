// internal/handlers/notification.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopsmith/storefront/internal/services"
	"github.com/shopsmith/storefront/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GET /admin/notifications
func (h *NotificationHandler) GetUnread(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	notifications, err := h.notificationService.ListUnread(limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"notifications": notifications})
}

// POST /admin/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	if err := h.notificationService.MarkRead(id); err != nil {
		utils.NotFoundResponse(c, "notification")
		return
	}

	utils.SuccessResponse(c, gin.H{"read": true})
}
