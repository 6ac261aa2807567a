package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shram-daan/shramdaan/internal/utils"
)

func (h *Handler) ListNotifications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	notifications, err := h.notifications.List(ctx.Request.Context(), userID)

	if err != nil {
		h.respondError(ctx, err, "Notification")
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	if err := h.notifications.MarkRead(ctx.Request.Context(), ctx.Param("notification_id"), userID); err != nil {
		h.respondError(ctx, err, "Notification")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
