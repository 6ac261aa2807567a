package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shram-daan/shramdaan/internal/utils"
)

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (h *Handler) ListMessages(ctx *gin.Context) {
	messages, err := h.messages.List(ctx.Request.Context(), ctx.Param("project_id"))

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

func (h *Handler) PostMessage(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	var body PostMessageRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.badRequest(ctx, err, &body)
		return
	}

	message, err := h.messages.Post(ctx.Request.Context(), ctx.Param("project_id"), userID, body.Content)

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusCreated, message)
}
