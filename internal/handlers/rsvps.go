package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shram-daan/shramdaan/internal/utils"
)

func (h *Handler) JoinProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	rsvp, err := h.projects.Join(ctx.Request.Context(), ctx.Param("project_id"), userID)

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusCreated, rsvp)
}

func (h *Handler) CancelRsvp(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	if err := h.projects.Cancel(ctx.Request.Context(), ctx.Param("project_id"), userID); err != nil {
		h.respondError(ctx, err, "RSVP")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "RSVP cancelled successfully"})
}

func (h *Handler) ListProjectRsvps(ctx *gin.Context) {
	rsvps, err := h.projects.ListAttendees(ctx.Request.Context(), ctx.Param("project_id"))

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusOK, rsvps)
}

func (h *Handler) ListUserRsvps(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	rsvps, err := h.projects.ListUserRsvps(ctx.Request.Context(), userID)

	if err != nil {
		h.respondError(ctx, err, "RSVP")
		return
	}

	ctx.JSON(http.StatusOK, rsvps)
}
