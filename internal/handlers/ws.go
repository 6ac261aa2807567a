package handlers

import (
	"github.com/gin-gonic/gin"
)

// ProjectSocket streams new chat messages of a project over a websocket.
func (h *Handler) ProjectSocket(ctx *gin.Context) {
	projectID := ctx.Param("project_id")

	if _, err := h.projects.Get(ctx.Request.Context(), projectID); err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	h.hub.Serve(ctx.Writer, ctx.Request, projectID)
}
