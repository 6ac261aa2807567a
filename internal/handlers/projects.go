package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shram-daan/shramdaan/internal/services"
	"github.com/shram-daan/shramdaan/internal/storage"
	"github.com/shram-daan/shramdaan/internal/utils"
)

func (h *Handler) ListProjects(ctx *gin.Context) {
	projects, err := h.projects.List(ctx.Request.Context(), storage.ProjectFilter{
		Category:    ctx.Query("category"),
		Search:      ctx.Query("search"),
		OrganizerID: ctx.Query("userId"),
	})

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(ctx *gin.Context) {
	project, err := h.projects.Get(ctx.Request.Context(), ctx.Param("project_id"))

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	var body services.CreateProjectInput

	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.badRequest(ctx, err, &body)
		return
	}

	project, err := h.projects.Create(ctx.Request.Context(), body, userID)

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusCreated, project)
}

func (h *Handler) UpdateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	var body services.UpdateProjectInput

	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.badRequest(ctx, err, &body)
		return
	}

	project, err := h.projects.Update(ctx.Request.Context(), ctx.Param("project_id"), body, userID)

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	if err := h.projects.Delete(ctx.Request.Context(), ctx.Param("project_id"), userID); err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *Handler) ListUserProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	projects, err := h.projects.ListForUser(ctx.Request.Context(), userID)

	if err != nil {
		h.respondError(ctx, err, "Project")
		return
	}

	ctx.JSON(http.StatusOK, projects)
}
