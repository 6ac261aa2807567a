package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shram-daan/shramdaan/internal/services"
	"github.com/shram-daan/shramdaan/internal/utils"
)

// GetProfile returns the caller with their counts and badges. It backs both
// /api/auth/user and /api/user/profile.
func (h *Handler) GetProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	profile, err := h.users.Profile(ctx.Request.Context(), userID)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	var body services.ProfileInput

	if err := ctx.ShouldBindJSON(&body); err != nil {
		h.badRequest(ctx, err, &body)
		return
	}

	user, err := h.users.UpdateProfile(ctx.Request.Context(), userID, body)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func (h *Handler) ListBadges(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	badges, err := h.users.Badges(ctx.Request.Context(), userID)

	if err != nil {
		h.respondError(ctx, err, "User")
		return
	}

	ctx.JSON(http.StatusOK, badges)
}
