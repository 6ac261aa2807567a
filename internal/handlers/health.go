package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// HealthCheck reports liveness and whether the database answers a ping.
func (h *Handler) HealthCheck(ctx *gin.Context) {
	status, code, database := "ok", http.StatusOK, "ok"

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		h.log.Warn().Err(err).Msg("database ping failed")
		status, code, database = "degraded", http.StatusServiceUnavailable, "unavailable"
	}

	ctx.JSON(code, gin.H{
		"status":    status,
		"database":  database,
		"message":   "Shram Daan is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
