package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shram-daan/shramdaan/internal/middleware"
	"github.com/shram-daan/shramdaan/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetCurrentUserID(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	ctx.Set(types.ContextUserKey, "not a user")
	_, err = GetCurrentUserID(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{ID: "u1"})
	id, err := GetCurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
}
