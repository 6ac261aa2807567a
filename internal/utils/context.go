package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shram-daan/shramdaan/internal/middleware"
	"github.com/shram-daan/shramdaan/internal/types"
)

var ErrNotAuthenticated = errors.New("user not authenticated")

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, ErrNotAuthenticated
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok || authenticatedUser.ID == "" {
		return middleware.AuthenticatedUser{}, ErrNotAuthenticated
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (string, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return "", err
	}

	return user.ID, nil
}
