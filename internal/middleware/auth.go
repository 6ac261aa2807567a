package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/auth"
	"github.com/shram-daan/shramdaan/internal/models"
	"github.com/shram-daan/shramdaan/internal/services"
	"github.com/shram-daan/shramdaan/internal/types"
)

type AuthenticatedUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyJWT(token string) (*auth.Claims, error)
}

// UserResolver maps verified claims to a stored user, creating it on first
// sight.
type UserResolver interface {
	Resolve(ctx context.Context, identity services.Identity) (*models.User, error)
}

func AuthMiddleware(verifier TokenVerifier, users UserResolver, log zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := verifier.VerifyJWT(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		user, err := users.Resolve(ctx.Request.Context(), services.Identity{
			ID:              claims.Subject,
			Email:           claims.Email,
			FirstName:       claims.FirstName,
			LastName:        claims.LastName,
			ProfileImageURL: claims.Picture,
		})

		if err != nil {
			log.Error().Err(err).Str("user_id", claims.Subject).Msg("failed to resolve authenticated user")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		authenticated := AuthenticatedUser{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		}
		if user.Email != nil {
			authenticated.Email = *user.Email
		}

		ctx.Set(types.ContextUserKey, authenticated)
		ctx.Next()
	}
}
