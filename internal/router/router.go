package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/handlers"
	"github.com/shram-daan/shramdaan/internal/metrics"
	"github.com/shram-daan/shramdaan/internal/middleware"
)

type Dependencies struct {
	Handler        *handlers.Handler
	Tokens         middleware.TokenVerifier
	Users          middleware.UserResolver
	MessageLimiter *middleware.RateLimiter
	AllowedOrigins []string
	Log            zerolog.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	h := deps.Handler

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.AuthMiddleware(deps.Tokens, deps.Users, deps.Log)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/auth/user", requireAuth, h.GetProfile)

		projects := api.Group("/projects")
		{
			projects.GET("", h.ListProjects)
			projects.GET("/:project_id", h.GetProject)
			projects.POST("", requireAuth, h.CreateProject)
			projects.PATCH("/:project_id", requireAuth, h.UpdateProject)
			projects.DELETE("/:project_id", requireAuth, h.DeleteProject)

			projects.POST("/:project_id/rsvp", requireAuth, h.JoinProject)
			projects.DELETE("/:project_id/rsvp", requireAuth, h.CancelRsvp)
			projects.GET("/:project_id/rsvps", h.ListProjectRsvps)

			projects.GET("/:project_id/messages", h.ListMessages)
			projects.POST("/:project_id/messages", requireAuth, deps.MessageLimiter.Handler(), h.PostMessage)
			projects.GET("/:project_id/ws", h.ProjectSocket)
		}

		user := api.Group("/user", requireAuth)
		{
			user.GET("/profile", h.GetProfile)
			user.PATCH("/profile", h.UpdateProfile)
			user.GET("/badges", h.ListBadges)
			user.GET("/rsvps", h.ListUserRsvps)
			user.GET("/projects", h.ListUserProjects)
		}

		notifications := api.Group("/notifications", requireAuth)
		{
			notifications.GET("", h.ListNotifications)
			notifications.PATCH("/:notification_id/read", h.MarkNotificationRead)
		}
	}

	return r
}
