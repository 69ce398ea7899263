package api

import (
	"github.com/gin-gonic/gin"

	"voting-api/internal/api/handlers"
	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/middlewares"
)

// SetupRoutes configures all API routes with proper middleware
func SetupRoutes(router *gin.Engine, services interfaces.Services) {
	cfg := services.GetConfig()

	// Global middleware
	router.Use(middlewares.RequestLogging(services.GetLogger()))
	router.Use(middlewares.Recovery(services.GetLogger()))
	router.Use(middlewares.CORS(cfg.API.CORS))
	router.Use(middlewares.Security())
	router.Use(middlewares.RateLimit(cfg.API.RateLimit, cfg.API.BurstLimit))

	// Health check (no auth required)
	router.GET("/health", handlers.HealthCheck(services))

	setupUserRoutes(router, services)
	setupCandidateRoutes(router, services)
	setupAdminRoutes(router, services)
}

// setupUserRoutes configures account routes
func setupUserRoutes(router *gin.Engine, services interfaces.Services) {
	users := router.Group("/users")
	{
		users.POST("/signup", handlers.Signup(services))
		users.POST("/login", handlers.Login(services))

		authenticated := users.Group("/")
		authenticated.Use(middlewares.AuthRequired(services))
		{
			authenticated.GET("/profile", handlers.GetProfile(services))
			authenticated.PUT("/profile/password", handlers.ChangePassword(services))
		}
	}
}

// setupCandidateRoutes configures candidate administration and voting.
// Administrative writes check the role before reading the body, and the
// voting workflow checks it again.
func setupCandidateRoutes(router *gin.Engine, services interfaces.Services) {
	candidates := router.Group("/candidates")
	{
		candidates.GET("", handlers.ListCandidates(services))
		candidates.GET("/vote/count", handlers.GetVoteCount(services))
		candidates.GET("/vote/live", handlers.LiveTally(services))

		authenticated := candidates.Group("")
		authenticated.Use(middlewares.AuthRequired(services))
		{
			authenticated.POST("", handlers.CreateCandidate(services))
			authenticated.PUT("/:id", handlers.UpdateCandidate(services))
			authenticated.DELETE("/:id", handlers.DeleteCandidate(services))
			authenticated.POST("/vote/:id", handlers.CastVote(services))
		}
	}
}

// setupAdminRoutes configures admin-only routes
func setupAdminRoutes(router *gin.Engine, services interfaces.Services) {
	admin := router.Group("/admin")
	admin.Use(middlewares.AuthRequired(services))
	admin.Use(middlewares.AdminRequired(services))
	{
		admin.GET("/audit", handlers.GetAuditLogs(services))
	}
}
