package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"early-access-api/internal/adapter/gin/handler"
	"early-access-api/internal/adapter/gin/middleware"
	grpcmiddleware "early-access-api/internal/adapter/grpc/middleware"
	"early-access-api/internal/adapter/metrics"
)

// Handlers groups the HTTP handlers. A nil Admin leaves the admin route unregistered.
type Handlers struct {
	Signup *handler.SignupHandler
	Health *handler.HealthHandler
	Admin  *handler.AdminHandler
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	h Handlers,
	rateLimiter *grpcmiddleware.RateLimiter,
	m *metrics.Metrics,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log, m))

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Health)
		api.POST("/early-access", middleware.RateLimiter(rateLimiter, m), h.Signup.CreateSignup)

		if h.Admin != nil {
			admin := api.Group("/admin", h.Admin.RequireToken())
			admin.GET("/early-access", h.Admin.ListSignups)
		}
	}

	return router
}
