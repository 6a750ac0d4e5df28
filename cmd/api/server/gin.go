package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginrouter "early-access-api/internal/adapter/gin/router"
	grpcmiddleware "early-access-api/internal/adapter/grpc/middleware"
	"early-access-api/internal/adapter/metrics"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handlers ginrouter.Handlers,
	rateLimiter *grpcmiddleware.RateLimiter,
	m *metrics.Metrics,
	ginAddr string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(handlers, rateLimiter, m, l)

	l.Info("Gin REST API configured",
		zap.String("address", ginAddr),
		zap.Bool("admin_enabled", handlers.Admin != nil),
		zap.Bool("rate_limit_enabled", rateLimiter != nil),
	)

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
