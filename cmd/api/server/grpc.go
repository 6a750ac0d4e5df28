package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcadapter "early-access-api/internal/adapter/grpc"
	"early-access-api/internal/adapter/grpc/middleware"
	"early-access-api/pkg/logger"
)

// SetupGRPC creates the gRPC server that exposes grpc.health.v1.Health
func SetupGRPC(healthServer *grpcadapter.HealthServer, l *zap.Logger, rateLimiter *middleware.RateLimiter) *grpc.Server {
	// Request ID first so recovered panics are logged with it
	interceptors := []grpc.UnaryServerInterceptor{
		logger.RequestIDInterceptor(),
		middleware.RecoveryInterceptor(l),
	}
	if rateLimiter != nil {
		interceptors = append(interceptors, rateLimiter.UnaryInterceptor())
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	l.Info("gRPC health service configured")
	return grpcServer
}
