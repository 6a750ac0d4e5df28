package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"early-access-api/internal/usecase/health"
	"early-access-api/pkg/logger"
)

// ServiceName is the service name reported alongside the overall "" service.
const ServiceName = "early-access-api"

// Prober produces a health report.
type Prober interface {
	Check(ctx context.Context) health.Report
}

// HealthServer implements grpc.health.v1.Health on top of the health probe.
// Only Check is served; Watch and List stay unimplemented.
type HealthServer struct {
	healthpb.UnimplementedHealthServer
	probe Prober
	log   *zap.Logger
}

// NewHealthServer creates a new gRPC health server
func NewHealthServer(probe Prober, log *zap.Logger) *HealthServer {
	return &HealthServer{probe: probe, log: log}
}

// Check handles grpc.health.v1.Health/Check
func (s *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}

	report := s.probe.Check(ctx)
	if report.Status == health.StatusHealthy {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
	}

	logger.WithContext(ctx, s.log).Warn("grpc health check not serving",
		zap.String("status", report.Status),
		zap.String("database_error", report.Services.DatabaseError),
	)
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
}
