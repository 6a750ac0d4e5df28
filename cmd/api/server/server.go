package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"early-access-api/cmd/api/di"
	"early-access-api/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
	GRPC   *grpc.Server // nil unless GRPC_ENABLED
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	s := &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(c.GinHandlers, c.RateLimiter, c.Metrics, ":"+cfg.App.HTTPPort, l),
	}
	if cfg.App.GRPCEnabled {
		s.GRPC = SetupGRPC(c.HealthServer, l, c.RateLimiter)
	}
	return s
}

// Start runs the Gin server and, when enabled, the gRPC server.
// It blocks until one of them stops and returns its error.
// A server stopped through Shutdown or GracefulStop returns nil.
func (s *Server) Start() error {
	var g errgroup.Group

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", s.Gin.Addr))
		if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start Gin server: %w", err)
		}
		return nil
	})

	if s.GRPC != nil {
		g.Go(func() error {
			if err := s.startGRPC(); err != nil {
				return fmt.Errorf("failed to start gRPC server: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// startGRPC starts the gRPC server
func (s *Server) startGRPC() error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", s.grpcAddress())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.Logger.Info("gRPC server running", zap.String("address", lis.Addr().String()))
	if err := s.GRPC.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// grpcAddress returns the gRPC server address
func (s *Server) grpcAddress() string {
	return ":" + s.Config.App.GRPCPort
}
