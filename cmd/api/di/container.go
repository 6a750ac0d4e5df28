package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"early-access-api/cmd/api/infrastructure"
	"early-access-api/internal/adapter/db/postgres"
	ginhandler "early-access-api/internal/adapter/gin/handler"
	ginrouter "early-access-api/internal/adapter/gin/router"
	grpcadapter "early-access-api/internal/adapter/grpc"
	"early-access-api/internal/adapter/grpc/middleware"
	"early-access-api/internal/adapter/metrics"
	"early-access-api/internal/config"
	"early-access-api/internal/usecase/health"
	"early-access-api/internal/usecase/signup"
	redisclient "early-access-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        *postgres.Store
	RedisClient  *redisclient.Client
	Metrics      *metrics.Metrics
	SignupUC     *signup.Usecase
	Probe        *health.Probe
	RateLimiter  *middleware.RateLimiter
	GinHandlers  ginrouter.Handlers
	HealthServer *grpcadapter.HealthServer
}

// NewContainer creates and initializes all application dependencies.
// startedAt is the process start time reported as uptime by the health probe.
func NewContainer(cfg *config.Config, l *zap.Logger, startedAt time.Time) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Storage connects on first use
	store := infrastructure.NewStore(cfg, l)
	repo := postgres.NewSignupRepoPG(store, l)

	signupUC := signup.New(repo, l, signup.Options{
		QueryTimeout: time.Duration(cfg.DB.QueryTimeoutSeconds) * time.Second,
		Precheck:     cfg.Signup.PrecheckEnabled,
	})

	probe := health.NewProbe(signupUC, l, health.Config{
		Timeout:     time.Duration(cfg.App.HealthTimeoutSeconds) * time.Second,
		Environment: cfg.App.Env,
		Version:     cfg.Logger.ServiceVersion,
		StartedAt:   startedAt,
	})

	m := metrics.New()

	// Rate limiting is optional and needs Redis
	rdb := infrastructure.NewRedisClient(cfg, l)
	var rateLimiter *middleware.RateLimiter
	if rdb != nil {
		rateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	handlers := ginrouter.Handlers{
		Signup: ginhandler.NewSignupHandler(signupUC, l, m),
		Health: ginhandler.NewHealthHandler(probe, m),
	}
	if cfg.App.AdminToken != "" {
		handlers.Admin = ginhandler.NewAdminHandler(signupUC, cfg.App.AdminToken, l)
	}

	return &Container{
		Config:       cfg,
		Logger:       l,
		Store:        store,
		RedisClient:  rdb,
		Metrics:      m,
		SignupUC:     signupUC,
		Probe:        probe,
		RateLimiter:  rateLimiter,
		GinHandlers:  handlers,
		HealthServer: grpcadapter.NewHealthServer(probe, l),
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
