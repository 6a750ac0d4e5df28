package infrastructure

import (
	"context"
	"time"

	"go.uber.org/zap"

	"early-access-api/internal/config"
	redisclient "early-access-api/pkg/redis"
)

// NewRedisClient creates the Redis client backing the rate limiter.
// It returns nil when rate limiting is disabled. An unreachable Redis is
// only logged; the limiter lets requests through while it is down.
func NewRedisClient(cfg *config.Config, l *zap.Logger) *redisclient.Client {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	rdb := redisclient.NewClient(redisclient.Config{
		Addr:        cfg.Redis.RedisAddr(),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx); err != nil {
		l.Warn("Redis unreachable, rate limiting fails open until it recovers",
			zap.String("addr", rdb.Addr()),
			zap.Error(err),
		)
	}

	return rdb
}
