package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection configuration.
type Config struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
}

// Client wraps redis.Client for the rate limiter store.
type Client struct {
	*redis.Client
	addr string
	log  *zap.Logger
}

// NewClient creates a Redis client. It does not dial; go-redis connects on
// first use and reconnects on its own.
func NewClient(cfg Config, log *zap.Logger) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConn,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolTimeout:  time.Second,
	})

	return &Client{
		Client: rdb,
		addr:   cfg.Addr,
		log:    log,
	}
}

// Addr returns the configured host:port.
func (c *Client) Addr() string {
	return c.addr
}

// Ping checks if the Redis connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return err
	}
	c.log.Info("Redis connected successfully", zap.String("addr", c.addr))
	return nil
}

// Close gracefully closes the Redis connection.
func (c *Client) Close() error {
	c.log.Info("Closing Redis connection", zap.String("addr", c.addr))
	return c.Client.Close()
}
