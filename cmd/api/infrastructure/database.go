package infrastructure

import (
	"time"

	"go.uber.org/zap"

	"early-access-api/internal/adapter/db/postgres"
	"early-access-api/internal/config"
	"early-access-api/pkg/logger"
)

// NewStore creates the lazily connected database store. Nothing is dialed
// here; an empty DATABASE_URL yields a store that reports "not configured".
func NewStore(cfg *config.Config, l *zap.Logger) *postgres.Store {
	gormLogger := logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	store := postgres.NewStore(postgres.StoreConfig{
		DSN:             cfg.DB.URL,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DB.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.DB.ConnMaxIdleTime) * time.Second,
		ConnectTimeout:  time.Duration(cfg.DB.ConnectTimeoutSeconds) * time.Second,
	}, l, postgres.WithGormLogger(gormLogger))

	if !store.Configured() {
		l.Warn("DATABASE_URL is empty; signups are disabled and health reports degraded")
	}

	return store
}
