package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgerrors "early-access-api/pkg/errors"
)

// Dialector builds the GORM dialector for a connection string.
type Dialector func(dsn string) gorm.Dialector

// StoreConfig holds the connection string and pool settings for a Store.
// Zero pool values leave the database/sql defaults in place.
type StoreConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// Store owns the shared GORM handle. The connection is opened on first use,
// the schema is ensured on that connection, and the handle is reused afterwards.
// A failed attempt is not remembered, so the next caller retries.
type Store struct {
	cfg        StoreConfig
	dialector  Dialector
	gormLogger gormlogger.Interface
	log        *zap.Logger

	mu    sync.RWMutex
	db    *gorm.DB
	group singleflight.Group
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithDialector replaces the default PostgreSQL dialector.
func WithDialector(d Dialector) StoreOption {
	return func(s *Store) {
		s.dialector = d
	}
}

// WithGormLogger sets the logger GORM uses for queries.
func WithGormLogger(l gormlogger.Interface) StoreOption {
	return func(s *Store) {
		s.gormLogger = l
	}
}

// NewStore creates a Store. It does not connect.
func NewStore(cfg StoreConfig, log *zap.Logger, opts ...StoreOption) *Store {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	s := &Store{
		cfg:        cfg,
		dialector:  pgdriver.Open,
		gormLogger: gormlogger.Discard,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether the store has a connection string.
func (s *Store) Configured() bool {
	return s.cfg.DSN != ""
}

// DB returns the shared handle, connecting on first use.
// It returns ErrNotConfigured without dialing when no connection string is set.
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	if !s.Configured() {
		return nil, pkgerrors.ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	ch := s.group.DoChan("connect", func() (any, error) {
		s.mu.RLock()
		existing := s.db
		s.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		opened, err := s.connect()
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.db = opened
		s.mu.Unlock()
		return opened, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gorm.DB), nil
	}
}

// connect runs detached from any single request so a cancelled caller
// does not abort the attempt the others are waiting on.
func (s *Store) connect() (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ConnectTimeout)
	defer cancel()

	db, err := gorm.Open(s.dialector(s.cfg.DSN), &gorm.Config{
		Logger:               s.gormLogger,
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if s.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(s.cfg.MaxOpenConns)
	}
	if s.cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(s.cfg.MaxIdleConns)
	}
	if s.cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)
	}
	if s.cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(s.cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	s.log.Info("database connected",
		zap.Int("max_open_conns", s.cfg.MaxOpenConns),
		zap.Int("max_idle_conns", s.cfg.MaxIdleConns),
		zap.Duration("conn_max_lifetime", s.cfg.ConnMaxLifetime),
		zap.Duration("conn_max_idle_time", s.cfg.ConnMaxIdleTime),
	)

	return db, nil
}

// Close closes the underlying connection pool if it was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	s.db = nil

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
