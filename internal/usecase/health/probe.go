// Package health reports service health from a storage round trip.
package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"early-access-api/internal/usecase/signup"
	pkgerrors "early-access-api/pkg/errors"
	"early-access-api/pkg/logger"
)

// Status values reported by the probe.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Service states reported per dependency.
const (
	ServiceOperational = "operational"
	ServiceError       = "error"
)

// Database failure summaries exposed on the unauthenticated health report.
// The full driver text only goes to the logs.
const (
	DatabaseTimeout      = "database timeout"
	DatabaseRefused      = "database connection refused"
	DatabaseAuthFailed   = "database authentication failed"
	DatabaseUnreachable  = "database unreachable"
	DatabaseQueryFailure = "database query failed"
)

// ConnectionTester performs a storage round trip.
type ConnectionTester interface {
	TestConnection(ctx context.Context) signup.ConnectionStatus
}

// Services holds the per-dependency state.
type Services struct {
	API           string `json:"api"`
	Database      string `json:"database"`
	DatabaseError string `json:"databaseError,omitempty"`
}

// Report is the health snapshot returned to monitors.
type Report struct {
	Status      string   `json:"status"`
	Timestamp   string   `json:"timestamp"`
	Uptime      float64  `json:"uptime"`
	Environment string   `json:"environment"`
	Version     string   `json:"version"`
	Services    Services `json:"services"`
	Error       string   `json:"error,omitempty"`
}

// Config holds the probe metadata and timeout.
type Config struct {
	Timeout     time.Duration
	Environment string
	Version     string
	StartedAt   time.Time
}

// Probe maps storage connectivity onto a health status.
type Probe struct {
	tester ConnectionTester
	log    *zap.Logger
	cfg    Config
	now    func() time.Time
}

// NewProbe creates a Probe. A zero StartedAt means now.
func NewProbe(tester ConnectionTester, log *zap.Logger, cfg Config) *Probe {
	if cfg.StartedAt.IsZero() {
		cfg.StartedAt = time.Now()
	}
	return &Probe{tester: tester, log: log, cfg: cfg, now: time.Now}
}

// Check runs the storage round trip and builds a Report.
// It never panics; a failure while building the report yields StatusUnhealthy.
func (p *Probe) Check(ctx context.Context) (report Report) {
	now := p.now()
	report = Report{
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Uptime:      now.Sub(p.cfg.StartedAt).Seconds(),
		Environment: p.cfg.Environment,
		Version:     p.cfg.Version,
		Services:    Services{API: ServiceOperational, Database: ServiceError},
	}

	defer func() {
		if r := recover(); r != nil {
			fault := pkgerrors.NewInternalError("health check failed", fmt.Errorf("panic: %v", r))
			logger.WithContext(ctx, p.log).Error("health check panicked", zap.Error(fault), zap.Stack("stack"))
			report.Status = StatusUnhealthy
			report.Error = fault.Message
		}
	}()

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	status := p.tester.TestConnection(ctx)
	if status.Connected {
		report.Status = StatusHealthy
		report.Services.Database = ServiceOperational
		return report
	}

	report.Status = StatusDegraded
	report.Services.DatabaseError = DescribeDatabaseError(status.Err)
	logger.WithContext(ctx, p.log).Warn("health check degraded",
		zap.Bool("configured", status.Configured),
		zap.String("database_error", status.Error),
	)
	return report
}

// DescribeDatabaseError reduces a storage failure to a short summary that
// carries no connection details. A missing DATABASE_URL keeps its own message.
func DescribeDatabaseError(err error) string {
	var (
		netErr net.Error
		pgErr  *pgconn.PgError
	)
	switch {
	case errors.Is(err, pkgerrors.ErrNotConfigured):
		return pkgerrors.ErrNotConfigured.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return DatabaseTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return DatabaseRefused
	case errors.As(err, &pgErr):
		// Class 28 is invalid authorization
		if strings.HasPrefix(pgErr.Code, "28") {
			return DatabaseAuthFailed
		}
		return fmt.Sprintf("%s (SQLSTATE %s)", DatabaseQueryFailure, pgErr.Code)
	default:
		return DatabaseUnreachable
	}
}
