// Package testutil provides a SQLite-backed Store for tests outside the
// storage package.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"early-access-api/internal/adapter/db/postgres"
)

// NewSQLiteStore returns a Store over a private in-memory SQLite database.
// It uses one connection so every query sees the same database.
func NewSQLiteStore(t testing.TB) *postgres.Store {
	t.Helper()

	store := postgres.NewStore(postgres.StoreConfig{
		DSN:            ":memory:",
		MaxOpenConns:   1,
		ConnectTimeout: 5 * time.Second,
	}, zaptest.NewLogger(t), postgres.WithDialector(func(dsn string) gorm.Dialector {
		return sqlite.Open(dsn)
	}))
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewSQLiteRepo returns a signup repository over NewSQLiteStore.
func NewSQLiteRepo(t testing.TB) *postgres.SignupRepoPG {
	t.Helper()
	return postgres.NewSignupRepoPG(NewSQLiteStore(t), zaptest.NewLogger(t))
}

// NewUnconfiguredRepo returns a signup repository with no connection string.
func NewUnconfiguredRepo(t testing.TB) *postgres.SignupRepoPG {
	t.Helper()
	store := postgres.NewStore(postgres.StoreConfig{}, zaptest.NewLogger(t))
	return postgres.NewSignupRepoPG(store, zaptest.NewLogger(t))
}
