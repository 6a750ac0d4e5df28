package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SignupTable is the name of the early-access signup table.
const SignupTable = "early_access_signups"

// SignupEmailIndex is the unique index that makes email the natural key.
const SignupEmailIndex = "idx_early_access_signups_email"

// SignupSchema represents the database schema for the early_access_signups table.
// Optional columns are nullable; empty strings are stored as NULL.
type SignupSchema struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Email            string    `gorm:"size:254;not null;uniqueIndex:idx_early_access_signups_email"`
	Name             *string   `gorm:"size:100"`
	UseCase          *string   `gorm:"column:use_case;size:100"`
	Location         *string   `gorm:"size:100"`
	CommuteChallenge *string   `gorm:"column:commute_challenge;size:1000"`
	Device           *string   `gorm:"size:100"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime"`
}

// TableName specifies the table name for the SignupSchema model.
func (SignupSchema) TableName() string {
	return SignupTable
}

// EnsureSchema creates the signup table and its unique index if they are missing.
// It is safe to call repeatedly and tolerates another process creating the
// table at the same time.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&SignupSchema{}); err != nil {
		if isAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("failed to migrate %s: %w", SignupTable, err)
	}
	return nil
}

// isUniqueViolation checks if the error is a unique constraint violation.
// PostgreSQL reports SQLSTATE 23505; SQLite reports "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// isAlreadyExists matches the errors a concurrent CREATE TABLE/INDEX can raise.
func isAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// duplicate_table, duplicate_object, and the pg_type race surfacing as unique_violation
		return pgErr.Code == "42P07" || pgErr.Code == "42710" || pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
