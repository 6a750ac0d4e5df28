package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "early-access-api/internal/domain/signup"
	pkgerrors "early-access-api/pkg/errors"
)

// Conn provides the shared database handle.
type Conn interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// SignupRepoPG implements the signup Repository interface using PostgreSQL and GORM.
type SignupRepoPG struct {
	conn Conn        // Lazily connected database handle
	log  *zap.Logger // Structured logger for database operations
}

// NewSignupRepoPG creates a new instance of SignupRepoPG.
func NewSignupRepoPG(conn Conn, log *zap.Logger) *SignupRepoPG {
	return &SignupRepoPG{conn: conn, log: log}
}

// ExistsByEmail reports whether a signup with exactly this email is stored.
func (r *SignupRepoPG) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return false, err
	}

	var model SignupSchema
	err = db.WithContext(ctx).Select("id").Where("email = ?", email).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		r.log.Error("failed to look up signup by email", zap.Error(err))
		return false, fmt.Errorf("failed to look up signup: %w", err)
	}

	return true, nil
}

// Create inserts a new signup in a single statement. On success the
// storage-assigned ID and timestamps are copied back into s.
// A unique violation on email is returned as *errors.AlreadyExistsError.
func (r *SignupRepoPG) Create(ctx context.Context, s *domain.Signup) error {
	if s == nil {
		return pkgerrors.NewInternalError("signup cannot be nil", nil)
	}

	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}

	model := SignupSchema{
		Email:            s.Email,
		Name:             optional(s.Name),
		UseCase:          optional(s.UseCase),
		Location:         optional(s.Location),
		CommuteChallenge: optional(s.CommuteChallenge),
		Device:           optional(s.Device),
	}

	if err := db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Info("signup email already registered")
			return pkgerrors.NewAlreadyExistsError("signup", "email already registered")
		}
		r.log.Error("failed to create signup in db", zap.Error(err))
		return fmt.Errorf("failed to create signup: %w", err)
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt

	r.log.Info("signup created in db", zap.Int64("id", model.ID))
	return nil
}

// List returns signups newest first together with the total count.
func (r *SignupRepoPG) List(ctx context.Context, page, limit int64) ([]domain.Signup, int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.WithContext(ctx).Model(&SignupSchema{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count signups", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count signups: %w", err)
	}

	var models []SignupSchema
	err = db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(domain.Offset(page, limit))).
		Limit(int(limit)).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to list signups", zap.Error(err), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, fmt.Errorf("failed to list signups: %w", err)
	}

	signups := make([]domain.Signup, len(models))
	for i, m := range models {
		signups[i] = toDomain(m)
	}

	return signups, total, nil
}

// Ping runs a trivial round-trip query without touching the signup table.
func (r *SignupRepoPG) Ping(ctx context.Context) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}

	var one int
	if err := db.WithContext(ctx).Raw("SELECT 1").Row().Scan(&one); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func toDomain(m SignupSchema) domain.Signup {
	return domain.Signup{
		ID:               m.ID,
		Email:            m.Email,
		Name:             deref(m.Name),
		UseCase:          deref(m.UseCase),
		Location:         deref(m.Location),
		CommuteChallenge: deref(m.CommuteChallenge),
		Device:           deref(m.Device),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
