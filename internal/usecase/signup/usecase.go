package signup

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "early-access-api/internal/domain/signup"
	pkgerrors "early-access-api/pkg/errors"
	"early-access-api/pkg/logger"
)

// Repository defines the interface for signup data access operations.
type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)               // Exact-match lookup bounded to one row
	Create(ctx context.Context, s *domain.Signup) error                          // Single-statement insert
	List(ctx context.Context, page, limit int64) ([]domain.Signup, int64, error) // Newest first with total count
	Ping(ctx context.Context) error                                              // Trivial round trip
}

// Options tunes the signup write path.
type Options struct {
	QueryTimeout time.Duration // Upper bound for each operation; zero disables it
	Precheck     bool          // Look the email up before inserting
}

// Usecase implements the business logic for early-access signups.
// The storage unique index decides duplicates; the optional pre-check only
// saves a failed insert for the common case.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
	opts     Options
}

var _ Service = (*Usecase)(nil)

// New creates a new instance of Usecase.
func New(r Repository, log *zap.Logger, opts Options) *Usecase {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Usecase{repo: r, log: log, validate: v, opts: opts}
}

// formatValidationError converts validator.ValidationErrors into a per-field ValidationError.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			fields[e.Field()] = fmt.Sprintf("%s is required", e.Field())
		case "email":
			fields[e.Field()] = fmt.Sprintf("%s must be a valid email", e.Field())
		case "max":
			fields[e.Field()] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		default:
			fields[e.Field()] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}
	return pkgerrors.NewFieldsValidationError(fields)
}

func (uc *Usecase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.opts.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.opts.QueryTimeout)
}

// normalize maps a storage error onto the error taxonomy.
// Already classified errors pass through unchanged.
func normalize(err error, action string) error {
	switch {
	case pkgerrors.IsAlreadyExists(err), pkgerrors.IsValidation(err),
		pkgerrors.IsUnavailable(err), pkgerrors.IsInternal(err):
		return err
	case errors.Is(err, pkgerrors.ErrNotConfigured):
		return pkgerrors.NewUnavailableError("database not configured", err)
	case errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.NewUnavailableError("database timeout while trying to "+action, err)
	default:
		return pkgerrors.NewUnavailableError("failed to "+action, err)
	}
}

func normalizeRequest(in CreateSignupRequest) CreateSignupRequest {
	return CreateSignupRequest{
		Email:            strings.TrimSpace(in.Email),
		Name:             strings.TrimSpace(in.Name),
		UseCase:          strings.TrimSpace(in.UseCase),
		Location:         strings.TrimSpace(in.Location),
		CommuteChallenge: strings.TrimSpace(in.CommuteChallenge),
		Device:           strings.TrimSpace(in.Device),
	}
}

// CheckExists reports whether a signup with exactly this email is stored.
func (uc *Usecase) CheckExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, pkgerrors.NewValidationError("email", "email is required")
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	exists, err := uc.repo.ExistsByEmail(ctx, email)
	if err != nil {
		logger.WithContext(ctx, uc.log).Error("failed to check existing email", zap.Error(err))
		return false, normalize(err, "check signup")
	}
	return exists, nil
}

// Validate trims the request and checks it without touching storage.
// It returns the trimmed request.
func (uc *Usecase) Validate(in CreateSignupRequest) (CreateSignupRequest, error) {
	in = normalizeRequest(in)
	if err := uc.validate.Struct(in); err != nil {
		return in, formatValidationError(err)
	}
	return in, nil
}

// Insert validates and stores a new signup.
// A duplicate email yields *errors.AlreadyExistsError whether it is caught by
// the pre-check or by the unique index.
func (uc *Usecase) Insert(ctx context.Context, in CreateSignupRequest) (*CreateSignupResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	in, err := uc.Validate(in)
	if err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	if uc.opts.Precheck {
		exists, err := uc.repo.ExistsByEmail(ctx, in.Email)
		switch {
		case err != nil:
			// The insert below still enforces uniqueness.
			log.Warn("signup pre-check failed, inserting anyway", zap.Error(err))
		case exists:
			log.Info("signup email already registered")
			return nil, pkgerrors.NewAlreadyExistsError("signup", "email already registered")
		}
	}

	s := &domain.Signup{
		Email:            in.Email,
		Name:             in.Name,
		UseCase:          in.UseCase,
		Location:         in.Location,
		CommuteChallenge: in.CommuteChallenge,
		Device:           in.Device,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		if pkgerrors.IsAlreadyExists(err) {
			log.Info("signup email already registered")
			return nil, err
		}
		log.Error("failed to create signup", zap.Error(err))
		return nil, normalize(err, "save signup")
	}

	log.Info("signup created", zap.Int64("id", s.ID))
	return &CreateSignupResponse{Signup: fromDomain(*s)}, nil
}

// TestConnection performs a trivial storage round trip that never reads the signup table.
func (uc *Usecase) TestConnection(ctx context.Context) ConnectionStatus {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	if err := uc.repo.Ping(ctx); err != nil {
		logger.WithContext(ctx, uc.log).Warn("database connection test failed", zap.Error(err))
		return ConnectionStatus{
			Connected:  false,
			Configured: !errors.Is(err, pkgerrors.ErrNotConfigured),
			Error:      err.Error(),
			Err:        err,
		}
	}
	return ConnectionStatus{Connected: true, Configured: true}
}

// ListSignups retrieves a page of signups, newest first.
func (uc *Usecase) ListSignups(ctx context.Context, in ListSignupsRequest) (*ListSignupsResponse, error) {
	in.Page, in.Limit = domain.PageWindow(in.Page, in.Limit)

	log := logger.WithContext(ctx, uc.log)
	log.Info("listing signups", zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	records, total, err := uc.repo.List(ctx, in.Page, in.Limit)
	if err != nil {
		log.Error("failed to list signups", zap.Int64("page", in.Page), zap.Int64("limit", in.Limit), zap.Error(err))
		return nil, normalize(err, "list signups")
	}

	signups := make([]Signup, len(records))
	for i, r := range records {
		signups[i] = fromDomain(r)
	}

	return &ListSignupsResponse{
		Signups:    signups,
		Pagination: domain.NewPagination(total, in.Page, in.Limit),
	}, nil
}
