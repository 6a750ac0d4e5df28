package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"early-access-api/internal/adapter/metrics"
	"early-access-api/internal/usecase/signup"
	pkgerrors "early-access-api/pkg/errors"
	"early-access-api/pkg/logger"
)

// SignupService is the part of the signup usecase the gateway needs.
type SignupService interface {
	Validate(in signup.CreateSignupRequest) (signup.CreateSignupRequest, error)
	Insert(ctx context.Context, in signup.CreateSignupRequest) (*signup.CreateSignupResponse, error)
}

// SignupHandler handles early-access form submissions
type SignupHandler struct {
	svc     SignupService
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewSignupHandler creates a new SignupHandler instance
func NewSignupHandler(svc SignupService, log *zap.Logger, m *metrics.Metrics) *SignupHandler {
	return &SignupHandler{
		svc:     svc,
		log:     log,
		metrics: m,
	}
}

// CreateSignup handles POST /api/early-access
func (h *SignupHandler) CreateSignup(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req signup.CreateSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid signup request body", zap.Error(err))
		h.metrics.ObserveSignup(metrics.OutcomeValidation)
		c.JSON(http.StatusBadRequest, SignupResponse{
			Success: false,
			Reason:  ReasonValidation,
			Message: MessageInvalidJSON,
		})
		return
	}

	req, err := h.svc.Validate(req)
	if err != nil {
		log.Warn("signup rejected by validation", zap.Error(err))
		h.handleError(c, err)
		return
	}

	resp, err := h.svc.Insert(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.metrics.ObserveSignup(metrics.OutcomeCreated)
	record := toRecord(resp.Signup)
	c.JSON(http.StatusCreated, SignupResponse{
		Success: true,
		Message: MessageCreated,
		Record:  &record,
	})
}

// handleError converts usecase errors to the submission response contract
func (h *SignupHandler) handleError(c *gin.Context, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var validationErr *pkgerrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.metrics.ObserveSignup(metrics.OutcomeValidation)
		c.JSON(http.StatusBadRequest, SignupResponse{
			Success: false,
			Reason:  ReasonValidation,
			Message: validationErr.Message,
			Fields:  validationErr.Fields,
		})
	case pkgerrors.IsAlreadyExists(err):
		h.metrics.ObserveSignup(metrics.OutcomeDuplicate)
		c.JSON(http.StatusConflict, SignupResponse{
			Success: false,
			Reason:  ReasonDuplicate,
			Message: MessageDuplicate,
		})
	case pkgerrors.IsUnavailable(err):
		log.Error("signup storage unavailable", zap.Error(err))
		h.metrics.ObserveSignup(metrics.OutcomeUnavailable)
		c.JSON(http.StatusServiceUnavailable, SignupResponse{
			Success: false,
			Reason:  ReasonUnavailable,
			Message: MessageUnavailable,
		})
	case pkgerrors.IsInternal(err):
		log.Error("signup failed with internal error", zap.Error(err))
		h.writeInternal(c)
	default:
		// Unclassified errors are internal faults too
		log.Error("signup failed unexpectedly", zap.Error(pkgerrors.NewInternalError("unclassified signup error", err)))
		h.writeInternal(c)
	}
}

// writeInternal renders an internal fault with the generic retryable message
func (h *SignupHandler) writeInternal(c *gin.Context) {
	h.metrics.ObserveSignup(metrics.OutcomeUnavailable)
	c.JSON(http.StatusInternalServerError, SignupResponse{
		Success: false,
		Reason:  ReasonUnavailable,
		Message: MessageUnavailable,
	})
}
