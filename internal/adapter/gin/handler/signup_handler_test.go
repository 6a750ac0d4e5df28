package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"early-access-api/internal/adapter/metrics"
	"early-access-api/internal/usecase/signup"
	pkgerrors "early-access-api/pkg/errors"
)

// MockSignupService mocks Insert and validates with the real rules.
type MockSignupService struct {
	mock.Mock
	rules *signup.Usecase
}

func (m *MockSignupService) Validate(in signup.CreateSignupRequest) (signup.CreateSignupRequest, error) {
	return m.rules.Validate(in)
}

func (m *MockSignupService) Insert(ctx context.Context, in signup.CreateSignupRequest) (*signup.CreateSignupResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signup.CreateSignupResponse), args.Error(1)
}

func setupSignupTest(t *testing.T) (*gin.Engine, *MockSignupService, *metrics.Metrics) {
	gin.SetMode(gin.TestMode)
	svc := &MockSignupService{rules: signup.New(nil, zaptest.NewLogger(t), signup.Options{})}
	m := metrics.New()
	h := NewSignupHandler(svc, zaptest.NewLogger(t), m)

	r := gin.New()
	r.POST("/api/early-access", h.CreateSignup)
	return r, svc, m
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeSignupResponse(t *testing.T, w *httptest.ResponseRecorder) SignupResponse {
	var resp SignupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateSignup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, svc, m := setupSignupTest(t)

		createdAt := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)
		svc.On("Insert", mock.Anything, signup.CreateSignupRequest{
			Email:  "rider@example.com",
			Name:   "Rider",
			Device: "android",
		}).Return(&signup.CreateSignupResponse{Signup: signup.Signup{
			ID:        42,
			Email:     "rider@example.com",
			Name:      "Rider",
			Device:    "android",
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}}, nil)

		w := postJSON(r, "/api/early-access", `{"email":" rider@example.com ","name":"Rider","device":"android"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeSignupResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, MessageCreated, resp.Message)
		require.NotNil(t, resp.Record)
		assert.Equal(t, int64(42), resp.Record.ID)
		assert.Equal(t, "rider@example.com", resp.Record.Email)
		assert.True(t, createdAt.Equal(resp.Record.CreatedAt))
		assert.True(t, createdAt.Equal(resp.Record.UpdatedAt))
		assert.Contains(t, w.Body.String(), `"updatedAt":"2026-04-01T08:30:00Z"`)
		count, err := testutil.GatherAndCount(m.Registry(), "early_access_signups_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		svc.AssertExpectations(t)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		r, svc, _ := setupSignupTest(t)

		w := postJSON(r, "/api/early-access", "not json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeSignupResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, ReasonValidation, resp.Reason)
		svc.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Missing Email", func(t *testing.T) {
		r, svc, _ := setupSignupTest(t)

		w := postJSON(r, "/api/early-access", `{"name":"Rider"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeSignupResponse(t, w)
		assert.Equal(t, ReasonValidation, resp.Reason)
		assert.Equal(t, "email is required", resp.Fields["email"])
		svc.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Implausible Email", func(t *testing.T) {
		r, svc, _ := setupSignupTest(t)

		w := postJSON(r, "/api/early-access", `{"email":"not-an-email"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeSignupResponse(t, w)
		assert.Equal(t, "email must be a valid email", resp.Fields["email"])
		svc.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate", func(t *testing.T) {
		r, svc, _ := setupSignupTest(t)

		svc.On("Insert", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewAlreadyExistsError("signup", "email already registered"))

		w := postJSON(r, "/api/early-access", `{"email":"a@x.com"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeSignupResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, ReasonDuplicate, resp.Reason)
		assert.Equal(t, MessageDuplicate, resp.Message)
	})

	t.Run("Unavailable", func(t *testing.T) {
		r, svc, _ := setupSignupTest(t)

		svc.On("Insert", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewUnavailableError("failed to save signup", errors.New("pq: password authentication failed for user \"app\"")))

		w := postJSON(r, "/api/early-access", `{"email":"a@x.com"}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeSignupResponse(t, w)
		assert.Equal(t, ReasonUnavailable, resp.Reason)
		assert.Equal(t, MessageUnavailable, resp.Message)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("Internal Error", func(t *testing.T) {
		r, svc, _ := setupSignupTest(t)

		svc.On("Insert", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewInternalError("signup cannot be nil", nil))

		w := postJSON(r, "/api/early-access", `{"email":"a@x.com"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeSignupResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, ReasonUnavailable, resp.Reason)
		assert.Equal(t, MessageUnavailable, resp.Message)
		assert.NotContains(t, w.Body.String(), "cannot be nil")
	})

	t.Run("Unexpected Error", func(t *testing.T) {
		r, svc, _ := setupSignupTest(t)

		svc.On("Insert", mock.Anything, mock.Anything).Return(nil, errors.New("nil pointer somewhere"))

		w := postJSON(r, "/api/early-access", `{"email":"a@x.com"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeSignupResponse(t, w)
		assert.Equal(t, ReasonUnavailable, resp.Reason)
		assert.False(t, strings.Contains(w.Body.String(), "nil pointer"))
	})
}
