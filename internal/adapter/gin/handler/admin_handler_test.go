package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "early-access-api/internal/domain/signup"
	"early-access-api/internal/usecase/signup"
)

// MockSignupLister is a mock implementation of SignupLister
type MockSignupLister struct {
	mock.Mock
}

func (m *MockSignupLister) ListSignups(ctx context.Context, in signup.ListSignupsRequest) (*signup.ListSignupsResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signup.ListSignupsResponse), args.Error(1)
}

func setupAdminTest(t *testing.T) (*gin.Engine, *MockSignupLister) {
	gin.SetMode(gin.TestMode)
	lister := new(MockSignupLister)
	h := NewAdminHandler(lister, "s3cret", zaptest.NewLogger(t))

	r := gin.New()
	r.GET("/api/admin/early-access", h.RequireToken(), h.ListSignups)
	return r, lister
}

func getWithToken(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestListSignups(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, lister := setupAdminTest(t)

		lister.On("ListSignups", mock.Anything, signup.ListSignupsRequest{Page: 2, Limit: 5}).
			Return(&signup.ListSignupsResponse{
				Signups:    []signup.Signup{{ID: 9, Email: "a@x.com", Location: "Oslo"}},
				Pagination: domain.NewPagination(6, 2, 5),
			}, nil)

		w := getWithToken(r, "/api/admin/early-access?page=2&limit=5", "s3cret")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ListSignupsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Signups, 1)
		assert.Equal(t, "a@x.com", resp.Signups[0].Email)
		assert.Equal(t, "Oslo", resp.Signups[0].Location)
		require.NotNil(t, resp.Pagination)
		assert.Equal(t, int64(2), resp.Pagination.TotalPages)
		lister.AssertExpectations(t)
	})

	t.Run("Invalid Query Falls Back To Defaults", func(t *testing.T) {
		r, lister := setupAdminTest(t)

		lister.On("ListSignups", mock.Anything, signup.ListSignupsRequest{Page: 1, Limit: 20}).
			Return(&signup.ListSignupsResponse{Signups: []signup.Signup{}}, nil)

		w := getWithToken(r, "/api/admin/early-access?page=abc&limit=-3", "s3cret")

		assert.Equal(t, http.StatusOK, w.Code)
		lister.AssertExpectations(t)
	})

	t.Run("Missing Token", func(t *testing.T) {
		r, lister := setupAdminTest(t)

		w := getWithToken(r, "/api/admin/early-access", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		lister.AssertNotCalled(t, "ListSignups", mock.Anything, mock.Anything)
	})

	t.Run("Wrong Token", func(t *testing.T) {
		r, lister := setupAdminTest(t)

		w := getWithToken(r, "/api/admin/early-access", "guess")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		lister.AssertNotCalled(t, "ListSignups", mock.Anything, mock.Anything)
	})

	t.Run("Storage Error", func(t *testing.T) {
		r, lister := setupAdminTest(t)

		lister.On("ListSignups", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		w := getWithToken(r, "/api/admin/early-access", "s3cret")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}
