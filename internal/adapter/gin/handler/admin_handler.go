package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"early-access-api/internal/usecase/signup"
	"early-access-api/pkg/logger"
)

// SignupLister lists stored signups.
type SignupLister interface {
	ListSignups(ctx context.Context, in signup.ListSignupsRequest) (*signup.ListSignupsResponse, error)
}

// AdminHandler serves the administrative signup listing
type AdminHandler struct {
	svc   SignupLister
	token string
	log   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(svc SignupLister, token string, log *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, token: token, log: log}
}

// RequireToken rejects requests without the configured bearer token
func (h *AdminHandler) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || h.token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			logger.WithContext(c.Request.Context(), h.log).Warn("admin request rejected", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"reason":  ReasonUnauthorized,
				"message": "A valid admin token is required.",
			})
			return
		}
		c.Next()
	}
}

// ListSignups handles GET /api/admin/early-access
func (h *AdminHandler) ListSignups(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}

	resp, err := h.svc.ListSignups(c.Request.Context(), signup.ListSignupsRequest{Page: page, Limit: limit})
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("admin list signups failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"reason":  ReasonUnavailable,
			"message": "Signups could not be loaded right now.",
		})
		return
	}

	records := make([]SignupRecord, len(resp.Signups))
	for i, s := range resp.Signups {
		records[i] = toRecord(s)
	}

	var pagination *Pagination
	if resp.Pagination != nil {
		pagination = &Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		}
	}

	c.JSON(http.StatusOK, ListSignupsResponse{
		Signups:    records,
		Pagination: pagination,
	})
}
