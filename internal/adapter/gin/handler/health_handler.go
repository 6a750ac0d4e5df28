package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"early-access-api/internal/adapter/metrics"
	"early-access-api/internal/usecase/health"
)

// Prober produces a health report.
type Prober interface {
	Check(ctx context.Context) health.Report
}

// HealthHandler serves the operational health endpoint
type HealthHandler struct {
	probe   Prober
	metrics *metrics.Metrics
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(probe Prober, m *metrics.Metrics) *HealthHandler {
	return &HealthHandler{probe: probe, metrics: m}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.probe.Check(c.Request.Context())
	h.metrics.ObserveHealthCheck(report.Status)

	c.JSON(StatusCode(report.Status), report)
}

// StatusCode maps a health status to its HTTP status code.
func StatusCode(status string) int {
	switch status {
	case health.StatusHealthy:
		return http.StatusOK
	case health.StatusDegraded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
