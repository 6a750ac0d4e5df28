// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Signup outcomes.
const (
	OutcomeCreated     = "created"
	OutcomeDuplicate   = "duplicate"
	OutcomeValidation  = "validation"
	OutcomeUnavailable = "unavailable"
	OutcomeRateLimited = "rate_limited"
)

// Metrics owns a private registry so tests can create as many as they need.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry        *prometheus.Registry
	signups         *prometheus.CounterVec
	healthChecks    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "early_access_signups_total",
			Help: "Early-access signup submissions by outcome.",
		}, []string{"outcome"}),
		healthChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "early_access_health_checks_total",
			Help: "Health checks by reported status.",
		}, []string{"status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "early_access_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.signups,
		m.healthChecks,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSignup counts one submission outcome.
func (m *Metrics) ObserveSignup(outcome string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(outcome).Inc()
}

// ObserveHealthCheck counts one health check result.
func (m *Metrics) ObserveHealthCheck(status string) {
	if m == nil {
		return
	}
	m.healthChecks.WithLabelValues(status).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
