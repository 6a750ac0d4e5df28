package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	grpcmiddleware "early-access-api/internal/adapter/grpc/middleware"
	"early-access-api/internal/adapter/metrics"
)

// RateLimiter returns a Gin middleware for rate limiting using the shared token bucket.
// Buckets are per method, route and client IP.
func RateLimiter(limiter *grpcmiddleware.RateLimiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("ratelimit:tb:http:%s:%s:%s", c.Request.Method, route, c.ClientIP())

		if !limiter.Allow(c.Request.Context(), key) {
			m.ObserveSignup(metrics.OutcomeRateLimited)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"reason":  "rate_limited",
				"message": "Too many requests. Please wait a moment and try again.",
			})
			return
		}

		c.Next()
	}
}
