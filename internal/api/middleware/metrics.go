package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/magic-inventory/server/internal/metrics"
)

// Metrics records request counts and latency per route. The route
// template is used rather than the raw path so ids don't explode the
// label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}
