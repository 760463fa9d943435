package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/internal/metrics"
)

// Metrics records status and latency per route template.
func Metrics(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rec.RecordHTTPRequest(normalizePath(c), c.Writer.Status(), time.Since(start))
	}
}
