package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"masscal/internal"
)

// RequestLogger logs one line per request at DEBUG, or WARN for client
// errors and ERROR for server errors.
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := logger.WithFields(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case status >= 500:
			log.Error("request failed")
		case status >= 400:
			log.Warn("request rejected")
		default:
			log.Debug("request served")
		}
	}
}
