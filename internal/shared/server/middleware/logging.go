package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/shared/metrics"
	"sensai-backend/internal/shared/telemetry"
)

// quietRoutes are polled by infrastructure and logged at debug.
var quietRoutes = map[string]bool{
	"/api/v1/health":  true,
	"/api/v1/metrics": true,
}

// Logging writes one request.complete line per request and counts it. The
// level follows the outcome: 5xx at error, 4xx at warn.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		metrics.IncHTTPRequest(c.Request.Method, status)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"user_id":     UserIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"bytes":       c.Writer.Size(),
			"client_ip":   c.ClientIP(),
		}
		if courseID := c.Param("courseId"); courseID != "" {
			fields["course_id"] = courseID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		case quietRoutes[c.FullPath()]:
			telemetry.Debug("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
