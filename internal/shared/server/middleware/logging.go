package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
)

// Context keys handlers set so the request log can tie a line to a resource.
const (
	CVIDKey             = "cvId"
	PaymentReferenceKey = "paymentReference"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"cv_id":       c.GetString(CVIDKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if ref := c.GetString(PaymentReferenceKey); ref != "" {
			fields["payment_reference"] = ref
		}
		telemetry.Info("request.complete", fields)
	}
}
