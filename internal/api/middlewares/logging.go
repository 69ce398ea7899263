package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voting-api/pkg/logger"
)

// RequestIDKey is the gin context key carrying the request id
const RequestIDKey = "request_id"

// RequestLogging middleware assigns a request id, stores a request-scoped
// logger in the context and logs the outcome of every request.
func RequestLogging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		logger.IntoContext(c, log.WithField(RequestIDKey, requestID))

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logData := map[string]interface{}{
			"request_id":  requestID,
			"method":      c.Request.Method,
			"path":        path,
			"query":       raw,
			"status_code": status,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
			"user_id":     c.GetString(UserIDKey),
		}

		switch {
		case status >= 500:
			log.WithFields(logData).Error("HTTP request completed with server error")
		case status >= 400:
			log.WithFields(logData).Warning("HTTP request completed with client error")
		default:
			log.WithFields(logData).Info("HTTP request completed")
		}
	}
}
