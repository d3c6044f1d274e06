package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/convo-server/internal/logger"
)

// Logging writes one access log line per request.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, status and latency once the request completes.
// 4xx responses log at warn level and 5xx at error level.
func (l *Logging) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		reqLog := l.logger.With("request_id", RequestIDFromContext(c))
		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.ByType(gin.ErrorTypePrivate).String())
		}

		switch {
		case status >= 500:
			reqLog.Error("HTTP request completed", args...)
		case status >= 400:
			reqLog.Warn("HTTP request completed", args...)
		default:
			reqLog.Info("HTTP request completed", args...)
		}
	}
}
