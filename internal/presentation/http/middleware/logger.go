package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in and out
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	loggerKey       = "logger"
)

// LoggerMiddleware injects a request-scoped slog logger into the context
// and logs every completed request
func LoggerMiddleware(baseLogger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		requestLogger := baseLogger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Set(loggerKey, requestLogger)

		start := time.Now()
		c.Next()

		attrs := []any{
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if raw := c.Request.URL.RawQuery; raw != "" {
			attrs = append(attrs, slog.String("query", raw))
		}

		switch {
		case len(c.Errors) > 0:
			for _, e := range c.Errors {
				requestLogger.Error("request error", slog.String("error", e.Err.Error()))
			}
			requestLogger.Warn("request completed with errors", attrs...)
		case c.Writer.Status() >= 500:
			requestLogger.Error("request failed", attrs...)
		default:
			requestLogger.Info("request completed", attrs...)
		}
	}
}

// GetLogger returns the request-scoped logger, or the default logger when
// the middleware did not run
func GetLogger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}

// GetRequestID returns the id assigned to the request
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
