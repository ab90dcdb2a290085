package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Context keys relay handlers set so the access log can tie a request to the
// broadcast it started.
const (
	BroadcastIDKey = "broadcast_id"
	RecipientsKey  = "recipients"
)

// ZapLogger writes one access log entry per request. Client errors log at
// warn, server errors and handler errors at error, the rest at debug.
func ZapLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		uri := c.Request.URL.RequestURI()

		c.Next()

		status := c.Writer.Status()
		fields := append(accessFields(c, uri, status, time.Since(start)), broadcastFields(c)...)

		msg, level := "request completed", levelFor(status)
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			msg, level = "request failed", zapcore.ErrorLevel
			fields = append(fields, zap.String("errors", errs.String()))
		}
		if ce := logger.Check(level, msg); ce != nil {
			ce.Write(fields...)
		}
	}
}

func accessFields(c *gin.Context, uri string, status int, latency time.Duration) []zap.Field {
	return []zap.Field{
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", uri),
		zap.String("route", c.FullPath()),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()),
		zap.Int("bytes", c.Writer.Size()),
		zap.Duration("latency", latency),
	}
}

func broadcastFields(c *gin.Context) []zap.Field {
	id := c.GetString(BroadcastIDKey)
	if id == "" {
		return nil
	}
	fields := []zap.Field{zap.String("broadcast_id", id)}
	if n, ok := c.Get(RecipientsKey); ok {
		fields = append(fields, zap.Any("recipients", n))
	}
	return fields
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.DebugLevel
	}
}
