// Package middleware provides gin middleware shared by all routes.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-ID"

// ContextRequestID is the gin context key holding the request id.
const ContextRequestID = "requestID"

// RequestID は受信したX-Request-IDを引き継ぎ、なければUUIDを採番します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog はリクエストごとにslogで1行のアクセスログを出力します。
// 5xxはError、4xxはWarn、それ以外はInfoで出力します。
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration", time.Since(start),
			"request_id", c.GetString(ContextRequestID),
			"remote_addr", c.ClientIP(),
		}
		switch {
		case status >= 500:
			slog.Error("HTTP request", attrs...)
		case status >= 400:
			slog.Warn("HTTP request", attrs...)
		default:
			slog.Info("HTTP request", attrs...)
		}
	}
}
