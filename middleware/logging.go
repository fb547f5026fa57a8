package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const loggerKey = contextKey("logger")

// RequestLogger 为每个请求分配 request id，并把带 request id 的 logger 放入上下文
func RequestLogger(baseLogger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		requestLogger := baseLogger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Header("X-Request-ID", requestID)
		setLogger(c, requestLogger)

		c.Next()

		LoggerFrom(c).Info("请求完成",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// setLogger 同时写入 gin 上下文和 request context，service 层通过 ctx 取用
func setLogger(c *gin.Context, l *slog.Logger) {
	c.Set(string(loggerKey), l)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), loggerKey, l))
}

// LoggerFrom 取出请求级 logger，未设置时返回默认 logger
func LoggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(string(loggerKey)); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// LoggerFromContext 从 context.Context 取出请求级 logger
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
