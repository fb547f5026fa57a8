package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewIPLimiter 基于内存存储的按 IP 限流器：每个 window 最多 maxAttempts 次
func NewIPLimiter(maxAttempts int, window time.Duration) *limiter.Limiter {
	rate := limiter.Rate{Period: window, Limit: int64(maxAttempts)}
	return limiter.New(memory.NewStore(), rate)
}

// RateLimit 限流中间件，超过限制返回 429
func RateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lc, err := l.Get(c.Request.Context(), ip)
		if err != nil {
			LoggerFrom(c).Error("限流检查失败", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		if lc.Reached {
			LoggerFrom(c).Warn("请求过于频繁", slog.String("ip", ip), slog.Int64("limit", lc.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many attempts, please try again later"})
			return
		}

		c.Next()
	}
}

// LoginRateLimit 登录/注册等认证接口限流
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	return RateLimit(NewIPLimiter(maxAttempts, window))
}
