package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// RateLimitConfig configures RateLimit
type RateLimitConfig struct {
	Store    cache.RateLimitStore
	Requests int
	Window   time.Duration
	// KeyFunc defaults to the client IP
	KeyFunc func(*gin.Context) string
	Logger  *zap.Logger
}

// RateLimit counts requests per key in fixed windows. The counters live in
// Redis when it is enabled, so the limit holds across instances.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		result, err := cfg.Store.Take(c.Request.Context(), keyFunc(c), cfg.Requests, cfg.Window)
		if err != nil {
			log.Warn("Rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			retry := int(time.Until(result.ResetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			abort(c, dto.ErrorTypeTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
			return
		}
		c.Next()
	}
}
