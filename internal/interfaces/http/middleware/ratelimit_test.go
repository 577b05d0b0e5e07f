package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/marketplace/backend/internal/infrastructure/cache"
)

type failingStore struct{}

func (failingStore) Take(context.Context, string, int, time.Duration) (cache.RateLimitResult, error) {
	return cache.RateLimitResult{}, errors.New("redis: connection refused")
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Store: cache.NewInMemoryRateLimitStore(), Requests: 2, Window: time.Minute}))
	r.GET("/store/products", ok)

	for i := range 2 {
		rec := serve(r, http.MethodGet, "/store/products", "")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, "0", serve(r, http.MethodGet, "/store/products", "").Header().Get("X-RateLimit-Remaining"))

	rec := serve(r, http.MethodGet, "/store/products", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	body := decodeError(t, rec)
	assert.Equal(t, "too_many_requests", body.Type)
	assert.Equal(t, "RATE_LIMITED", body.Code)
}

func TestRateLimit_KeyFunc(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		Store:    cache.NewInMemoryRateLimitStore(),
		Requests: 1,
		Window:   time.Minute,
		KeyFunc:  func(c *gin.Context) string { return c.GetHeader("X-Client") },
	}))
	r.GET("/", ok)

	for _, client := range []string{"a", "b"} {
		req := newRequest(http.MethodGet, "/")
		req.Header.Set("X-Client", client)
		assert.Equal(t, http.StatusOK, do(r, req).Code)
	}
	req := newRequest(http.MethodGet, "/")
	req.Header.Set("X-Client", "a")
	assert.Equal(t, http.StatusTooManyRequests, do(r, req).Code)
}

func TestRateLimit_StoreDown(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Store: failingStore{}, Requests: 1, Window: time.Minute}))
	r.GET("/", ok)

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "").Code)
	}
}
