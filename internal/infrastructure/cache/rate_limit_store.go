package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitResult is the outcome of one counted request
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitStore counts requests per key in fixed windows
type RateLimitStore interface {
	Take(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
}

func resultFor(count int64, limit int, resetAt time.Time) RateLimitResult {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}

// RedisRateLimitStore shares counters across instances with INCR and PEXPIRE
type RedisRateLimitStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimitStore creates a store on an existing client
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, keyPrefix: "mkt:ratelimit:"}
}

// Take increments the counter for the current window
func (s *RedisRateLimitStore) Take(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	k := s.keyPrefix + key

	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit counter: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, k, window).Err(); err != nil {
			return RateLimitResult{}, fmt.Errorf("rate limit expiry: %w", err)
		}
	}

	reset := time.Now().Add(window)
	if ttl, err := s.client.PTTL(ctx, k).Result(); err == nil && ttl > 0 {
		reset = time.Now().Add(ttl)
	}
	return resultFor(count, limit, reset), nil
}

type counterWindow struct {
	count   int64
	resetAt time.Time
}

// InMemoryRateLimitStore keeps counters in process memory
type InMemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*counterWindow
	now     func() time.Time
}

// NewInMemoryRateLimitStore creates an empty store
func NewInMemoryRateLimitStore() *InMemoryRateLimitStore {
	return &InMemoryRateLimitStore{
		windows: make(map[string]*counterWindow),
		now:     time.Now,
	}
}

// Take increments the counter for key, starting a new window when the last one ended
func (s *InMemoryRateLimitStore) Take(_ context.Context, key string, limit int, d time.Duration) (RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &counterWindow{resetAt: now.Add(d)}
		s.windows[key] = w
		s.evictExpired(now)
	}
	w.count++
	return resultFor(w.count, limit, w.resetAt), nil
}

func (s *InMemoryRateLimitStore) evictExpired(now time.Time) {
	for k, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, k)
		}
	}
}
