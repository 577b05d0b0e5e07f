package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// Stores bundles the shared key-value backed stores. Client is nil when
// Redis is disabled or unreachable.
type Stores struct {
	Client      *redis.Client
	Idempotency shared.IdempotencyStore
	RateLimit   RateLimitStore
}

// Close releases the idempotency store and the Redis client
func (s *Stores) Close() error {
	if s.Idempotency != nil {
		_ = s.Idempotency.Close()
	}
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// NewStores connects to Redis when enabled and falls back to in-memory stores
// when it is disabled. A failed connection is an error in production and a
// logged fallback elsewhere.
func NewStores(ctx context.Context, cfg config.RedisConfig, production bool, logger *zap.Logger) (*Stores, error) {
	if cfg.Enabled {
		client, err := NewRedisClient(ctx, cfg)
		if err == nil {
			logger.Info("Using Redis backed stores", zap.String("addr", cfg.Addr()))
			return &Stores{
				Client:      client,
				Idempotency: NewRedisIdempotencyStore(client),
				RateLimit:   NewRedisRateLimitStore(client),
			}, nil
		}
		if production {
			return nil, err
		}
		logger.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
	}

	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(0),
		RateLimit:   NewInMemoryRateLimitStore(),
	}, nil
}
