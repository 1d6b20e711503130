package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"placar/pkg/redis"
)

// CacheService caches derived standings payloads in Redis. Cached entries
// are keyed by a generation counter; invalidation bumps the counter so every
// earlier entry becomes unreachable at once. A nil CacheService or one
// without a Redis client computes every value directly.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

func (c *CacheService) enabled() bool {
	return c != nil && c.redis != nil
}

// cachedView returns the cached payload for view, computing and storing it
// on a miss. Cache failures are logged and never fail the request.
func cachedView[T any](ctx context.Context, c *CacheService, view string, compute func(ctx context.Context) (T, error)) (T, error) {
	if !c.enabled() {
		return compute(ctx)
	}

	kb := c.redis.KeyBuilder
	generation, err := c.redis.GetInt64(ctx, kb.KeyStandingsGeneration())
	if err != nil {
		c.logger.Warn("Standings generation unavailable, bypassing cache", zap.Error(err))
		return compute(ctx)
	}
	key := kb.KeyStandingsView(generation, view)

	cached, err := c.redis.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if unmarshalErr := json.Unmarshal([]byte(cached), &value); unmarshalErr == nil {
			c.logger.Debug("Standings cache hit", zap.String("view", view))
			return value, nil
		} else {
			c.logger.Warn("Standings cache corrupted, recomputing",
				zap.String("view", view),
				zap.Error(unmarshalErr))
		}
	case errors.Is(err, redis.ErrCacheMiss):
		c.logger.Debug("Standings cache miss", zap.String("view", view))
	default:
		c.logger.Warn("Standings cache error, recomputing",
			zap.String("view", view),
			zap.Error(err))
	}

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("Failed to marshal standings for caching", zap.String("view", view), zap.Error(err))
		return value, nil
	}
	if err := c.redis.Set(ctx, key, string(data), redis.TTLStandings); err != nil {
		c.logger.Error("Failed to cache standings", zap.String("view", view), zap.Error(err))
	}
	return value, nil
}

// InvalidateStandings makes every cached standings view stale. It runs
// synchronously so the next read after a mutation sees fresh data.
func (c *CacheService) InvalidateStandings(ctx context.Context) {
	if !c.enabled() {
		return
	}

	generation, err := c.redis.Incr(ctx, c.redis.KeyBuilder.KeyStandingsGeneration())
	if err != nil {
		c.logger.Error("Failed to invalidate standings cache", zap.Error(err))
		return
	}
	c.logger.Debug("Standings cache invalidated", zap.Int64("generation", generation))
}

// Health performs a health check on the cache system
func (c *CacheService) Health(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	start := time.Now()
	err := c.redis.Health(ctx)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Cache health check failed",
			zap.Duration("duration", duration),
			zap.Error(err))
		return err
	}

	c.logger.Debug("Cache health check passed", zap.Duration("duration", duration))
	return nil
}

// Enabled reports whether a Redis client backs the cache
func (c *CacheService) Enabled() bool {
	return c.enabled()
}
