package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"placar/internal/domain"
	"placar/pkg/redis"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *CacheService) {
	mr := miniredis.RunT(t)

	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewCacheService(client, zap.NewNop())
}

func TestCachedView_HitAfterMiss(t *testing.T) {
	_, cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (domain.Summary, error) {
		calls++
		return domain.Summary{TotalMatches: 2, TotalGoals: 5, TotalPlayers: 3}, nil
	}

	first, err := cachedView(ctx, cache, "summary", compute)
	require.NoError(t, err)
	second, err := cachedView(ctx, cache, "summary", compute)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCachedView_InvalidateForcesRecompute(t *testing.T) {
	mr, cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, err := cachedView(ctx, cache, "counter", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	cache.InvalidateStandings(ctx)

	v, err = cachedView(ctx, cache, "counter", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	gen, err := mr.Get("prod:standings:generation")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
	assert.True(t, mr.Exists("prod:standings:1:counter"))
}

func TestCachedView_ComputeErrorNotCached(t *testing.T) {
	mr, cache := newTestCache(t)
	ctx := context.Background()

	_, err := cachedView(ctx, cache, "broken", func(context.Context) (int, error) {
		return 0, errors.New("store down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("prod:standings:0:broken"))
}

func TestCachedView_CorruptEntryRecomputed(t *testing.T) {
	mr, cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("prod:standings:0:summary", "{not json"))

	got, err := cachedView(ctx, cache, "summary", func(context.Context) (domain.Summary, error) {
		return domain.Summary{TotalPlayers: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalPlayers)
}

func TestCachedView_RedisDownFallsBack(t *testing.T) {
	mr, cache := newTestCache(t)
	mr.Close()

	got, err := cachedView(context.Background(), cache, "summary", func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestCacheService_Disabled(t *testing.T) {
	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	assert.NoError(t, nilCache.Health(context.Background()))
	nilCache.InvalidateStandings(context.Background())

	got, err := cachedView(context.Background(), nilCache, "x", func(context.Context) (string, error) {
		return "direct", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", got)

	withoutRedis := NewCacheService(nil, nil)
	assert.False(t, withoutRedis.Enabled())
}
