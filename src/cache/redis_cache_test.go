package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/config"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cfg := &config.RedisConfig{
		Address:   mr.Addr(),
		KeyPrefix: "summary:",
	}

	cache, err := NewRedisCache(cfg, ttl)
	require.NoError(t, err)

	return cache, mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Hour)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	key := DeriveKey("Patient has fever", "brief")

	err := cache.Set(ctx, key, "Febrile patient.")
	assert.NoError(t, err)

	summary, ok, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Febrile patient.", summary)

	stored, err := mr.Get("summary:" + key)
	require.NoError(t, err)
	assert.Equal(t, "Febrile patient.", stored, "value is stored raw under the prefixed key")
}

func TestRedisCache_GetNonExistent(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Hour)
	defer mr.Close()
	defer cache.Close()

	summary, ok, err := cache.Get(context.Background(), "nonexistent")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, summary)
}

func TestRedisCache_Expiration(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Second)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "expiry", "Test")

	mr.FastForward(2 * time.Second)

	_, ok, _ := cache.Get(ctx, "expiry")
	assert.False(t, ok, "Key should be expired")
}

func TestRedisCache_NoTTL(t *testing.T) {
	cache, mr := setupTestRedis(t, 0)
	defer mr.Close()
	defer cache.Close()

	cache.Set(context.Background(), "forever", "Test")

	assert.Equal(t, time.Duration(0), mr.TTL("summary:forever"))
}

func TestRedisCache_GetError(t *testing.T) {
	cache, mr := setupTestRedis(t, time.Hour)
	defer cache.Close()

	mr.Close()

	_, ok, err := cache.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisCache(&config.RedisConfig{Address: addr}, time.Hour)
	assert.Error(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Backend: config.CacheBackendMemory, MaxEntries: 10}}
	c, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg = &config.Config{
		Cache: config.CacheConfig{Backend: config.CacheBackendRedis},
		Redis: config.RedisConfig{Address: mr.Addr()},
	}
	c, err = New(cfg)
	require.NoError(t, err)
	defer c.Close()
	assert.IsType(t, &RedisCache{}, c)

	_, err = New(&config.Config{Cache: config.CacheConfig{Backend: "disk"}})
	assert.Error(t, err)
}
