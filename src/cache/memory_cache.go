package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-process summary cache. maxEntries bounds it with LRU
// eviction and ttl expires entries; zero for either disables that limit.
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[string, string](maxEntries, nil, ttl),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	summary, ok := c.lru.Get(key)
	return summary, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, summary string) error {
	c.lru.Add(key, summary)
	return nil
}

// Len reports the number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
