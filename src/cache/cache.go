package cache

import (
	"fmt"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/config"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

// New builds the cache backend named in cfg.Cache.Backend.
func New(cfg *config.Config) (models.SummaryCache, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory, "":
		return NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL), nil
	case config.CacheBackendRedis:
		return NewRedisCache(&cfg.Redis, cfg.Cache.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
