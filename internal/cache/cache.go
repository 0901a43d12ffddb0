// Package cache remembers recently-seen product IDs and memoizes aggregator
// API responses across runs.
package cache

import (
	"context"
	"strings"
	"time"

	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/logger"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NewFromConfig builds the backend named by CACHE_BACKEND. An unreachable or
// misconfigured Redis degrades to the in-process cache with a warning rather
// than failing the run; caching is an optimization, never a dependency.
func NewFromConfig(cfg config.Config) Cache {
	switch strings.ToLower(strings.TrimSpace(cfg.CacheBackend)) {
	case "none", "disabled", "off":
		return nil
	case "redis":
		rc, err := NewRedisCache(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisKeyPrefix,
		})
		if err != nil {
			logger.Warn("redis cache unavailable, using memory cache",
				"addr", cfg.RedisAddr, "err", err)
			return NewMemoryCache()
		}
		return rc
	default:
		return NewMemoryCache()
	}
}
