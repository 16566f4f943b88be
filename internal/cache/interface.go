// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cacher defines the interface shared by all cache implementations.
type Cacher[V any] interface {
	// Get returns the value and true if present and not expired.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores a value with the default TTL.
	Set(ctx context.Context, key string, value V)

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration)

	// Delete removes a value.
	Delete(ctx context.Context, key string)

	// GetStats returns hit/miss/eviction counters.
	GetStats() Stats

	// HitRate returns the hit rate as a percentage.
	HitRate() float64
}

// Cleaner is implemented by caches that need periodic removal of expired
// entries. Cleanup returns the number of entries removed.
type Cleaner interface {
	Cleanup() int
}

// Clock returns the current time.
type Clock func() time.Time

// Stats tracks cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

func hitRate(s Stats) float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// CacheType selects a Cacher implementation.
type CacheType string

const (
	// CacheTypeTTL is the unbounded in-memory TTL cache (default).
	CacheTypeTTL CacheType = "memory"

	// CacheTypeLRU is the capacity-bounded in-memory cache.
	CacheTypeLRU CacheType = "lru"

	// CacheTypeRedis stores entries in Redis, shared across instances.
	CacheTypeRedis CacheType = "redis"
)

// CacheConfig holds configuration for NewCacher.
type CacheConfig struct {
	// Type selects the implementation.
	Type CacheType

	// Name labels metrics and prefixes Redis keys.
	Name string

	// TTL is the default time-to-live.
	TTL time.Duration

	// Capacity bounds the LRU cache. Default: 10000.
	Capacity int

	// RedisURL is a redis:// URL, required for CacheTypeRedis.
	RedisURL string
}

// NewCacher builds a Cacher from cfg. For Redis it also returns the client so
// the caller can close it on shutdown; the client is nil for in-memory types.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCacher[V any](cfg CacheConfig, logger zerolog.Logger) (Cacher[V], *redis.Client, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	switch cfg.Type {
	case CacheTypeLRU:
		return NewLRU[V](cfg.Capacity, cfg.TTL, WithName(cfg.Name)), nil, nil
	case CacheTypeRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		return NewRedis[V](client, cfg.TTL, cfg.Name, logger), client, nil
	case CacheTypeTTL, "":
		return New[V](cfg.TTL, WithName(cfg.Name)), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// Option configures an in-memory cache.
type Option func(*options)

type options struct {
	name  string
	clock Clock
}

// WithName sets the cache_type metrics label.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithClock overrides time.Now for expiry decisions.
func WithClock(clock Clock) Option {
	return func(o *options) { o.clock = clock }
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	return o
}

// Verify interface implementations at compile time
var (
	_ Cacher[int] = (*Cache[int])(nil)
	_ Cacher[int] = (*LRUCache[int])(nil)
	_ Cacher[int] = (*RedisCache[int])(nil)
	_ Cleaner     = (*Cache[int])(nil)
	_ Cleaner     = (*LRUCache[int])(nil)
)
