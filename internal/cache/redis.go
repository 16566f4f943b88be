// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/metrics"
)

// RedisClient is the subset of go-redis commands used by RedisCache.
// Satisfied by *redis.Client, *redis.ClusterClient and redis.UniversalClient.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache stores JSON-encoded values in Redis under "<name>:<key>".
//
// Redis failures never surface to callers: a failed Get is a miss and a
// failed Set is logged and dropped, so the caller simply recomputes.
type RedisCache[V any] struct {
	client RedisClient
	ttl    time.Duration
	prefix string
	name   string
	logger zerolog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewRedis creates a Redis-backed cache.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRedis[V any](client RedisClient, ttl time.Duration, name string, logger zerolog.Logger) *RedisCache[V] {
	prefix := "cinequiz:"
	if name != "" {
		prefix += name + ":"
	}
	return &RedisCache[V]{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		name:   name,
		logger: logger.With().Str("component", "redis_cache").Str("cache", name).Logger(),
	}
}

// Get fetches and decodes a value.
func (c *RedisCache[V]) Get(ctx context.Context, key string) (V, bool) {
	var value V

	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		c.recordMiss()
		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		c.recordMiss()
		return value, false
	}

	c.hits.Add(1)
	metrics.RecordCacheHit(c.name)
	return value, true
}

// Set stores a value with the default TTL.
func (c *RedisCache[V]) Set(ctx context.Context, key string, value V) {
	c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *RedisCache[V]) SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache value not encodable")
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

// Delete removes key.
func (c *RedisCache[V]) Delete(ctx context.Context, key string) {
	n, err := c.client.Del(ctx, c.prefix+key).Result()
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis del failed")
		return
	}
	c.evictions.Add(n)
	metrics.RecordCacheEvictions(c.name, int(n))
}

// GetStats returns local hit/miss counters. TotalKeys is not tracked since
// the keyspace is shared with other instances.
func (c *RedisCache[V]) GetStats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// HitRate returns the hit rate as a percentage.
func (c *RedisCache[V]) HitRate() float64 {
	return hitRate(c.GetStats())
}

func (c *RedisCache[V]) recordMiss() {
	c.misses.Add(1)
	metrics.RecordCacheMiss(c.name)
}
