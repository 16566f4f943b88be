// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/cinequiz/internal/metrics"
)

// Entry represents a cached item with expiration
type Entry[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// Cache provides a thread-safe in-memory cache with TTL support.
//
// Expired entries are dropped lazily on Get and in bulk by Cleanup.
// There is no background goroutine; a supervised janitor calls Cleanup.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	ttl     time.Duration
	name    string
	now     Clock

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	lastCleanup atomic.Int64 // unix nanos
}

// New creates an in-memory cache whose entries live for ttl.
//
//	c := cache.New[Result](24*time.Hour, cache.WithName("buzz"))
func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	o := buildOptions(opts)
	c := &Cache[V]{
		entries: make(map[string]Entry[V]),
		ttl:     ttl,
		name:    o.name,
		now:     o.clock,
	}
	c.lastCleanup.Store(c.now().UnixNano())
	return c
}

// Get retrieves a value by key. An expired entry is removed and counted as
// a miss.
func (c *Cache[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return zero, false
	}

	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have replaced the entry.
		if current, ok := c.entries[key]; ok && c.now().After(current.ExpiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
			metrics.RecordCacheEvictions(c.name, 1)
		}
		c.mu.Unlock()
		c.recordMiss()
		return zero, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value with the default TTL. Last writer wins.
func (c *Cache[V]) Set(ctx context.Context, key string, value V) {
	c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache[V]) SetWithTTL(_ context.Context, key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry[V]{
		Data:      value,
		ExpiresAt: c.now().Add(ttl),
	}
	size := len(c.entries)
	c.mu.Unlock()

	metrics.SetCacheSize(c.name, size)
}

// SetIfAbsent stores value unless key holds a live entry. It returns the
// value now stored and whether it was already present.
func (c *Cache[V]) SetIfAbsent(_ context.Context, key string, value V) (V, bool) {
	now := c.now()

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && !now.After(entry.ExpiresAt) {
		c.mu.Unlock()
		c.recordHit()
		return entry.Data, true
	}
	c.entries[key] = Entry[V]{Data: value, ExpiresAt: now.Add(c.ttl)}
	size := len(c.entries)
	c.mu.Unlock()

	c.recordMiss()
	metrics.SetCacheSize(c.name, size)
	return value, false
}

// Delete removes a specific cache entry by key.
func (c *Cache[V]) Delete(_ context.Context, key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.evictions.Add(1)
		metrics.RecordCacheEvictions(c.name, 1)
	}
	metrics.SetCacheSize(c.name, size)
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]Entry[V])
	c.mu.Unlock()

	c.evictions.Add(int64(n))
	metrics.RecordCacheEvictions(c.name, n)
	metrics.SetCacheSize(c.name, 0)
}

// Len returns the number of stored entries, including expired ones not yet
// cleaned up.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes all expired entries and returns how many were removed.
func (c *Cache[V]) Cleanup() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.evictions.Add(int64(removed))
	c.lastCleanup.Store(now.UnixNano())
	metrics.RecordCacheEvictions(c.name, removed)
	metrics.SetCacheSize(c.name, size)
	return removed
}

// GetStats returns a snapshot of current cache statistics.
func (c *Cache[V]) GetStats() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		TotalKeys:   int64(c.Len()),
		LastCleanup: time.Unix(0, c.lastCleanup.Load()),
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache[V]) HitRate() float64 {
	return hitRate(c.GetStats())
}

func (c *Cache[V]) recordHit() {
	c.hits.Add(1)
	metrics.RecordCacheHit(c.name)
}

func (c *Cache[V]) recordMiss() {
	c.misses.Add(1)
	metrics.RecordCacheMiss(c.name)
}
