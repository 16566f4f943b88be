// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/cinequiz/internal/metrics"
)

type lruEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *lruEntry[V]
	next      *lruEntry[V]
}

// LRUCache is a capacity-bounded TTL cache. When full, the least recently
// used entry is evicted.
//
// Implementation: hash map for O(1) lookup plus a doubly-linked list with
// sentinel head/tail nodes for O(1) reordering. Most recent is at head.
type LRUCache[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	name     string
	now      Clock

	items map[string]*lruEntry[V]
	head  *lruEntry[V]
	tail  *lruEntry[V]

	hits      int64
	misses    int64
	evictions int64
	lastClean time.Time
}

// NewLRU creates an LRU cache. Non-positive capacity defaults to 10000,
// non-positive ttl to 5 minutes.
func NewLRU[V any](capacity int, ttl time.Duration, opts ...Option) *LRUCache[V] {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	o := buildOptions(opts)

	c := &LRUCache[V]{
		capacity: capacity,
		ttl:      ttl,
		name:     o.name,
		now:      o.clock,
		items:    make(map[string]*lruEntry[V], capacity),
		head:     &lruEntry[V]{},
		tail:     &lruEntry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	c.lastClean = c.now()
	return c
}

// Get returns a live entry and marks it most recently used.
func (c *LRUCache[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	if !exists {
		c.misses++
		metrics.RecordCacheMiss(c.name)
		return zero, false
	}
	if c.now().After(entry.expiresAt) {
		c.removeEntry(entry)
		c.evictions++
		c.misses++
		metrics.RecordCacheEvictions(c.name, 1)
		metrics.RecordCacheMiss(c.name)
		return zero, false
	}

	c.moveToFront(entry)
	c.hits++
	metrics.RecordCacheHit(c.name)
	return entry.value, true
}

// Set stores a value with the default TTL.
func (c *LRUCache[V]) Set(ctx context.Context, key string, value V) {
	c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL, evicting the oldest entries
// when over capacity.
func (c *LRUCache[V]) SetWithTTL(_ context.Context, key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if entry, exists := c.items[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return
	}

	entry := &lruEntry[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry

	evicted := 0
	for len(c.items) > c.capacity {
		c.removeEntry(c.tail.prev)
		evicted++
	}
	c.evictions += int64(evicted)
	metrics.RecordCacheEvictions(c.name, evicted)
	metrics.SetCacheSize(c.name, len(c.items))
}

// Delete removes key if present.
func (c *LRUCache[V]) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		c.removeEntry(entry)
		c.evictions++
		metrics.RecordCacheEvictions(c.name, 1)
		metrics.SetCacheSize(c.name, len(c.items))
	}
}

// Len returns the number of entries.
func (c *LRUCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Cleanup removes expired entries, walking from the least recently used end.
func (c *LRUCache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		if now.After(entry.expiresAt) {
			c.removeEntry(entry)
			removed++
		}
		entry = prev
	}
	c.evictions += int64(removed)
	c.lastClean = now
	metrics.RecordCacheEvictions(c.name, removed)
	metrics.SetCacheSize(c.name, len(c.items))
	return removed
}

// GetStats returns a snapshot of counters.
func (c *LRUCache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		TotalKeys:   int64(len(c.items)),
		LastCleanup: c.lastClean,
	}
}

// HitRate returns the hit rate as a percentage.
func (c *LRUCache[V]) HitRate() float64 {
	return hitRate(c.GetStats())
}

func (c *LRUCache[V]) addToFront(entry *lruEntry[V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *LRUCache[V]) removeEntry(entry *lruEntry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

func (c *LRUCache[V]) moveToFront(entry *lruEntry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}
