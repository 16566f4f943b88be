// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package cache provides typed key/value caches with TTL expiration.

Three implementations share the Cacher interface:

  - Cache: unbounded in-memory map with per-entry expiry
  - LRUCache: capacity-bounded in-memory cache, least recently used evicted first
  - RedisCache: values JSON-encoded into Redis, expiry delegated to Redis

In-memory caches take an injectable clock (WithClock) so expiry can be
tested without sleeping, and expose Cleanup for a periodic janitor. Entries
are never refreshed in place: a Set overwrites and resets the expiry, a Get
never extends it.

	c := cache.New[buzz.Result](24*time.Hour, cache.WithName("buzz"))
	c.Set(ctx, "dune|2021|movie", result)
	if r, ok := c.Get(ctx, "dune|2021|movie"); ok {
	    // use r
	}
*/
package cache
