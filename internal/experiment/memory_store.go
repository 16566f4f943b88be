// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package experiment

import (
	"context"
	"time"

	"github.com/tomtom215/cinequiz/internal/cache"
)

// MemoryStore keeps assignments in an in-process TTL cache. Expired
// assignments read as not found and are dropped by Cleanup, which the
// janitor calls on a schedule.
type MemoryStore struct {
	entries *cache.Cache[Assignment]
}

// NewMemoryStore creates an empty MemoryStore whose assignments live for
// ttl, or DefaultSessionTTL when ttl is not positive.
func NewMemoryStore(ttl time.Duration, opts ...cache.Option) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	opts = append([]cache.Option{cache.WithName("assignments")}, opts...)
	return &MemoryStore{entries: cache.New[Assignment](ttl, opts...)}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (Assignment, error) {
	a, ok := s.entries.Get(ctx, sessionID)
	if !ok {
		return Assignment{}, ErrAssignmentNotFound
	}
	return a, nil
}

// PutIfAbsent implements Store.
func (s *MemoryStore) PutIfAbsent(ctx context.Context, a Assignment) (Assignment, error) {
	stored, _ := s.entries.SetIfAbsent(ctx, a.SessionID, a)
	return stored, nil
}

// Cleanup drops expired assignments and returns how many were removed.
func (s *MemoryStore) Cleanup() int {
	return s.entries.Cleanup()
}

// Len returns the number of stored assignments, including expired ones
// not yet cleaned up.
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
