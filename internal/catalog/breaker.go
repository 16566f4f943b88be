// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package catalog

import (
	"context"

	"github.com/tomtom215/cinequiz/internal/breaker"
)

// breakerCatalog routes every call through a circuit breaker.
type breakerCatalog struct {
	inner Catalog
	cb    *breaker.Breaker
}

// WithBreaker wraps c so failures trip cb and open-circuit calls fail fast
// with breaker.ErrOpen.
func WithBreaker(c Catalog, cb *breaker.Breaker) Catalog {
	return &breakerCatalog{inner: c, cb: cb}
}

func (b *breakerCatalog) Discover(ctx context.Context, media MediaType, f DiscoverFilter) ([]Item, error) {
	return breaker.Do(b.cb, func() ([]Item, error) { return b.inner.Discover(ctx, media, f) })
}

func (b *breakerCatalog) Popular(ctx context.Context, media MediaType, page int) ([]Item, error) {
	return breaker.Do(b.cb, func() ([]Item, error) { return b.inner.Popular(ctx, media, page) })
}

func (b *breakerCatalog) TopRated(ctx context.Context, media MediaType, page int) ([]Item, error) {
	return breaker.Do(b.cb, func() ([]Item, error) { return b.inner.TopRated(ctx, media, page) })
}

func (b *breakerCatalog) Trending(ctx context.Context, media MediaType, page int) ([]Item, error) {
	return breaker.Do(b.cb, func() ([]Item, error) { return b.inner.Trending(ctx, media, page) })
}

func (b *breakerCatalog) Upcoming(ctx context.Context, media MediaType, page int) ([]Item, error) {
	return breaker.Do(b.cb, func() ([]Item, error) { return b.inner.Upcoming(ctx, media, page) })
}
