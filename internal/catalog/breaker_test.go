// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/breaker"
)

// failingCatalog fails every call and counts them.
type failingCatalog struct {
	calls atomic.Int32
}

var errDown = errors.New("catalog down")

func (f *failingCatalog) Discover(context.Context, MediaType, DiscoverFilter) ([]Item, error) {
	f.calls.Add(1)
	return nil, errDown
}
func (f *failingCatalog) Popular(context.Context, MediaType, int) ([]Item, error) {
	f.calls.Add(1)
	return nil, errDown
}
func (f *failingCatalog) TopRated(context.Context, MediaType, int) ([]Item, error) {
	f.calls.Add(1)
	return nil, errDown
}
func (f *failingCatalog) Trending(context.Context, MediaType, int) ([]Item, error) {
	f.calls.Add(1)
	return nil, errDown
}
func (f *failingCatalog) Upcoming(context.Context, MediaType, int) ([]Item, error) {
	f.calls.Add(1)
	return nil, errDown
}

func TestWithBreaker_FailsFastWhenOpen(t *testing.T) {
	t.Parallel()

	inner := &failingCatalog{}
	c := WithBreaker(inner, breaker.New("test-catalog", breaker.DefaultSettings(), zerolog.Nop()))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := c.Popular(ctx, MediaMovie, 1); !errors.Is(err, errDown) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}

	calls := []func() error{
		func() error { _, err := c.Discover(ctx, MediaMovie, DiscoverFilter{}); return err },
		func() error { _, err := c.TopRated(ctx, MediaMovie, 1); return err },
		func() error { _, err := c.Trending(ctx, MediaTV, 1); return err },
		func() error { _, err := c.Upcoming(ctx, MediaTV, 1); return err },
	}
	for i, call := range calls {
		if err := call(); !errors.Is(err, breaker.ErrOpen) {
			t.Errorf("call %d: err = %v, want ErrOpen", i, err)
		}
	}
	if n := inner.calls.Load(); n != 10 {
		t.Errorf("inner calls = %d, want 10", n)
	}
}
