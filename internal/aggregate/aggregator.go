// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package aggregate

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinequiz/internal/catalog"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/logging"
	"github.com/tomtom215/cinequiz/internal/metrics"
	"github.com/tomtom215/cinequiz/internal/preference"
)

const (
	// DefaultConcurrency bounds in-flight catalog queries per Collect.
	DefaultConcurrency = 8

	// DefaultQueryTimeout bounds one catalog query.
	DefaultQueryTimeout = 10 * time.Second

	// DefaultMinCandidates is the floor below which popular lists are added.
	DefaultMinCandidates = 5
)

// Aggregator collects deduplicated candidates. It is safe for concurrent use.
type Aggregator struct {
	catalog       catalog.Catalog
	concurrency   int
	queryTimeout  time.Duration
	minCandidates int
	logger        zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency sets the maximum number of concurrent catalog queries.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithQueryTimeout sets the per-query timeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.queryTimeout = d
		}
	}
}

// WithMinCandidates sets the broadening floor.
func WithMinCandidates(n int) Option {
	return func(a *Aggregator) {
		if n >= 0 {
			a.minCandidates = n
		}
	}
}

// New creates an Aggregator over c.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(c catalog.Catalog, logger zerolog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		catalog:       c,
		concurrency:   DefaultConcurrency,
		queryTimeout:  DefaultQueryTimeout,
		minCandidates: DefaultMinCandidates,
		logger:        logger.With().Str("component", "aggregate").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect returns deduplicated candidates for p under variant v. It never
// fails: failed queries are logged and skipped, so the result may be empty.
func (a *Aggregator) Collect(ctx context.Context, p *preference.Profile, v experiment.Variant) []catalog.Item {
	items := a.runAll(ctx, Plan(p, v))

	if len(items) < a.minCandidates {
		logging.Ctx(ctx).Debug().
			Int("candidates", len(items)).
			Int("floor", a.minCandidates).
			Msg("broadening candidate set with popular lists")
		items = Dedupe(append(items, a.runAll(ctx, floorQueries(p))...))
	}
	return items
}

// runAll executes plan concurrently and returns the deduplicated union in
// plan order.
func (a *Aggregator) runAll(ctx context.Context, plan []Query) []catalog.Item {
	if len(plan) == 0 || a.catalog == nil {
		return []catalog.Item{}
	}

	// Sub-queries are detached from the caller and bounded by their own
	// timeout.
	base := context.WithoutCancel(ctx)
	slots := make([][]catalog.Item, len(plan))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, q := range plan {
		g.Go(func() error {
			slots[i] = a.runOne(base, q)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, s := range slots {
		total += len(s)
	}
	merged := make([]catalog.Item, 0, total)
	for _, s := range slots {
		merged = append(merged, s...)
	}
	return Dedupe(merged)
}

func (a *Aggregator) runOne(ctx context.Context, q Query) []catalog.Item {
	qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()

	items, err := q.run(qctx, a.catalog)
	metrics.RecordAggregationQuery(string(q.Kind), err)
	if err != nil {
		a.logger.Warn().Err(err).Str("query", q.String()).Msg("catalog query failed")
		return nil
	}

	out := make([]catalog.Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].MediaType = q.Media
	}
	return out
}

// Dedupe keeps the first occurrence of each item id, preserving order.
func Dedupe(items []catalog.Item) []catalog.Item {
	seen := make(map[int]struct{}, len(items))
	out := make([]catalog.Item, 0, len(items))
	for i := range items {
		if _, dup := seen[items[i].ID]; dup {
			continue
		}
		seen[items[i].ID] = struct{}{}
		out = append(out, items[i])
	}
	return out
}
