// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinequiz/internal/buzz"
	"github.com/tomtom215/cinequiz/internal/catalog"
	"github.com/tomtom215/cinequiz/internal/critic"
	"github.com/tomtom215/cinequiz/internal/events"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/logging"
	"github.com/tomtom215/cinequiz/internal/metrics"
	"github.com/tomtom215/cinequiz/internal/preference"
)

// Assigner assigns a session to a variant. *experiment.Selector implements it.
type Assigner interface {
	Assign(ctx context.Context, sessionID string, requested experiment.Variant) (experiment.Assignment, error)
}

// Collector gathers candidates for a profile. *aggregate.Aggregator
// implements it.
type Collector interface {
	Collect(ctx context.Context, p *preference.Profile, v experiment.Variant) []catalog.Item
}

// BuzzCategorizer classifies discussion buzz. *buzz.Classifier implements it.
type BuzzCategorizer interface {
	Categorize(ctx context.Context, req buzz.Request, hints buzz.Hints) buzz.Classification
}

// Engine turns quiz answers into a ranked list.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	selector   Assigner
	aggregator Collector
	buzz       BuzzCategorizer
	critic     critic.Provider
	publisher  events.Publisher
	scorer     *Scorer

	requestCount atomic.Int64
	enrichCount  atomic.Int64
}

// Deps are the collaborators of an Engine. Buzz, Critic and Publisher are
// optional.
type Deps struct {
	Selector   Assigner
	Aggregator Collector
	Buzz       BuzzCategorizer
	Critic     critic.Provider
	Publisher  events.Publisher
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger, opts ...ScorerOption) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Selector == nil {
		return nil, fmt.Errorf("selector is required")
	}
	if deps.Aggregator == nil {
		return nil, fmt.Errorf("aggregator is required")
	}
	if deps.Critic == nil {
		deps.Critic = critic.NoopProvider{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}

	cfg = cfg.Clone()
	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		selector:   deps.Selector,
		aggregator: deps.Aggregator,
		buzz:       deps.Buzz,
		critic:     deps.Critic,
		publisher:  deps.Publisher,
		scorer:     NewScorer(cfg, opts...),
	}, nil
}

// GetRecommendations extracts a profile from the answers, assigns a variant,
// collects and enriches candidates, and returns the ranked list.
//
// Upstream failures degrade the result instead of failing the request. The
// only error returned comes from a cancelled caller context.
func (e *Engine) GetRecommendations(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(ctx)
	}
	if req.RequestID == "" {
		req.RequestID = logging.GenerateRequestID()
	}

	profile := preference.Extract(req.Answers)
	assignment := e.assign(ctx, req)
	logger := e.createRequestLogger(req, assignment)

	items := e.aggregator.Collect(ctx, &profile, assignment.Variant)
	candidates, enriched := e.enrich(ctx, items, &profile, assignment.Variant)
	recs := e.scorer.Score(candidates, &profile, assignment.Variant)

	if err := ctx.Err(); err != nil {
		logger.Debug().Err(err).Msg("caller gone before response")
		return nil, err
	}

	resp := &Response{
		SessionID:       assignment.SessionID,
		Variant:         assignment.Variant,
		Profile:         profile,
		Recommendations: recs,
		TotalCandidates: len(items),
		Metadata:        e.buildResponseMetadata(req, start, enriched),
	}

	e.publishExposure(ctx, resp)
	metrics.RecordRecommendation(string(assignment.Variant), time.Since(start), len(items), len(recs))

	logger.Info().
		Int("candidates", len(items)).
		Int("enriched", enriched).
		Int("results", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("recommendations generated")

	return resp, nil
}

// assign never fails: an invalid strategy falls back to a random roll.
func (e *Engine) assign(ctx context.Context, req Request) experiment.Assignment {
	a, err := e.selector.Assign(ctx, req.SessionID, req.Strategy)
	if err == nil {
		return a
	}
	e.logger.Warn().Err(err).Str("strategy", string(req.Strategy)).Msg("strategy rejected, rolling randomly")
	a, err = e.selector.Assign(ctx, req.SessionID, "")
	if err != nil {
		return experiment.Assignment{SessionID: req.SessionID, Variant: experiment.VariantA, Source: experiment.SourceRandom}
	}
	return a
}

//nolint:gocritic // Request passed by value for immutability
func (e *Engine) createRequestLogger(req Request, a experiment.Assignment) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("session_id", a.SessionID).
		Str("variant", string(a.Variant)).
		Logger()
}

// enrich pre-ranks items and looks up buzz and critic scores for the head of
// that order. Output order matches items. Each goroutine writes only its own
// slot.
func (e *Engine) enrich(ctx context.Context, items []catalog.Item, p *preference.Profile, v experiment.Variant) ([]Candidate, int) {
	candidates := make([]Candidate, len(items))
	for i := range items {
		candidates[i] = unenriched(items[i])
	}
	if len(items) == 0 || e.config.EnrichLimit == 0 {
		return candidates, 0
	}

	order := e.scorer.PreRank(items, p, v)
	if len(order) > e.config.EnrichLimit {
		order = order[:e.config.EnrichLimit]
	}

	// Lookups outlive the caller so completed results still reach the caches.
	detached := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(e.config.EnrichConcurrency)
	for _, idx := range order {
		g.Go(func() error {
			e.enrichOne(detached, &candidates[idx])
			return nil
		})
	}
	_ = g.Wait()

	e.enrichCount.Add(int64(len(order)))
	return candidates, len(order)
}

func (e *Engine) enrichOne(ctx context.Context, c *Candidate) {
	it := &c.Item

	lookupCtx, cancel := context.WithTimeout(ctx, e.config.EnrichTimeout)
	scores, err := e.critic.Lookup(lookupCtx, it.Title, it.Year(), it.MediaType)
	cancel()
	if err != nil {
		e.logger.Debug().Err(err).Int("content_id", it.ID).Msg("critic lookup failed")
	} else {
		c.Critic = scores
	}

	if e.buzz == nil {
		return
	}
	hints := buzz.Hints{
		ReleaseYear: it.Year(),
		Rating:      it.VoteAverage,
		GenreCodes:  it.GenreCodes,
	}
	if c.Critic.RottenTomatoes != nil {
		hints.CriticScore = *c.Critic.RottenTomatoes
	}
	cls := e.buzz.Categorize(ctx, buzz.Request{Title: it.Title, Year: it.Year(), MediaType: it.MediaType}, hints)
	c.Buzz = cls.Result
	c.BuzzCategory = cls.Category
}

func (e *Engine) publishExposure(ctx context.Context, resp *Response) {
	items := make([]events.ExposedItem, len(resp.Recommendations))
	for i := range resp.Recommendations {
		r := &resp.Recommendations[i]
		items[i] = events.ExposedItem{
			ContentID: r.Content.ID,
			MediaType: string(r.Content.MediaType),
			Rank:      r.Rank,
			Score:     r.RelevanceScore,
		}
	}
	evt := events.ExposureEvent{
		SessionID:       resp.SessionID,
		RequestID:       resp.Metadata.RequestID,
		Variant:         string(resp.Variant),
		Items:           items,
		TotalCandidates: resp.TotalCandidates,
		DurationMS:      resp.Metadata.DurationMS,
		OccurredAt:      resp.Metadata.GeneratedAt,
	}
	if err := e.publisher.Publish(context.WithoutCancel(ctx), events.TopicExposure, evt); err != nil {
		e.logger.Warn().Err(err).Str("session_id", resp.SessionID).Msg("exposure event dropped")
	}
}

// buildResponseMetadata constructs response metadata.
//
//nolint:gocritic // Request passed by value for immutability
func (e *Engine) buildResponseMetadata(req Request, start time.Time, enriched int) ResponseMetadata {
	return ResponseMetadata{
		RequestID:   req.RequestID,
		GeneratedAt: time.Now().UTC(),
		DurationMS:  time.Since(start).Milliseconds(),
		Enriched:    enriched,
	}
}

// Stats are engine counters.
type Stats struct {
	Requests int64 `json:"requests"`
	Enriched int64 `json:"enriched"`
}

// Stats returns request and enrichment counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests: e.requestCount.Load(),
		Enriched: e.enrichCount.Load(),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}
