// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cinequiz/internal/analytics"
	"github.com/tomtom215/cinequiz/internal/breaker"
	"github.com/tomtom215/cinequiz/internal/buzz"
	"github.com/tomtom215/cinequiz/internal/events"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/recommend"
)

// Recommender produces ranked recommendations. *recommend.Engine satisfies it.
type Recommender interface {
	GetRecommendations(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// BuzzCategorizer classifies discussion buzz. *buzz.Classifier satisfies it.
type BuzzCategorizer interface {
	Categorize(ctx context.Context, req buzz.Request, hints buzz.Hints) buzz.Classification
}

// SessionLookup resolves A/B assignments. *experiment.Selector satisfies it.
type SessionLookup interface {
	Lookup(ctx context.Context, sessionID string) (experiment.Assignment, error)
}

// SummaryStore reports per-variant outcomes. *analytics.Store satisfies it.
type SummaryStore interface {
	Summary(ctx context.Context, baseline ...string) ([]analytics.VariantSummary, error)
	TopContent(ctx context.Context, variant string, limit int) ([]analytics.ContentExposure, error)
	Ping(ctx context.Context) error
}

// BreakerStatuses lists upstream circuit breakers. *breaker.Registry satisfies it.
type BreakerStatuses interface {
	Statuses() []breaker.Status
	AnyOpen() bool
}

// Deps are the collaborators of Handler. Recommender and Sessions are
// required. A nil Buzz disables the buzz endpoint, a nil Analytics
// disables the summary endpoint and a nil Publisher drops feedback.
type Deps struct {
	Recommender   Recommender
	Buzz          BuzzCategorizer
	Sessions      SessionLookup
	Publisher     events.Publisher
	Analytics     SummaryStore
	Breakers      BreakerStatuses
	EventsBackend string
	Version       string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: envelope, decoding and query helpers
//   - handlers_recommend.go: preferences and recommendations
//   - handlers_buzz.go: buzz classification
//   - handlers_experiment.go: sessions, feedback and summary
//   - handlers_health.go: health and liveness
type Handler struct {
	recommender   Recommender
	buzz          BuzzCategorizer
	sessions      SessionLookup
	publisher     events.Publisher
	analytics     SummaryStore
	breakers      BreakerStatuses
	eventsBackend string
	version       string
	startTime     time.Time
	now           func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Recommender == nil {
		return nil, ErrRecommenderRequired
	}
	if deps.Sessions == nil {
		return nil, ErrSessionsRequired
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Breakers == nil {
		deps.Breakers = breaker.NewRegistry()
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	if deps.EventsBackend == "" {
		deps.EventsBackend = "disabled"
	}

	return &Handler{
		recommender:   deps.Recommender,
		buzz:          deps.Buzz,
		sessions:      deps.Sessions,
		publisher:     deps.Publisher,
		analytics:     deps.Analytics,
		breakers:      deps.Breakers,
		eventsBackend: deps.EventsBackend,
		version:       deps.Version,
		startTime:     time.Now(),
		now:           time.Now,
	}, nil
}
