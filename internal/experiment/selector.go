// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package experiment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/events"
	"github.com/tomtom215/cinequiz/internal/metrics"
)

// Selector assigns sessions to variants. It is safe for concurrent use.
type Selector struct {
	store     Store
	publisher events.Publisher
	now       func() time.Time
	logger    zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the source of the 50/50 roll.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithPublisher publishes an assignment event for every new assignment.
func WithPublisher(p events.Publisher) Option {
	return func(s *Selector) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides time.Now for AssignedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSelector creates a Selector over store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSelector(store Store, logger zerolog.Logger, opts ...Option) *Selector {
	s := &Selector{
		store:     store,
		publisher: events.NopPublisher{},
		now:       time.Now,
		logger:    logger.With().Str("component", "experiment").Logger(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // assignment roll, not security sensitive
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assign returns the session's assignment, creating one if needed. An
// existing assignment always wins over requested. An empty requested variant
// means a random roll. An empty sessionID gets a new UUID.
//
// Store failures do not fail the call: the new assignment is returned
// unstored and a warning is logged. The only error is an invalid requested
// variant.
func (s *Selector) Assign(ctx context.Context, sessionID string, requested Variant) (Assignment, error) {
	if requested != "" && !requested.Valid() {
		return Assignment{}, fmt.Errorf("unknown variant %q", requested)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	existing, err := s.store.Get(ctx, sessionID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, ErrAssignmentNotFound):
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("assignment lookup failed")
	}

	a := Assignment{
		SessionID:  sessionID,
		Variant:    requested,
		Source:     SourceExplicit,
		AssignedAt: s.now().UTC(),
	}
	if requested == "" {
		a.Variant = s.roll()
		a.Source = SourceRandom
	}

	stored, err := s.store.PutIfAbsent(ctx, a)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("assignment not persisted")
		stored = a
	}
	if stored != a {
		// Lost a race with a concurrent Assign for the same session.
		return stored, nil
	}

	metrics.RecordExperimentAssignment(string(a.Variant), string(a.Source))
	s.publish(ctx, a)

	s.logger.Debug().
		Str("session_id", a.SessionID).
		Str("variant", string(a.Variant)).
		Str("source", string(a.Source)).
		Msg("session assigned")
	return a, nil
}

// Lookup returns the stored assignment or ErrAssignmentNotFound.
func (s *Selector) Lookup(ctx context.Context, sessionID string) (Assignment, error) {
	if sessionID == "" {
		return Assignment{}, ErrAssignmentNotFound
	}
	a, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrAssignmentNotFound) {
			return Assignment{}, err
		}
		return Assignment{}, fmt.Errorf("lookup assignment: %w", err)
	}
	return a, nil
}

func (s *Selector) roll() Variant {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	if s.rng.Intn(2) == 0 {
		return VariantA
	}
	return VariantB
}

func (s *Selector) publish(ctx context.Context, a Assignment) {
	err := s.publisher.Publish(context.WithoutCancel(ctx), events.TopicAssignment, events.AssignmentEvent{
		SessionID:  a.SessionID,
		Variant:    string(a.Variant),
		Source:     string(a.Source),
		AssignedAt: a.AssignedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", a.SessionID).Msg("assignment event not published")
	}
}
