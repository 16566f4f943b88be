// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrRouterStopped is returned when the router exits while its context is
// still live, so suture restarts it.
var ErrRouterStopped = errors.New("event router stopped unexpectedly")

// EventRouter is the lifecycle subset of *events.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterFactory builds a router with its handlers registered. A watermill
// router cannot be run twice, so each restart gets a fresh one.
type RouterFactory func() (EventRouter, error)

// EventRouterService supervises the analytics event consumer.
type EventRouterService struct {
	build  RouterFactory
	logger zerolog.Logger
	name   string
}

// NewEventRouterService wraps build.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventRouterService(build RouterFactory, logger zerolog.Logger) *EventRouterService {
	return &EventRouterService{
		build:  build,
		logger: logger.With().Str("service", "event-router").Logger(),
		name:   "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.build()
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}

	runErr := router.Run(ctx)

	// Run returns after ctx is done, but Close is what drains handlers.
	if closeErr := router.Close(); closeErr != nil {
		s.logger.Warn().Err(closeErr).Msg("event router close failed")
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runErr != nil {
		return fmt.Errorf("event router: %w", runErr)
	}
	return ErrRouterStopped
}

// String implements fmt.Stringer for suture logs.
func (s *EventRouterService) String() string {
	return s.name
}
