// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/logging"
	"github.com/tomtom215/cinequiz/internal/metrics"
)

// RouterConfig holds retry and shutdown settings for a Router.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// Sink receives decoded events.
type Sink interface {
	RecordAssignment(ctx context.Context, e AssignmentEvent) error
	RecordExposure(ctx context.Context, e ExposureEvent) error
	RecordFeedback(ctx context.Context, e FeedbackEvent) error
}

// Router consumes event topics with panic recovery and retry.
type Router struct {
	router  *message.Router
	logger  zerolog.Logger
	running atomic.Bool
}

// NewRouter creates a Router.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(cfg RouterConfig, logger zerolog.Logger) (*Router, error) {
	logger = logger.With().Str("component", "event_router").Logger()
	wmLogger := logging.NewWatermillAdapter(logger)

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          wmLogger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	return &Router{router: wmRouter, logger: logger}, nil
}

// RegisterSink subscribes sink to all three topics.
func (r *Router) RegisterSink(sub message.Subscriber, sink Sink) {
	r.router.AddConsumerHandler("analytics-assignment", TopicAssignment, sub,
		consume(r.logger, TopicAssignment, sink.RecordAssignment))
	r.router.AddConsumerHandler("analytics-exposure", TopicExposure, sub,
		consume(r.logger, TopicExposure, sink.RecordExposure))
	r.router.AddConsumerHandler("analytics-feedback", TopicFeedback, sub,
		consume(r.logger, TopicFeedback, sink.RecordFeedback))
}

// consume decodes a message into T and hands it to record. Undecodable
// messages are logged and acked; record errors are retried.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func consume[T any](logger zerolog.Logger, topic string, record func(context.Context, T) error) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		payload, err := Decode[T](msg)
		if err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("dropping malformed event")
			metrics.RecordEventConsumed(topic, err)
			return nil
		}
		err = record(msg.Context(), payload)
		metrics.RecordEventConsumed(topic, err)
		return err
	}
}

// Run blocks until ctx is cancelled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// IsRunning reports whether Run is active.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Close stops the router, waiting up to CloseTimeout for in-flight messages.
func (r *Router) Close() error {
	return r.router.Close()
}
