// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/analytics"
	"github.com/tomtom215/cinequiz/internal/breaker"
	"github.com/tomtom215/cinequiz/internal/config"
	"github.com/tomtom215/cinequiz/internal/events"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/supervisor/services"
)

const (
	cacheCleanupInterval = 10 * time.Minute
	retentionInterval    = time.Hour
)

// Experiment holds the A/B selector and its backing store.
type Experiment struct {
	Selector *experiment.Selector

	badger *experiment.BadgerStore
	memory *experiment.MemoryStore
	logger zerolog.Logger
}

// Close closes the badger store, if any.
func (e *Experiment) Close() {
	if e.badger == nil {
		return
	}
	if err := e.badger.Close(); err != nil {
		e.logger.Error().Err(err).Msg("Error closing assignment store")
	}
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initExperiment(cfg *config.Config, pub events.Publisher, logger zerolog.Logger) (*Experiment, error) {
	exp := &Experiment{logger: logger}

	var store experiment.Store
	switch cfg.Experiment.Store {
	case "badger":
		bs, err := experiment.OpenBadgerStore(cfg.Experiment.StorePath, cfg.Experiment.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("open assignment store: %w", err)
		}
		exp.badger = bs
		store = bs
		logger.Info().Str("path", cfg.Experiment.StorePath).Msg("durable assignment store opened")
	default:
		exp.memory = experiment.NewMemoryStore(cfg.Experiment.SessionTTL)
		store = exp.memory
	}

	exp.Selector = experiment.NewSelector(store, logger, experiment.WithPublisher(pub))
	return exp, nil
}

// initEvents returns a nil bus when the backend is disabled.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initEvents(ctx context.Context, cfg *config.Config, breakers *breaker.Registry, logger zerolog.Logger) (*events.Bus, error) {
	backend := events.Backend(cfg.Events.Backend)
	if backend == events.BackendDisabled {
		logger.Info().Msg("event bus disabled")
		return nil, nil
	}

	busCfg := events.DefaultConfig()
	busCfg.Backend = backend
	busCfg.NATSURL = cfg.Events.NATSURL
	busCfg.Embedded = cfg.Events.EmbeddedNATS
	busCfg.EmbeddedPort = cfg.Events.EmbeddedPort
	busCfg.StoreDir = cfg.Events.EmbeddedStoreDir
	busCfg.StreamName = cfg.Events.StreamName
	busCfg.StreamMaxAge = cfg.Events.StreamMaxAge
	busCfg.DurableName = cfg.Events.DurableName

	var cb *breaker.Breaker
	if backend == events.BackendNATS {
		cb = breaker.New("events", breaker.DefaultSettings(), logger)
		breakers.Register(cb)
	}
	return events.NewBus(ctx, busCfg, cb, logger)
}

// initAnalytics returns a nil store when analytics is off. Without an event
// bus nothing would ever reach the store, so that also turns it off.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initAnalytics(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*analytics.Store, error) {
	if !cfg.Analytics.Enabled {
		return nil, nil
	}
	if events.Backend(cfg.Events.Backend) == events.BackendDisabled {
		logger.Warn().Msg("analytics needs an event bus, EVENTS_BACKEND=disabled turns it off")
		return nil, nil
	}
	return analytics.Open(ctx, analytics.Config{
		Path:      cfg.Analytics.DBPath,
		Threads:   cfg.Analytics.Threads,
		MaxMemory: cfg.Analytics.MaxMemory,
	}, logger)
}

// publisherFor keeps a nil *events.Bus out of the Publisher interface.
func publisherFor(bus *events.Bus) events.Publisher {
	if bus == nil {
		return events.NopPublisher{}
	}
	return bus
}

// routerFactory builds a fresh analytics consumer for each supervisor
// start.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func routerFactory(cfg *config.Config, bus *events.Bus, sink events.Sink, logger zerolog.Logger) services.RouterFactory {
	rc := events.DefaultRouterConfig()
	if cfg.Events.RetryCount >= 0 {
		rc.RetryMaxRetries = cfg.Events.RetryCount
	}
	if cfg.Events.RetryInterval > 0 {
		rc.RetryInitialInterval = cfg.Events.RetryInterval
	}

	return func() (services.EventRouter, error) {
		router, err := events.NewRouter(rc, logger)
		if err != nil {
			return nil, err
		}
		router.RegisterSink(bus.Subscriber(), sink)
		return router, nil
	}
}

// maintenanceTasks lists the janitor's jobs for the enabled components.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func maintenanceTasks(cfg *config.Config, u *Upstreams, exp *Experiment, store *analytics.Store, logger zerolog.Logger) []services.Task {
	names := make([]string, 0, len(u.Cleaners))
	for name := range u.Cleaners {
		names = append(names, name)
	}
	sort.Strings(names)

	tasks := make([]services.Task, 0, len(names)+2)
	for _, name := range names {
		tasks = append(tasks, services.CacheCleanupTask(name, u.Cleaners[name], cacheCleanupInterval))
	}
	switch {
	case exp.badger != nil:
		tasks = append(tasks, services.StoreGCTask("assignments", exp.badger, cfg.Experiment.GCInterval))
	case exp.memory != nil:
		tasks = append(tasks, services.CacheCleanupTask("assignments", exp.memory, cacheCleanupInterval))
	}
	if store != nil && cfg.Analytics.Retention > 0 {
		tasks = append(tasks, services.RetentionTask(store, cfg.Analytics.Retention, retentionInterval, nil, logger))
	}
	return tasks
}
