// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinequiz/internal/api"
	"github.com/tomtom215/cinequiz/internal/config"
	"github.com/tomtom215/cinequiz/internal/logging"
	"github.com/tomtom215/cinequiz/internal/supervisor"
	"github.com/tomtom215/cinequiz/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("events_backend", cfg.Events.Backend).
		Bool("analytics", cfg.Analytics.Enabled).
		Str("experiment_store", cfg.Experiment.Store).
		Msg("Starting Cinequiz")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === UPSTREAMS ===

	upstreams, err := initUpstreams(cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize upstream clients")
	}
	defer upstreams.Close()

	// === EXPERIMENT STATE ===

	bus, err := initEvents(ctx, cfg, upstreams.Breakers, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if bus == nil {
			return
		}
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	store, err := initAnalytics(ctx, cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open analytics store")
	}
	defer func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing analytics store")
		}
	}()

	exp, err := initExperiment(cfg, publisherFor(bus), logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize experiment store")
	}
	defer exp.Close()

	engine, err := initEngine(cfg, upstreams, exp.Selector, publisherFor(bus), logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewJanitorService(logger, maintenanceTasks(cfg, upstreams, exp, store, logger)...))

	if bus != nil && store != nil {
		tree.AddMessagingService(services.NewEventRouterService(routerFactory(cfg, bus, store, logger), logger))
		logging.Info().Msg("Analytics event router added to supervisor tree")
	}

	// === HTTP SERVER ===

	deps := api.Deps{
		Recommender:   engine,
		Buzz:          upstreams.Buzz,
		Sessions:      exp.Selector,
		Publisher:     publisherFor(bus),
		Breakers:      upstreams.Breakers,
		EventsBackend: cfg.Events.Backend,
		Version:       version,
	}
	if store != nil {
		deps.Analytics = store
	}
	handler, err := api.NewHandler(deps)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	chiMw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMw)

	server := &http.Server{
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout, logger))
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("HTTP server added to supervisor tree")

	// === START ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// ServeBackground delivers exactly one result.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
