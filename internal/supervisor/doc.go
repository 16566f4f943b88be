// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package supervisor runs the long-lived Cinequiz services under a suture v4
tree.

# Overview

	RootSupervisor ("cinequiz")
	├── DataSupervisor ("data-layer")
	│   └── JanitorService (cache cleanup, badger GC, analytics retention)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService (if EVENTS_BACKEND != disabled and analytics is on)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures on its own, so a router that keeps losing its
NATS subscription backs off without the HTTP server ever restarting.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewJanitorService(logger, tasks...))
	tree.AddMessagingService(services.NewEventRouterService(buildRouter, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Failure Handling

suture keeps a decaying failure counter per supervisor. Past
FailureThreshold, restarts wait FailureBackoff. Defaults match suture's own:
5 failures, 30s decay, 15s backoff, 10s shutdown timeout.

Services follow the suture contract: return an error to be restarted,
return ctx.Err() once ctx is canceled.

# What Is NOT Supervised

The DuckDB analytics store, the Badger assignment store and the embedded
NATS server are opened and closed by main around the tree. They are
libraries with no run loop of their own; their periodic work is scheduled
by the janitor.

# Debugging Shutdown

	report, _ := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logger.Warn("service did not stop", "service", svc.Name)
	}
*/
package supervisor
