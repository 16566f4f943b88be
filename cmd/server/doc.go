// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package main is the entry point for the Cinequiz server.

Cinequiz turns a short preference quiz into a ranked list of movies and TV
shows. Candidates come from TMDB, are enriched with discussion buzz and
critic scores, and are ranked by one of two A/B strategies.

# Application Architecture

	RootSupervisor ("cinequiz")
	├── DataSupervisor ("data-layer")
	│   └── Janitor (cache cleanup, badger GC, analytics retention)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event router (experiment events into DuckDB)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi)

Initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Upstreams: TMDB catalog, discussion proxy, OMDb critic scores, each
    behind a circuit breaker; buzz cache on memory, lru or redis
 4. Event bus: watermill over gochannel or NATS JetStream (optionally embedded)
 5. Analytics: DuckDB experiment store
 6. Experiment: A/B selector on memory or Badger
 7. Engine: aggregator and ranking engine
 8. Supervisor tree and HTTP server

# Configuration

Required:
  - TMDB_API_KEY or TMDB_BEARER_TOKEN

Optional upstreams:
  - DISCUSSION_BASE_URL: discussion-search proxy; unset means heuristic buzz
  - OMDB_API_KEY: critic scores; unset means no critic points

Experiment and analytics:
  - EXPERIMENT_STORE=badger with EXPERIMENT_STORE_PATH for durable assignments
  - EVENTS_BACKEND=memory|nats|disabled, NATS_EMBEDDED=true for a built-in server
  - ANALYTICS_ENABLED, DUCKDB_PATH, ANALYTICS_RETENTION

# Example Usage

	export TMDB_API_KEY=your-key
	export DISCUSSION_BASE_URL=http://localhost:8787
	./cinequiz

	curl -s -XPOST localhost:8080/api/v1/recommendations \
	  -d '{"answers":[{"question":"What are you in the mood for?","answer":"Something scary"}],"strategy":"enhanced"}'

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to SHUTDOWN_TIMEOUT, the event router closes its subscriptions, and the
stores are closed after the tree stops.
*/
package main
