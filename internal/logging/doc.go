// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package logging provides structured logging for Cinequiz built on zerolog.

A single global logger is configured once at startup with Init and then
used through the package-level helpers:

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().Str("variant", "B").Msg("recommendations served")

Components that are constructed explicitly (engine, classifier, clients)
receive a zerolog.Logger and tag it with a component field:

	logger := logging.WithComponent("buzz")

Request-scoped logging carries the request and correlation IDs placed in
the context by the HTTP middleware:

	logging.Ctx(ctx).Warn().Err(err).Msg("catalog query failed")

Two bridges let third-party libraries write through zerolog:

  - SlogHandler / NewSlogLogger for log/slog consumers (sutureslog)
  - WatermillAdapter for watermill.LoggerAdapter consumers (event bus)
*/
package logging
