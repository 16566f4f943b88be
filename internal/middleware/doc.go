// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: reuses or generates an X-Request-ID and stores it in the
    request context for logging and for the recommendation metadata
  - PrometheusMetrics: request counts, latency and in-flight gauge, labeled
    by the chi route pattern so path parameters do not explode cardinality

Both are plain func(http.Handler) http.Handler and plug into chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
