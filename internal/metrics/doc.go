// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package metrics provides Prometheus instrumentation for Cinequiz.

All collectors are registered on the default registry through promauto and
exposed at /metrics:

	curl http://localhost:8080/metrics

Metric families:
  - recommendation_*: requests, latency, candidate counts, empty results (by variant)
  - aggregation_queries_total: catalog sub-query outcomes (by kind)
  - buzz_*: classifications, enhanced categories, proxy latency
  - cache_*: hits, misses, evictions, size (by cache_type)
  - upstream_*: catalog, discussion proxy and critic provider calls
  - circuit_breaker_*: state, requests, transitions (by breaker name)
  - experiment_assignments_total, events_published_total, events_consumed_total
  - api_*: HTTP request counts, latency, in-flight requests

Callers use the Record* helpers rather than touching collectors directly.
*/
package metrics
