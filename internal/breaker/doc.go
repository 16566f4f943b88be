// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package breaker wraps sony/gobreaker for the upstream adapters (catalog,
discussion proxy, critic provider and the NATS publisher).

Every breaker uses the same trip policy: at least 10 requests in a one
minute window with a failure rate of 60% or more opens the circuit for two
minutes, after which up to three probe requests are allowed through.

Rejections are reported as ErrOpen so callers can distinguish "upstream is
known bad" from an ordinary request failure:

	items, err := breaker.Do(b, func() ([]catalog.Item, error) {
		return client.Popular(ctx, catalog.MediaMovie, 1)
	})
	if errors.Is(err, breaker.ErrOpen) {
		// skip without waiting for a timeout
	}

State, request outcome and transition counters are exported through the
circuit_breaker_* Prometheus metrics.
*/
package breaker
