// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package events carries experiment events between the request path and the
// analytics store.
//
// Three topics are published:
//
//   - experiment.assignment: a session was assigned a ranking variant
//   - recommendation.exposure: a ranked list was returned to a session
//   - recommendation.feedback: a session liked or disliked a recommendation
//
// The Bus is backed by Watermill. The "memory" backend uses the in-process
// gochannel pub/sub. The "nats" backend uses JetStream, either an external
// server or an EmbeddedServer started by the process. A Router consumes the
// topics and hands decoded payloads to a Sink.
//
// Publishing is best-effort from the caller's point of view: failures are
// counted and logged, and never fail a recommendation request.
package events
