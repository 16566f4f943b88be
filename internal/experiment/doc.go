// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package experiment assigns sessions to ranking variants for A/B testing.
//
// A session keeps its first assignment for its whole lifetime. Assignments
// live in a Store and expire after a TTL: MemoryStore for single-process
// use, BadgerStore for assignments that survive restarts.
package experiment
