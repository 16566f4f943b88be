// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package aggregate collects recommendation candidates from the catalog.
//
// A Plan is the ordered list of catalog queries for a profile and variant.
// The standard variant runs one popularity-sorted discovery per genre and
// media type. The enhanced variant adds trending, popular and top-rated
// lists, deeper genre pages, upcoming titles for new-release fans and decade
// windows for classic fans.
//
// Queries run concurrently with a bounded limit. Each query writes its own
// slot and the union follows plan order, so output is deterministic for a
// given set of catalog responses. A failed query contributes nothing.
package aggregate
