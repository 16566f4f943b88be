// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package catalog provides read access to an external movie/TV catalog.

The Catalog interface is what the aggregator consumes. Client implements it
against the TMDB v3 REST API and WithBreaker wraps any Catalog in a circuit
breaker so a failing catalog is skipped quickly instead of timing out every
sub-query.

Endpoints used by Client:

	Discover   /discover/{movie|tv}
	Popular    /{movie|tv}/popular
	TopRated   /{movie|tv}/top_rated
	Trending   /trending/{movie|tv}/week
	Upcoming   /movie/upcoming, /tv/on_the_air

Genre codes are TMDB movie genre ids throughout the application. TMDB uses
merged genres for TV ("Action & Adventure", "Sci-Fi & Fantasy"), so Client
translates movie codes when discovering TV and expands merged TV codes back
into their movie equivalents on returned items.
*/
package catalog
