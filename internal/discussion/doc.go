// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package discussion is the client for the discussion-search proxy, a small
// HTTP service that searches Reddit-style forums and optionally returns the
// comment trees of the matching posts.
//
// All calls share one token-bucket limiter (golang.org/x/time/rate) so that
// enriching many candidates in parallel stays within the proxy's limits.
package discussion
