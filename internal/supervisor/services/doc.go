// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package services adapts Cinequiz components to suture.Service.
//
//   - HTTPServerService: binds the API listener, serves, drains on shutdown
//   - EventRouterService: rebuilds and runs the analytics event router
//   - JanitorService: ticker-driven maintenance tasks
package services
