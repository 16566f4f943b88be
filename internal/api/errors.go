// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package api provides HTTP handlers for the Cinequiz application.
//
// errors.go - Common API error definitions
package api

import "errors"

// Error codes returned in APIError.Code.
const (
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeSessionNotFound    = "SESSION_NOT_FOUND"
	ErrCodeAnalyticsDisabled  = "ANALYTICS_DISABLED"
	ErrCodeEventsUnavailable  = "EVENTS_UNAVAILABLE"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeRequestCancelled   = "REQUEST_CANCELLED"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeNotFound           = "NOT_FOUND"
)

// Common API errors
var (
	// ErrRecommenderRequired is returned by NewHandler without an engine.
	ErrRecommenderRequired = errors.New("api: recommender is required")

	// ErrSessionsRequired is returned by NewHandler without a session lookup.
	ErrSessionsRequired = errors.New("api: session lookup is required")
)
