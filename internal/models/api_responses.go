// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package models

import (
	"time"

	"github.com/tomtom215/cinequiz/internal/breaker"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"sessionId": "...", "recommendations": [...]},
//	  "metadata": {"timestamp": "2026-06-01T12:00:00Z", "request_id": "..."}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Validation failed",
//	    "details": {"fields": [{"field": "answers", "message": "answers is required"}]}
//	  },
//	  "metadata": {"timestamp": "2026-06-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint. Status is "healthy" or
// "degraded"; degraded means at least one upstream breaker is open or a
// local store failed its ping. The service keeps answering either way.
type HealthStatus struct {
	Status        string           `json:"status"`
	Version       string           `json:"version"`
	Uptime        float64          `json:"uptime_seconds"`
	EventsBackend string           `json:"events_backend"`
	Analytics     *ComponentHealth `json:"analytics,omitempty"`
	Upstreams     []breaker.Status `json:"upstreams"`
}

// ComponentHealth is the state of one local dependency.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}
