// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

// Package validation provides struct validation using go-playground/validator v10.
//
// The validator is a thread-safe singleton built with WithRequiredStructEnabled.
// Field names in errors are taken from json tags so that messages name the
// field the client actually sent.
//
// # Custom Tags
//
//   - variant: "", "A", "B", "standard" or "enhanced" (case-insensitive)
//   - mediatype: "movie" or "tv"
//
// # Usage
//
//	type RecommendationRequest struct {
//	    SessionID string              `json:"sessionId" validate:"omitempty,max=128"`
//	    Answers   []preference.Answer `json:"answers" validate:"max=50,dive"`
//	    Strategy  string              `json:"strategy" validate:"variant"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
//
// # Error Format
//
// A single failure yields a message plus field, tag and value details. Multiple
// failures are joined into one message with a "fields" detail listing each.
package validation
