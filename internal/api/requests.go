// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package api

import (
	"github.com/tomtom215/cinequiz/internal/preference"
)

// PreferencesRequest is the body of POST /api/v1/preferences.
type PreferencesRequest struct {
	Answers []preference.Answer `json:"answers" validate:"max=50,dive"`
}

// RecommendationsRequest is the body of POST /api/v1/recommendations.
// Empty answers are allowed and produce the default profile.
type RecommendationsRequest struct {
	SessionID string              `json:"sessionId,omitempty" validate:"omitempty,max=128,printascii"`
	Answers   []preference.Answer `json:"answers" validate:"max=50,dive"`
	Strategy  string              `json:"strategy,omitempty" validate:"omitempty,variant"`
}

// FeedbackRequest is the body of POST /api/v1/experiments/feedback.
type FeedbackRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=128,printascii"`
	ContentID int    `json:"contentId" validate:"required,min=1"`
	Liked     *bool  `json:"liked" validate:"required"`
}

// BuzzQuery holds the query parameters of GET /api/v1/buzz.
type BuzzQuery struct {
	Title     string  `json:"title" validate:"required,max=300"`
	Year      int     `json:"year" validate:"omitempty,min=1870,max=2200"`
	MediaType string  `json:"type" validate:"omitempty,mediatype"`
	Rating    float64 `json:"rating" validate:"min=0,max=10"`
	Critic    int     `json:"critic" validate:"min=0,max=100"`
	Genres    []int   `json:"genres" validate:"max=20,dive,min=1"`
}

// SummaryQuery holds the query parameters of GET /api/v1/experiments/summary.
type SummaryQuery struct {
	Top int `json:"top" validate:"min=0,max=50"`
}
