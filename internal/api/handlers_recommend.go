// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/logging"
	"github.com/tomtom215/cinequiz/internal/preference"
	"github.com/tomtom215/cinequiz/internal/recommend"
)

// Preferences handles POST /api/v1/preferences.
// It returns the profile extracted from the answers without ranking anything.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PreferencesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile := preference.Extract(req.Answers)
	respondSuccess(w, r, http.StatusOK, newPreferencesResponse(profile), start)
}

// PreferencesResponse is the extracted profile plus display names for its
// genres, in the same order as Genres.
type PreferencesResponse struct {
	preference.Profile
	GenreNames []string `json:"genreNames"`
}

func newPreferencesResponse(p preference.Profile) PreferencesResponse {
	names := make([]string, 0, len(p.Genres))
	for _, code := range p.Genres {
		if name := preference.GenreName(code); name != "" {
			names = append(names, name)
		}
	}
	return PreferencesResponse{Profile: p, GenreNames: names}
}

// Recommendations handles POST /api/v1/recommendations.
//
// No candidates is not an error: the response carries an empty list with
// status 200. The only failure after validation is a client that went away.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendationsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Already validated by the variant tag.
	strategy, _ := experiment.ParseVariant(req.Strategy)

	ctx := r.Context()
	if req.SessionID != "" {
		ctx = logging.ContextWithSessionID(ctx, req.SessionID)
	}

	resp, err := h.recommender.GetRecommendations(ctx, recommend.Request{
		SessionID: req.SessionID,
		Answers:   req.Answers,
		Strategy:  strategy,
		RequestID: logging.RequestIDFromContext(ctx),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			respondError(w, http.StatusServiceUnavailable, ErrCodeRequestCancelled, "Request cancelled before completion", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeServiceUnavailable, "Failed to generate recommendations", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, resp, start)
}
