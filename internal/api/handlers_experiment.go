// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinequiz/internal/analytics"
	"github.com/tomtom215/cinequiz/internal/events"
	"github.com/tomtom215/cinequiz/internal/experiment"
	"github.com/tomtom215/cinequiz/internal/logging"
)

// FeedbackAccepted is the data of a 202 feedback response.
type FeedbackAccepted struct {
	SessionID string             `json:"sessionId"`
	ContentID int                `json:"contentId"`
	Variant   experiment.Variant `json:"variant"`
}

// ExperimentSummary is the data of GET /api/v1/experiments/summary.
type ExperimentSummary struct {
	Variants   []analytics.VariantSummary             `json:"variants"`
	TopContent map[string][]analytics.ContentExposure `json:"topContent,omitempty"`
}

// Session handles GET /api/v1/experiments/sessions/{sessionID}.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sessionID := chi.URLParam(r, "sessionID")

	a, err := h.sessions.Lookup(r.Context(), sessionID)
	switch {
	case errors.Is(err, experiment.ErrAssignmentNotFound):
		respondError(w, http.StatusNotFound, ErrCodeSessionNotFound, "No assignment for this session", nil)
		return
	case err != nil:
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Assignment store unavailable", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, a, start)
}

// Feedback handles POST /api/v1/experiments/feedback.
//
// Feedback is attributed to the variant the session was assigned, so a
// session without an assignment is rejected with 404. The event is
// recorded asynchronously by the analytics consumer, hence 202.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req FeedbackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ctx := logging.ContextWithSessionID(r.Context(), req.SessionID)
	a, err := h.sessions.Lookup(ctx, req.SessionID)
	switch {
	case errors.Is(err, experiment.ErrAssignmentNotFound):
		respondError(w, http.StatusNotFound, ErrCodeSessionNotFound, "No assignment for this session", nil)
		return
	case err != nil:
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Assignment store unavailable", err)
		return
	}

	evt := events.FeedbackEvent{
		SessionID:  a.SessionID,
		ContentID:  req.ContentID,
		Variant:    string(a.Variant),
		Liked:      *req.Liked,
		OccurredAt: h.now().UTC(),
	}
	if err := h.publisher.Publish(ctx, events.TopicFeedback, evt); err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeEventsUnavailable, "Feedback could not be recorded", err)
		return
	}

	respondSuccess(w, r, http.StatusAccepted, FeedbackAccepted{
		SessionID: a.SessionID,
		ContentID: req.ContentID,
		Variant:   a.Variant,
	}, start)
}

// Summary handles GET /api/v1/experiments/summary?top=N.
// Both variants are always listed, with zero totals when nothing was recorded.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.analytics == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeAnalyticsDisabled, "Analytics store is disabled", nil)
		return
	}

	query := SummaryQuery{Top: getIntParam(r, "top", 0)}
	if apiErr := validateRequest(&query); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx := r.Context()
	rows, err := h.analytics.Summary(ctx, string(experiment.VariantA), string(experiment.VariantB))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load experiment summary", err)
		return
	}

	out := ExperimentSummary{Variants: rows}
	if query.Top > 0 {
		out.TopContent = make(map[string][]analytics.ContentExposure, len(rows))
		for _, row := range rows {
			top, err := h.analytics.TopContent(ctx, row.Variant, query.Top)
			if err != nil {
				respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load top content", err)
				return
			}
			out.TopContent[row.Variant] = top
		}
	}

	respondSuccess(w, r, http.StatusOK, out, start)
}
