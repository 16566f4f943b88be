// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/cinequiz/internal/buzz"
	"github.com/tomtom215/cinequiz/internal/catalog"
)

// Buzz handles GET /api/v1/buzz?title=&year=&type=&rating=&critic=&genres=
//
// The classification never fails: an unreachable discussion proxy yields
// level unknown with the error set and a heuristic category.
func (h *Handler) Buzz(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.buzz == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Buzz classification is not configured", nil)
		return
	}

	q := r.URL.Query()
	query := BuzzQuery{
		Title:     strings.TrimSpace(q.Get("title")),
		Year:      getIntParam(r, "year", 0),
		MediaType: strings.ToLower(q.Get("type")),
		Rating:    getFloatParam(r, "rating", 0),
		Critic:    getIntParam(r, "critic", 0),
		Genres:    parseCommaSeparatedInts(q.Get("genres")),
	}
	if apiErr := validateRequest(&query); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	req := buzz.Request{
		Title:     query.Title,
		Year:      query.Year,
		MediaType: catalog.MediaType(query.MediaType),
	}
	hints := buzz.Hints{
		ReleaseYear: query.Year,
		Rating:      query.Rating,
		CriticScore: query.Critic,
		GenreCodes:  query.Genres,
	}

	respondSuccess(w, r, http.StatusOK, h.buzz.Categorize(r.Context(), req, hints), start)
}
