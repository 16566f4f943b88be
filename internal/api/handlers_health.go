// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cinequiz/internal/models"
)

const healthPingTimeout = 2 * time.Second

// Health handles GET /api/v1/health.
//
// The endpoint always answers 200 while the process serves traffic. An open
// upstream breaker or a failed analytics ping marks the status "degraded"
// since recommendations still work with partial data.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := "healthy"
	if h.breakers.AnyOpen() {
		status = "degraded"
	}

	var analytics *models.ComponentHealth
	if h.analytics != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		err := h.analytics.Ping(ctx)
		cancel()

		analytics = &models.ComponentHealth{Healthy: err == nil}
		if err != nil {
			analytics.Error = err.Error()
			status = "degraded"
		}
	}

	respondSuccess(w, r, http.StatusOK, models.HealthStatus{
		Status:        status,
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Seconds(),
		EventsBackend: h.eventsBackend,
		Analytics:     analytics,
		Upstreams:     h.breakers.Statuses(),
	}, start)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}
