// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

/*
Package api provides the HTTP REST API layer for Cinequiz.

Routes (all JSON, wrapped in models.APIResponse):

	POST /api/v1/preferences                      quiz answers -> profile
	POST /api/v1/recommendations                  answers, session, strategy -> ranked list
	GET  /api/v1/buzz                             discussion buzz for one title
	GET  /api/v1/experiments/sessions/{sessionID} A/B assignment, or 404
	POST /api/v1/experiments/feedback             like/dislike attributed to the variant (202)
	GET  /api/v1/experiments/summary              per-variant totals from the analytics store
	GET  /api/v1/health                           status plus upstream breaker states
	GET  /api/v1/health/live                      liveness
	GET  /metrics                                 Prometheus

Middleware Stack:

Request ID, real IP, panic recovery, CORS (go-chi/cors) and access logging
apply globally. API routes add IP rate limiting (go-chi/httprate), security
headers and Prometheus instrumentation. Health routes get a separate,
permissive rate limit so probes never starve user traffic.

Error Handling:

Handlers never leak upstream failures: recommendation and buzz requests
degrade to partial data and still answer 200. Errors are reserved for
invalid input (400 VALIDATION_ERROR or INVALID_JSON), unknown sessions
(404), disabled components (503) and storage failures (500).

Usage Example:

	handler, err := api.NewHandler(api.Deps{
	    Recommender: engine,
	    Buzz:        classifier,
	    Sessions:    selector,
	    Publisher:   bus,
	    Analytics:   store,
	    Breakers:    registry,
	})
	if err != nil {
	    return err
	}
	router := api.NewRouter(handler, api.NewChiMiddlewareFromSecurity(origins, 60, time.Minute, false))
	srv := &http.Server{Addr: ":8080", Handler: router.SetupChi()}
*/
package api
