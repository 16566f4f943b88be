// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests by strategy variant",
		},
		[]string{"variant"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"variant"},
	)

	RecommendationCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Number of deduplicated candidates gathered per request",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 200, 400},
		},
		[]string{"variant"},
	)

	RecommendationEmpty = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_empty_total",
			Help: "Requests that produced no recommendations",
		},
		[]string{"variant"},
	)

	// Aggregation Metrics
	AggregationQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_queries_total",
			Help: "Catalog discovery sub-queries by kind and result",
		},
		[]string{"kind", "result"}, // result: "success", "failure"
	)

	// Buzz Metrics
	BuzzClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buzz_classifications_total",
			Help: "Buzz classifications by level and source",
		},
		[]string{"level", "source"}, // source: "cache", "discussion", "failure"
	)

	BuzzCategories = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buzz_categories_total",
			Help: "Enhanced buzz categories assigned, by category and path",
		},
		[]string{"category", "path"}, // path: "discussion", "heuristic"
	)

	BuzzLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "buzz_lookup_duration_seconds",
			Help:    "Duration of discussion-proxy lookups in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries removed from a cache",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	// Upstream Client Metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests to external collaborators by client and status",
		},
		[]string{"client", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "External collaborator request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"client"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Experiment Metrics
	ExperimentAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "experiment_assignments_total",
			Help: "A/B assignments by variant and source",
		},
		[]string{"variant", "source"}, // source: "explicit", "random", "stored"
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Experiment events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Experiment events consumed by topic and result",
		},
		[]string{"topic", "result"},
	)

	// Maintenance Metrics
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_runs_total",
			Help: "Periodic maintenance task runs by task and result",
		},
		[]string{"task", "result"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordRecommendation records one completed recommendation request.
func RecordRecommendation(variant string, duration time.Duration, candidates, results int) {
	RecommendationRequests.WithLabelValues(variant).Inc()
	RecommendationDuration.WithLabelValues(variant).Observe(duration.Seconds())
	RecommendationCandidates.WithLabelValues(variant).Observe(float64(candidates))
	if results == 0 {
		RecommendationEmpty.WithLabelValues(variant).Inc()
	}
}

// RecordAggregationQuery records a single catalog sub-query outcome.
func RecordAggregationQuery(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AggregationQueries.WithLabelValues(kind, result).Inc()
}

// RecordBuzzClassification records a classifier outcome.
func RecordBuzzClassification(level, source string) {
	BuzzClassifications.WithLabelValues(level, source).Inc()
}

// RecordBuzzCategory records an enhanced category assignment.
func RecordBuzzCategory(category, path string) {
	BuzzCategories.WithLabelValues(category, path).Inc()
}

// RecordCacheHit increments the hit counter for cacheType.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments the miss counter for cacheType.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheEvictions adds n evictions for cacheType.
func RecordCacheEvictions(cacheType string, n int) {
	if n > 0 {
		CacheEvictions.WithLabelValues(cacheType).Add(float64(n))
	}
}

// SetCacheSize updates the current entry count for cacheType.
func SetCacheSize(cacheType string, size int) {
	CacheSize.WithLabelValues(cacheType).Set(float64(size))
}

// RecordUpstreamRequest records an external call. statusCode 0 means the
// request never produced an HTTP response.
func RecordUpstreamRequest(client string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	UpstreamRequests.WithLabelValues(client, status).Inc()
	UpstreamDuration.WithLabelValues(client).Observe(duration.Seconds())
}

// RecordExperimentAssignment records an A/B assignment.
func RecordExperimentAssignment(variant, source string) {
	ExperimentAssignments.WithLabelValues(variant, source).Inc()
}

// RecordEventPublished records a publish attempt on topic.
func RecordEventPublished(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}

// RecordEventConsumed records a consume attempt on topic.
func RecordEventConsumed(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsConsumed.WithLabelValues(topic, result).Inc()
}

// RecordMaintenanceRun records one run of a periodic maintenance task.
func RecordMaintenanceRun(task string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	MaintenanceRuns.WithLabelValues(task, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
