// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getGaugeValue extracts the value from a Prometheus gauge
func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func TestRecordRecommendation(t *testing.T) {
	beforeReq := testutil.ToFloat64(RecommendationRequests.WithLabelValues("A"))
	beforeEmpty := testutil.ToFloat64(RecommendationEmpty.WithLabelValues("A"))

	RecordRecommendation("A", 300*time.Millisecond, 12, 10)
	RecordRecommendation("A", 100*time.Millisecond, 0, 0)

	if got := testutil.ToFloat64(RecommendationRequests.WithLabelValues("A")) - beforeReq; got != 2 {
		t.Errorf("expected 2 new requests, got %v", got)
	}
	if got := testutil.ToFloat64(RecommendationEmpty.WithLabelValues("A")) - beforeEmpty; got != 1 {
		t.Errorf("expected 1 new empty result, got %v", got)
	}
}

func TestRecordAggregationQuery(t *testing.T) {
	before := testutil.ToFloat64(AggregationQueries.WithLabelValues("discover", "failure"))

	RecordAggregationQuery("discover", errors.New("timeout"))
	RecordAggregationQuery("discover", nil)

	if got := testutil.ToFloat64(AggregationQueries.WithLabelValues("discover", "failure")) - before; got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

func TestRecordUpstreamRequest_StatusLabel(t *testing.T) {
	beforeErr := testutil.ToFloat64(UpstreamRequests.WithLabelValues("catalog", "error"))
	beforeOK := testutil.ToFloat64(UpstreamRequests.WithLabelValues("catalog", "200"))

	RecordUpstreamRequest("catalog", 0, time.Second)
	RecordUpstreamRequest("catalog", 200, time.Second)

	if got := testutil.ToFloat64(UpstreamRequests.WithLabelValues("catalog", "error")) - beforeErr; got != 1 {
		t.Errorf("expected one transport error, got %v", got)
	}
	if got := testutil.ToFloat64(UpstreamRequests.WithLabelValues("catalog", "200")) - beforeOK; got != 1 {
		t.Errorf("expected one 200, got %v", got)
	}
}

func TestCacheMetrics(t *testing.T) {
	SetCacheSize("buzz_test", 7)
	if got := getGaugeValue(CacheSize.WithLabelValues("buzz_test")); got != 7 {
		t.Errorf("expected cache size 7, got %v", got)
	}

	before := testutil.ToFloat64(CacheEvictions.WithLabelValues("buzz_test"))
	RecordCacheEvictions("buzz_test", 0)
	RecordCacheEvictions("buzz_test", 3)
	if got := testutil.ToFloat64(CacheEvictions.WithLabelValues("buzz_test")) - before; got != 3 {
		t.Errorf("expected 3 evictions, got %v", got)
	}
}

func TestActiveRequests(t *testing.T) {
	before := getGaugeValue(APIActiveRequests)
	TrackActiveRequest(true)
	if got := getGaugeValue(APIActiveRequests); got != before+1 {
		t.Errorf("expected %v active requests, got %v", before+1, got)
	}
	TrackActiveRequest(false)
	if got := getGaugeValue(APIActiveRequests); got != before {
		t.Errorf("expected %v active requests, got %v", before, got)
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordBuzzClassification("High", "discussion")
	RecordBuzzCategory("Trending Positive", "discussion")
	RecordExperimentAssignment("B", "random")
	RecordEventPublished("recommendation.exposure", nil)
	RecordEventConsumed("recommendation.exposure", nil)
	RecordAPIRequest("GET", "/api/v1/buzz", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}
