// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T, h prometheus.Observer) uint64 {
	t.Helper()
	m, ok := h.(prometheus.Metric)
	if !ok {
		t.Fatal("observer is not a metric")
	}
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return out.GetHistogram().GetSampleCount()
}

func TestRecordRecommendation(t *testing.T) {
	beforeCount := histogramCount(t, RecommendationDuration.WithLabelValues(PathDirect))
	beforeReason := testutil.ToFloat64(RecommendationReasons.WithLabelValues("trending"))

	RecordRecommendation(PathDirect, 3*time.Millisecond, []string{"trending", "helpful", "trending"})

	if got := histogramCount(t, RecommendationDuration.WithLabelValues(PathDirect)); got != beforeCount+1 {
		t.Errorf("duration sample count = %d, want %d", got, beforeCount+1)
	}
	if got := testutil.ToFloat64(RecommendationReasons.WithLabelValues("trending")); got != beforeReason+2 {
		t.Errorf("trending reasons = %v, want %v", got, beforeReason+2)
	}
}

func TestSetCorpusSize(t *testing.T) {
	SetCorpusSize(42)
	if got := testutil.ToFloat64(CorpusQuestions); got != 42 {
		t.Errorf("CorpusQuestions = %v, want 42", got)
	}
}

func TestRecordCorpusReload(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		label string
	}{
		{"success", nil, "success"},
		{"failure", errors.New("decode corpus"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(CorpusReloads.WithLabelValues(tt.label))
			RecordCorpusReload(tt.err)
			if got := testutil.ToFloat64(CorpusReloads.WithLabelValues(tt.label)); got != before+1 {
				t.Errorf("CorpusReloads{%s} = %v, want %v", tt.label, got, before+1)
			}
		})
	}
}

func TestExperimentMetrics(t *testing.T) {
	beforeExposure := testutil.ToFloat64(ExperimentExposures.WithLabelValues("exp-metrics", "control"))
	beforeClick := testutil.ToFloat64(ExperimentClicks.WithLabelValues("exp-metrics", "control"))
	beforeSticky := testutil.ToFloat64(ExperimentAssignments.WithLabelValues("sticky"))

	RecordExposure("exp-metrics", "control")
	RecordClick("exp-metrics", "control")
	RecordAssignment("sticky")

	if got := testutil.ToFloat64(ExperimentExposures.WithLabelValues("exp-metrics", "control")); got != beforeExposure+1 {
		t.Errorf("exposures = %v, want %v", got, beforeExposure+1)
	}
	if got := testutil.ToFloat64(ExperimentClicks.WithLabelValues("exp-metrics", "control")); got != beforeClick+1 {
		t.Errorf("clicks = %v, want %v", got, beforeClick+1)
	}
	if got := testutil.ToFloat64(ExperimentAssignments.WithLabelValues("sticky")); got != beforeSticky+1 {
		t.Errorf("sticky assignments = %v, want %v", got, beforeSticky+1)
	}
}

func TestOptimizerMetrics(t *testing.T) {
	beforeHits := testutil.ToFloat64(OptimizerCacheHits)
	beforeMisses := testutil.ToFloat64(OptimizerCacheMisses)
	beforeAdjust := testutil.ToFloat64(OptimizerStrategyAdjustments)
	beforePanic := testutil.ToFloat64(OptimizerDegraded.WithLabelValues("panic"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)
	RecordStrategyAdjustment()
	RecordDegraded("panic")

	if got := testutil.ToFloat64(OptimizerCacheHits); got != beforeHits+1 {
		t.Errorf("cache hits = %v, want %v", got, beforeHits+1)
	}
	if got := testutil.ToFloat64(OptimizerCacheMisses); got != beforeMisses+2 {
		t.Errorf("cache misses = %v, want %v", got, beforeMisses+2)
	}
	if got := testutil.ToFloat64(OptimizerStrategyAdjustments); got != beforeAdjust+1 {
		t.Errorf("adjustments = %v, want %v", got, beforeAdjust+1)
	}
	if got := testutil.ToFloat64(OptimizerDegraded.WithLabelValues("panic")); got != beforePanic+1 {
		t.Errorf("degraded{panic} = %v, want %v", got, beforePanic+1)
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	tests := []struct {
		to   string
		want float64
	}{
		{"open", 2},
		{"half-open", 1},
		{"closed", 0},
	}
	from := "closed"
	for _, tt := range tests {
		RecordCircuitBreakerTransition("test-breaker", from, tt.to)
		if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test-breaker")); got != tt.want {
			t.Errorf("state after -> %s = %v, want %v", tt.to, got, tt.want)
		}
		from = tt.to
	}
}

func TestRecordEventPublish(t *testing.T) {
	before := testutil.ToFloat64(EventsPublished.WithLabelValues("faqrec.test", "error"))
	RecordEventPublish("faqrec.test", errors.New("closed"))
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("faqrec.test", "error")); got != before+1 {
		t.Errorf("events{error} = %v, want %v", got, before+1)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	before := testutil.ToFloat64(PrefetchTotal.WithLabelValues("success"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordPrefetch("success")
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(PrefetchTotal.WithLabelValues("success")); got != before+50 {
		t.Errorf("prefetch{success} = %v, want %v", got, before+50)
	}
}

func TestMetricGathering(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint: %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/healthz", "503"))
	beforeCount := histogramCount(t, HTTPRequestDuration.WithLabelValues("/healthz"))

	RecordHTTPRequest("GET", "/healthz", "503", 2*time.Millisecond)

	if got := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/healthz", "503")); got != before+1 {
		t.Errorf("HTTPRequests = %v, want %v", got, before+1)
	}
	if got := histogramCount(t, HTTPRequestDuration.WithLabelValues("/healthz")); got != beforeCount+1 {
		t.Errorf("duration sample count = %d, want %d", got, beforeCount+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(HTTPActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(HTTPActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "go1.25.5")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "go1.25.5")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}
