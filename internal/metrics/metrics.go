// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation paths used as the "path" label.
const (
	PathDirect    = "direct"
	PathOptimized = "optimized"
	PathPrefetch  = "prefetch"
)

var (
	// Recommendation Metrics
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faqrec_recommendation_duration_seconds",
			Help:    "Duration of recommendation generation in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"path"}, // "direct", "optimized", "prefetch"
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "faqrec_recommendations_returned",
			Help:    "Number of recommendations returned per call",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 8, 10, 20},
		},
	)

	RecommendationReasons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_recommendation_reasons_total",
			Help: "Total number of recommendations returned by reason",
		},
		[]string{"reason"},
	)

	// Corpus Metrics
	CorpusQuestions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "faqrec_corpus_questions",
			Help: "Number of questions in the active corpus",
		},
	)

	CorpusReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_corpus_reloads_total",
			Help: "Total number of corpus reload attempts",
		},
		[]string{"result"}, // "success", "error"
	)

	// Experiment Metrics
	ExperimentExposures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_experiment_exposures_total",
			Help: "Total number of experiment exposures",
		},
		[]string{"experiment", "variant"},
	)

	ExperimentClicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_experiment_clicks_total",
			Help: "Total number of recommendation clicks attributed to a variant",
		},
		[]string{"experiment", "variant"},
	)

	ExperimentAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_experiment_assignments_total",
			Help: "Total number of variant assignment lookups by outcome",
		},
		[]string{"result"}, // "new", "sticky", "none"
	)

	// Optimizer Metrics
	OptimizerStrategyAdjustments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faqrec_optimizer_strategy_adjustments_total",
			Help: "Total number of automatic strategy tightenings",
		},
	)

	OptimizerDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_optimizer_degraded_total",
			Help: "Total number of degraded optimizer responses",
		},
		[]string{"cause"}, // "error", "panic", "breaker_open"
	)

	OptimizerCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faqrec_optimizer_cache_hits_total",
			Help: "Total number of optimizer result cache hits",
		},
	)

	OptimizerCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faqrec_optimizer_cache_misses_total",
			Help: "Total number of optimizer result cache misses",
		},
	)

	PrefetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_prefetch_total",
			Help: "Total number of prefetch attempts by outcome",
		},
		[]string{"result"}, // "success", "error", "skipped"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "faqrec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_events_published_total",
			Help: "Total number of experiment events published",
		},
		[]string{"topic", "result"}, // result: "success", "error"
	)

	// Host HTTP Metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faqrec_http_requests_total",
			Help: "Total number of requests served by the host endpoint",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faqrec_http_request_duration_seconds",
			Help:    "Host endpoint request duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "faqrec_http_active_requests",
			Help: "Number of in-flight host endpoint requests",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "faqrec_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommendation records one recommendation call.
func RecordRecommendation(path string, duration time.Duration, reasons []string) {
	RecommendationDuration.WithLabelValues(path).Observe(duration.Seconds())
	RecommendationsReturned.Observe(float64(len(reasons)))
	for _, reason := range reasons {
		RecommendationReasons.WithLabelValues(reason).Inc()
	}
}

// SetCorpusSize updates the corpus gauge.
func SetCorpusSize(questions int) {
	CorpusQuestions.Set(float64(questions))
}

// RecordCorpusReload records a corpus reload attempt.
func RecordCorpusReload(err error) {
	if err != nil {
		CorpusReloads.WithLabelValues("error").Inc()
		return
	}
	CorpusReloads.WithLabelValues("success").Inc()
}

// RecordExposure records an experiment exposure.
func RecordExposure(experimentID, variantID string) {
	ExperimentExposures.WithLabelValues(experimentID, variantID).Inc()
}

// RecordClick records a click attributed to a variant.
func RecordClick(experimentID, variantID string) {
	ExperimentClicks.WithLabelValues(experimentID, variantID).Inc()
}

// RecordAssignment records a variant assignment outcome ("new", "sticky", "none").
func RecordAssignment(result string) {
	ExperimentAssignments.WithLabelValues(result).Inc()
}

// RecordStrategyAdjustment records an automatic strategy tightening.
func RecordStrategyAdjustment() {
	OptimizerStrategyAdjustments.Inc()
}

// RecordDegraded records a degraded optimizer response.
func RecordDegraded(cause string) {
	OptimizerDegraded.WithLabelValues(cause).Inc()
}

// RecordCacheLookup records an optimizer cache lookup.
func RecordCacheLookup(hit bool) {
	if hit {
		OptimizerCacheHits.Inc()
	} else {
		OptimizerCacheMisses.Inc()
	}
}

// RecordPrefetch records a prefetch outcome ("success", "error", "skipped").
func RecordPrefetch(result string) {
	PrefetchTotal.WithLabelValues(result).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change.
// States are "closed", "half-open" and "open".
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

// RecordEventPublish records an event bus publish.
func RecordEventPublish(topic string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}

// RecordHTTPRequest records one host endpoint request. route is the
// matched route pattern, never the raw path.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		HTTPActiveRequests.Inc()
		return
	}
	HTTPActiveRequests.Dec()
}

// SetAppInfo publishes the build information gauge.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
