// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

/*
Package metrics provides Prometheus instrumentation for the recommendation engine.

Collectors are registered on the default registry at package init through
promauto. Components call the Record* helpers rather than touching collectors
directly.

# Available Metrics

Recommendation Metrics:
  - faqrec_recommendation_duration_seconds: Generation latency (histogram)
    Labels: path (direct, optimized, prefetch)
  - faqrec_recommendations_returned: Result list length (histogram)
  - faqrec_recommendation_reasons_total: Results by generator (counter)
    Labels: reason

Corpus Metrics:
  - faqrec_corpus_questions: Questions in the active corpus (gauge)
  - faqrec_corpus_reloads_total: Reload attempts (counter)
    Labels: result (success, error)

Experiment Metrics:
  - faqrec_experiment_exposures_total: Exposures (counter)
    Labels: experiment, variant
  - faqrec_experiment_clicks_total: Clicks (counter)
    Labels: experiment, variant
  - faqrec_experiment_assignments_total: Assignment lookups (counter)
    Labels: result (new, sticky, none)

Optimizer Metrics:
  - faqrec_optimizer_strategy_adjustments_total: Automatic tightenings (counter)
  - faqrec_optimizer_degraded_total: Degraded responses (counter)
    Labels: cause (error, panic, breaker_open)
  - faqrec_optimizer_cache_hits_total / faqrec_optimizer_cache_misses_total
  - faqrec_prefetch_total: Prefetch attempts (counter)
    Labels: result (success, error, skipped)

Circuit Breaker Metrics:
  - faqrec_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
    Labels: name
  - faqrec_circuit_breaker_state_transitions_total (counter)
    Labels: name, from_state, to_state

Host HTTP Metrics:
  - faqrec_http_requests_total (counter)
    Labels: method, route, status
  - faqrec_http_request_duration_seconds (histogram)
    Labels: route
  - faqrec_http_active_requests (gauge)

# Cardinality

Experiment and variant IDs are operator-defined and bounded by the number of
configured experiments. Session and user IDs never appear as labels.

# Metrics Endpoint

The host binary exposes the default registry at /metrics when metrics are enabled:

	curl http://localhost:9090/metrics | grep faqrec_
*/
package metrics
