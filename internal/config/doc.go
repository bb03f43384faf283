// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

/*
Package config loads and validates the faqrec host configuration.

# Configuration Sources

LoadWithKoanf layers three sources, later layers overriding earlier ones:
  - Struct defaults (defaultConfig)
  - An optional YAML file: the path in FAQREC_CONFIG, else the first of
    DefaultConfigPaths that exists
  - Environment variables, mapped explicitly to config paths

Unmapped environment variables are ignored.

# Configuration Structure

  - recommend: engine defaults (recommend.Config)
  - corpus: corpus file location, format and reload period
  - optimizer: tuning, prefetch and circuit breaker settings (optimizer.Config)
  - experiments: assignment store and experiments registered at startup
  - events: experiment event publishing
  - metrics: the /metrics and /healthz endpoint
  - logging: zerolog level, format and caller

# Environment Variables

Corpus:
  - CORPUS_PATH: corpus file (required)
  - CORPUS_FORMAT: json or yaml (default: from the extension)
  - CORPUS_RELOAD_INTERVAL: reload period (default: 0, disabled)

Recommendation defaults:
  - RECOMMEND_MAX_RECOMMENDATIONS (default: 5)
  - RECOMMEND_SIMILARITY_THRESHOLD (default: 0.1)
  - RECOMMEND_CONTENT_WEIGHT, RECOMMEND_BEHAVIOUR_WEIGHT, RECOMMEND_SEGMENT_WEIGHT
  - RECOMMEND_ENABLE_PERSONALIZATION (default: true)
  - RECOMMEND_DEBUG: log every produced result (default: false)

Optimizer:
  - OPTIMIZER_SLOW_CALL_THRESHOLD (default: 100ms)
  - OPTIMIZER_TUNE_INTERVAL (default: 60s)
  - OPTIMIZER_PREFETCH_DELAY (default: 100ms)
  - OPTIMIZER_BREAKER_FAILURES (default: 5)

Experiments, events, metrics and logging:
  - EXPERIMENT_STORE: memory or badger (default: memory)
  - EXPERIMENT_BADGER_PATH: badger directory
  - EVENTS_ENABLED (default: true)
  - METRICS_ENABLED (default: false), METRICS_LISTEN (default: :9090)
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Experiment definitions can only be set in the YAML file:

	experiments:
	  definitions:
	    - id: layout
	      name: Layout test
	      significance_level: 0.05
	      primary_metric: conversionRate
	      active: true
	      variants:
	        - {id: control, name: Control, weight: 0.5, active: true}
	        - {id: compact, name: Compact, weight: 0.5, active: true}

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("failed to load configuration")
	}
*/
package config
