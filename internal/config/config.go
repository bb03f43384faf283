// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package config

import (
	"time"

	"github.com/tomtom215/faqrec/internal/experiment"
	"github.com/tomtom215/faqrec/internal/optimizer"
	"github.com/tomtom215/faqrec/internal/recommend"
)

// Config holds all host configuration, loaded in layers by LoadWithKoanf.
type Config struct {
	Recommend   recommend.Config `koanf:"recommend"`
	Corpus      CorpusConfig     `koanf:"corpus"`
	Optimizer   optimizer.Config `koanf:"optimizer"`
	Experiments ExperimentConfig `koanf:"experiments"`
	Events      EventsConfig     `koanf:"events"`
	Metrics     MetricsConfig    `koanf:"metrics"`
	Logging     LoggingConfig    `koanf:"logging"`
}

// CorpusConfig locates the FAQ corpus.
//
// Environment Variables:
//   - CORPUS_PATH: JSON or YAML corpus file (required)
//   - CORPUS_FORMAT: json or yaml (default: inferred from the extension)
//   - CORPUS_RELOAD_INTERVAL: reload period, 0 disables reloading (default: 0)
type CorpusConfig struct {
	Path   string `koanf:"path"`
	Format string `koanf:"format"`

	// ReloadInterval re-reads the corpus and swaps the engine index.
	// Default: 0 (load once at startup)
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// Assignment store backends.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// ExperimentConfig selects the sticky assignment store and the experiments
// registered at startup.
//
// Environment Variables:
//   - EXPERIMENT_STORE: memory or badger (default: memory)
//   - EXPERIMENT_BADGER_PATH: badger directory (required for badger)
type ExperimentConfig struct {
	Store      string `koanf:"store"`
	BadgerPath string `koanf:"badger_path"`

	// Definitions are only read from the config file.
	Definitions []experiment.Experiment `koanf:"definitions"`
}

// EventsConfig controls experiment event publishing.
//
// Environment Variables:
//   - EVENTS_ENABLED: publish exposure and click events (default: true)
//   - EVENTS_TOPIC_PREFIX: topic prefix (default: faqrec.)
//   - EVENTS_BUFFER_SIZE: per-subscriber buffer (default: 256)
type EventsConfig struct {
	Enabled     bool   `koanf:"enabled"`
	TopicPrefix string `koanf:"topic_prefix"`
	BufferSize  int64  `koanf:"buffer_size"`
}

// MetricsConfig controls the prometheus endpoint.
//
// Environment Variables:
//   - METRICS_ENABLED: serve /metrics and /healthz (default: false)
//   - METRICS_LISTEN: listen address (default: :9090)
//   - STRATEGY_REFRESH_INTERVAL: device strategy refresh period (default: 5m)
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Listen  string `koanf:"listen"`

	// StrategyRefreshInterval re-evaluates the server device profile.
	StrategyRefreshInterval time.Duration `koanf:"strategy_refresh_interval"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}
