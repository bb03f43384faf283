// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/faqrec/internal/optimizer"
	"github.com/tomtom215/faqrec/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/faqrec/config.yaml",
	"/etc/faqrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "FAQREC_CONFIG"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Recommend: recommend.DefaultConfig(),
		Corpus: CorpusConfig{
			Path:           "",
			Format:         "", // inferred from the file extension
			ReloadInterval: 0,
		},
		Optimizer: optimizer.DefaultConfig(),
		Experiments: ExperimentConfig{
			Store:      StoreMemory,
			BadgerPath: "/data/faqrec-assignments",
		},
		Events: EventsConfig{
			Enabled:     true,
			TopicPrefix: "faqrec.",
			BufferSize:  256,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			Listen:                  ":9090",
			StrategyRefreshInterval: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Struct defaults
//  2. Config file (config.yaml, or the path in FAQREC_CONFIG)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k, err := load(findConfigFile())
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// load builds the layered koanf instance. An empty configPath skips the file layer.
func load(configPath string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables
	// CORPUS_PATH -> corpus.path
	// OPTIMIZER_TUNE_INTERVAL -> optimizer.tune_interval
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return k, nil
}

// ConfigFile returns the config file LoadWithKoanf reads, or "" when none exists.
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in the default locations.
// Returns empty string if no config file is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Recommendation defaults
	"recommend_max_recommendations":    "recommend.max_recommendations",
	"recommend_similarity_threshold":   "recommend.similarity_threshold",
	"recommend_behaviour_weight":       "recommend.behaviour_weight",
	"recommend_content_weight":         "recommend.content_weight",
	"recommend_segment_weight":         "recommend.segment_weight",
	"recommend_enable_personalization": "recommend.enable_personalization",
	"recommend_enable_ab_testing":      "recommend.enable_ab_testing",
	"recommend_debug":                  "recommend.debug_mode",

	// Corpus
	"corpus_path":            "corpus.path",
	"corpus_format":          "corpus.format",
	"corpus_reload_interval": "corpus.reload_interval",

	// Optimizer
	"optimizer_slow_call_threshold": "optimizer.slow_call_threshold",
	"optimizer_tune_interval":       "optimizer.tune_interval",
	"optimizer_tune_window":         "optimizer.tune_window",
	"optimizer_tune_samples":        "optimizer.tune_samples",
	"optimizer_min_tune_samples":    "optimizer.min_tune_samples",
	"optimizer_degraded_average":    "optimizer.degraded_average",
	"optimizer_prefetch_delay":      "optimizer.prefetch_delay",
	"optimizer_prefetch_limit":      "optimizer.prefetch_limit",
	"optimizer_history_limit":       "optimizer.history_limit",
	"optimizer_breaker_failures":    "optimizer.breaker_failures",
	"optimizer_breaker_timeout":     "optimizer.breaker_timeout",

	// Experiments
	"experiment_store":       "experiments.store",
	"experiment_badger_path": "experiments.badger_path",

	// Events
	"events_enabled":      "events.enabled",
	"events_topic_prefix": "events.topic_prefix",
	"events_buffer_size":  "events.buffer_size",

	// Metrics
	"metrics_enabled":           "metrics.enabled",
	"metrics_listen":            "metrics.listen",
	"strategy_refresh_interval": "metrics.strategy_refresh_interval",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf paths.
// Variables without a mapping are ignored.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}

// WatchConfigFile watches a config file and invokes callback on every change.
// The callback is responsible for reloading and re-validating.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
