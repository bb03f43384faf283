// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tomtom215/faqrec/internal/validation"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if err := c.validateCorpus(); err != nil {
		return err
	}

	if err := c.validateOptimizer(); err != nil {
		return err
	}

	if err := c.validateExperiments(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	if err := c.validateMetrics(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateCorpus validates the corpus source
func (c *Config) validateCorpus() error {
	if c.Corpus.Path == "" {
		return fmt.Errorf("CORPUS_PATH is required")
	}

	format := strings.ToLower(c.Corpus.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(c.Corpus.Path)), ".")
	}
	switch format {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("CORPUS_FORMAT must be json or yaml (or the path must end in .json, .yaml or .yml), got %q", format)
	}

	if c.Corpus.ReloadInterval < 0 {
		return fmt.Errorf("CORPUS_RELOAD_INTERVAL must not be negative, got %v", c.Corpus.ReloadInterval)
	}
	return nil
}

// validateOptimizer validates tuning and prefetch settings
func (c *Config) validateOptimizer() error {
	o := c.Optimizer
	if o.SlowCallThreshold <= 0 || o.TuneInterval <= 0 || o.TuneWindow <= 0 || o.DegradedAverage <= 0 {
		return fmt.Errorf("optimizer durations must be positive")
	}
	if o.PrefetchDelay < 0 {
		return fmt.Errorf("OPTIMIZER_PREFETCH_DELAY must not be negative, got %v", o.PrefetchDelay)
	}
	if o.MinTuneSamples < 1 || o.TuneSamples < o.MinTuneSamples {
		return fmt.Errorf("optimizer tune_samples (%d) must be at least min_tune_samples (%d), which must be positive",
			o.TuneSamples, o.MinTuneSamples)
	}
	if o.PrefetchLimit < 1 {
		return fmt.Errorf("OPTIMIZER_PREFETCH_LIMIT must be positive, got %d", o.PrefetchLimit)
	}
	if o.HistoryLimit < o.TuneSamples {
		return fmt.Errorf("OPTIMIZER_HISTORY_LIMIT (%d) must hold at least tune_samples (%d)", o.HistoryLimit, o.TuneSamples)
	}
	if o.BreakerFailures == 0 {
		return fmt.Errorf("OPTIMIZER_BREAKER_FAILURES must be positive")
	}
	return nil
}

// validateExperiments validates the assignment store and startup definitions
func (c *Config) validateExperiments() error {
	switch c.Experiments.Store {
	case StoreMemory:
	case StoreBadger:
		if c.Experiments.BadgerPath == "" {
			return fmt.Errorf("EXPERIMENT_BADGER_PATH is required when EXPERIMENT_STORE=badger")
		}
	default:
		return fmt.Errorf("EXPERIMENT_STORE must be one of: memory, badger")
	}

	seen := make(map[string]bool, len(c.Experiments.Definitions))
	for i := range c.Experiments.Definitions {
		exp := c.Experiments.Definitions[i]
		if seen[exp.ID] {
			return fmt.Errorf("experiments.definitions: duplicate experiment id %q", exp.ID)
		}
		seen[exp.ID] = true

		exp.ApplyDefaults()
		if verr := validation.ValidateStruct(&exp); verr != nil {
			return fmt.Errorf("experiments.definitions[%d]: %w", i, verr)
		}
	}
	return nil
}

// validateEvents validates event bus settings
func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.BufferSize < 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must not be negative, got %d", c.Events.BufferSize)
	}
	return nil
}

// validateMetrics validates the metrics endpoint (only if enabled)
func (c *Config) validateMetrics() error {
	if c.Metrics.StrategyRefreshInterval < 0 {
		return fmt.Errorf("STRATEGY_REFRESH_INTERVAL must not be negative, got %v", c.Metrics.StrategyRefreshInterval)
	}
	if !c.Metrics.Enabled {
		return nil
	}
	if c.Metrics.Listen == "" {
		return fmt.Errorf("METRICS_LISTEN is required when METRICS_ENABLED=true")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
