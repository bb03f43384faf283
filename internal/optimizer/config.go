// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package optimizer

import "time"

// Config controls the optimiser's tuning loop, prefetching and breaker.
type Config struct {
	// SlowCallThreshold triggers a tuning attempt when a call exceeds it.
	// Default: 100ms
	SlowCallThreshold time.Duration `koanf:"slow_call_threshold"`

	// TuneInterval is the minimum spacing between tuning attempts.
	// Default: 60s
	TuneInterval time.Duration `koanf:"tune_interval"`

	// TuneWindow bounds the age of samples considered when tuning.
	// Default: 5m
	TuneWindow time.Duration `koanf:"tune_window"`

	// TuneSamples is the number of most recent samples averaged.
	// Default: 10
	TuneSamples int `koanf:"tune_samples"`

	// MinTuneSamples is the minimum sample count needed to tune.
	// Default: 3
	MinTuneSamples int `koanf:"min_tune_samples"`

	// DegradedAverage is the average call time above which the strategy
	// is tightened.
	// Default: 50ms
	DegradedAverage time.Duration `koanf:"degraded_average"`

	// PrefetchDelay postpones prefetch work after the triggering request.
	// Zero starts prefetching immediately.
	// Default: 100ms
	PrefetchDelay time.Duration `koanf:"prefetch_delay"`

	// PrefetchLimit caps both the prefetched questions and their result count.
	// Default: 3
	PrefetchLimit int `koanf:"prefetch_limit"`

	// HistoryLimit bounds the retained performance samples.
	// Default: 500
	HistoryLimit int `koanf:"history_limit"`

	// BreakerFailures is the consecutive failure count that opens the
	// engine circuit breaker.
	// Default: 5
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open.
	// Default: 30s
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// DefaultConfig returns the optimiser defaults.
func DefaultConfig() Config {
	return Config{
		SlowCallThreshold: 100 * time.Millisecond,
		TuneInterval:      60 * time.Second,
		TuneWindow:        5 * time.Minute,
		TuneSamples:       10,
		MinTuneSamples:    3,
		DegradedAverage:   50 * time.Millisecond,
		PrefetchDelay:     100 * time.Millisecond,
		PrefetchLimit:     3,
		HistoryLimit:      500,
		BreakerFailures:   5,
		BreakerTimeout:    30 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig. PrefetchDelay keeps
// an explicit zero.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SlowCallThreshold <= 0 {
		c.SlowCallThreshold = d.SlowCallThreshold
	}
	if c.TuneInterval <= 0 {
		c.TuneInterval = d.TuneInterval
	}
	if c.TuneWindow <= 0 {
		c.TuneWindow = d.TuneWindow
	}
	if c.TuneSamples <= 0 {
		c.TuneSamples = d.TuneSamples
	}
	if c.MinTuneSamples <= 0 {
		c.MinTuneSamples = d.MinTuneSamples
	}
	if c.DegradedAverage <= 0 {
		c.DegradedAverage = d.DegradedAverage
	}
	if c.PrefetchDelay < 0 {
		c.PrefetchDelay = d.PrefetchDelay
	}
	if c.PrefetchLimit <= 0 {
		c.PrefetchLimit = d.PrefetchLimit
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = d.BreakerFailures
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = d.BreakerTimeout
	}
	return c
}
