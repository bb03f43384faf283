// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package optimizer

import (
	"time"

	"github.com/tomtom215/faqrec/internal/cache"
	"github.com/tomtom215/faqrec/internal/device"
)

// BatteryImpact is the estimated energy cost of a call.
type BatteryImpact string

const (
	BatteryImpactLow    BatteryImpact = "low"
	BatteryImpactMedium BatteryImpact = "medium"
	BatteryImpactHigh   BatteryImpact = "high"
)

const (
	lowImpactBelow    = 25 * time.Millisecond
	mediumImpactBelow = 75 * time.Millisecond

	// reportWindow is the number of most recent samples summarised.
	reportWindow = 50
)

func estimateBatteryImpact(elapsed time.Duration) BatteryImpact {
	switch {
	case elapsed < lowImpactBelow:
		return BatteryImpactLow
	case elapsed < mediumImpactBelow:
		return BatteryImpactMedium
	default:
		return BatteryImpactHigh
	}
}

// PerformanceMetrics describes one optimised call.
type PerformanceMetrics struct {
	RecommendationTime time.Duration `json:"recommendationTime"`

	// CacheHitRate is the result cache's lifetime hit ratio in [0, 1].
	CacheHitRate float64 `json:"cacheHitRate"`

	// MemoryUsage is the heap delta across the call in megabytes. It can be
	// negative when a collection ran during the call.
	MemoryUsage float64 `json:"memoryUsage"`

	// NetworkRequests is always 0; recommendations are computed in-process.
	NetworkRequests int `json:"networkRequests"`

	BatteryImpact BatteryImpact `json:"batteryImpact"`

	// CPUTime approximates CPU time with wall time.
	CPUTime time.Duration `json:"cpuTime"`

	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId"`
}

// Report summarises recent optimiser performance.
type Report struct {
	AverageResponseTime time.Duration         `json:"averageResponseTime"`
	CacheHitRate        float64               `json:"cacheHitRate"`
	BatteryImpact       map[BatteryImpact]int `json:"batteryImpact"`
	Samples             int                   `json:"samples"`
	CurrentStrategy     device.Strategy       `json:"currentStrategy"`
	DeviceCapabilities  device.Profile        `json:"deviceCapabilities"`
	Cache               cache.Stats           `json:"cache"`
}

// PerformanceReport summarises the last 50 samples with the current
// strategy and profile. Averages are zero without samples.
func (o *Optimizer) PerformanceReport() Report {
	o.mu.Lock()
	recent := o.history
	if len(recent) > reportWindow {
		recent = recent[len(recent)-reportWindow:]
	}

	report := Report{
		BatteryImpact:      make(map[BatteryImpact]int),
		Samples:            len(recent),
		CurrentStrategy:    o.strategy,
		DeviceCapabilities: o.profile,
	}

	var (
		totalTime    time.Duration
		totalHitRate float64
	)
	for _, pm := range recent {
		totalTime += pm.RecommendationTime
		totalHitRate += pm.CacheHitRate
		report.BatteryImpact[pm.BatteryImpact]++
	}
	o.mu.Unlock()

	if n := len(recent); n > 0 {
		report.AverageResponseTime = totalTime / time.Duration(n)
		report.CacheHitRate = totalHitRate / float64(n)
	}
	report.Cache = o.results.Stats()
	return report
}

// History returns a copy of the retained samples, oldest first.
func (o *Optimizer) History() []PerformanceMetrics {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]PerformanceMetrics(nil), o.history...)
}
