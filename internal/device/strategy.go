// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package device

import "sync"

// Strategy holds the tuning parameters for a capability profile.
type Strategy struct {
	MaxRecommendations   int     `json:"maxRecommendations"`
	SimilarityThreshold  float64 `json:"similarityThreshold"`
	CacheSize            int     `json:"cacheSize"`
	PrefetchEnabled      bool    `json:"prefetchEnabled"`
	BackgroundProcessing bool    `json:"backgroundProcessing"`
	CompressionEnabled   bool    `json:"compressionEnabled"`
	BatchProcessing      bool    `json:"batchProcessing"`
}

// Battery percentage below which the power stage applies.
const lowBatteryPercent = 20

// strategies memoises StrategyFor by profile value.
var strategies sync.Map // Profile -> Strategy

// StrategyFor returns the strategy for a profile. Results are memoised for
// the life of the process; Profile is a plain value so equal profiles share
// an entry.
func StrategyFor(p Profile) Strategy {
	if s, ok := strategies.Load(p); ok {
		return s.(Strategy)
	}
	s, _ := strategies.LoadOrStore(p, buildStrategy(p))
	return s.(Strategy)
}

// buildStrategy applies the device, connection, memory and power stages in
// order. Stages after the device stage only tighten.
func buildStrategy(p Profile) Strategy {
	s := Strategy{
		MaxRecommendations:   5,
		SimilarityThreshold:  0.10,
		CacheSize:            100,
		PrefetchEnabled:      true,
		BackgroundProcessing: true,
	}

	switch p.DeviceType {
	case DeviceMobile:
		s.MaxRecommendations = 3
		s.SimilarityThreshold = 0.15
		s.CacheSize = 50
		s.CompressionEnabled = true
	case DeviceTablet:
		s.MaxRecommendations = 4
		s.SimilarityThreshold = 0.12
		s.CacheSize = 75
	case DeviceDesktop:
		s.MaxRecommendations = 6
		s.SimilarityThreshold = 0.08
		s.CacheSize = 200
		s.BatchProcessing = true
	}

	switch p.ConnectionType {
	case ConnectionSlow2G, Connection2G:
		s.MaxRecommendations = min(s.MaxRecommendations, 2)
		s.PrefetchEnabled = false
		s.CompressionEnabled = true
	case Connection3G:
		s.MaxRecommendations = min(s.MaxRecommendations, 3)
		s.CompressionEnabled = true
	}

	switch p.MemoryConstraint {
	case MemoryLow:
		s.CacheSize = min(s.CacheSize, 25)
		s.BackgroundProcessing = false
		s.MaxRecommendations = min(s.MaxRecommendations, 3)
	case MemoryNormal:
		s.CacheSize = min(s.CacheSize, 100)
	}

	if p.LowPowerMode || (p.BatteryLevel >= 0 && p.BatteryLevel < lowBatteryPercent) {
		s.BackgroundProcessing = false
		s.PrefetchEnabled = false
		s.BatchProcessing = false
		s.MaxRecommendations = min(s.MaxRecommendations, 2)
	}

	return s
}
