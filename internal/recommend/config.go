// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package recommend

import (
	"fmt"
	"math"
)

// Generator share of the requested result count. Limits are rounded up.
const (
	contentShare   = 0.5
	behaviourShare = 0.3
	segmentShare   = 0.2
)

// Generator-internal constants.
const (
	// contentMinSimilarity is the cosine floor for content matches,
	// independent of Config.SimilarityThreshold.
	contentMinSimilarity = 0.1

	behaviourStep       = 0.3
	behaviourConfidence = 0.7

	segmentExactScore   = 0.8
	segmentWildScore    = 0.5
	segmentConfidence   = 0.6
	trendingViewsScale  = 1000.0
	trendingConfidence  = 0.5
	helpfulConfidence   = 0.8
	popularConfidence   = 0.6
	popularTopScore     = 0.9
	popularScoreStep    = 0.1
	popularMinimumScore = 0.1

	defaultRelatedLimit = 4
	defaultPopularLimit = 5
)

// Config controls a single recommendation call.
// Weights are independent multipliers, not a convex combination.
type Config struct {
	// MaxRecommendations caps the result list length.
	// Default: 5
	MaxRecommendations int `json:"maxRecommendations" koanf:"max_recommendations" validate:"min=1,max=100"`

	// SimilarityThreshold drops blended results scoring below it.
	// Default: 0.1
	SimilarityThreshold float64 `json:"similarityThreshold" koanf:"similarity_threshold" validate:"gte=0,lte=1"`

	// BehaviourWeight multiplies behaviour-based scores.
	// Default: 0.4
	BehaviourWeight float64 `json:"behaviourWeight" koanf:"behaviour_weight" validate:"gte=0"`

	// ContentWeight multiplies content-similarity scores.
	// Default: 0.6
	ContentWeight float64 `json:"contentWeight" koanf:"content_weight" validate:"gte=0"`

	// SegmentWeight multiplies client-segment scores.
	// Default: 0.3
	SegmentWeight float64 `json:"segmentWeight" koanf:"segment_weight" validate:"gte=0"`

	// EnablePersonalization turns on the behaviour-based generator.
	// Default: true
	EnablePersonalization bool `json:"enablePersonalization" koanf:"enable_personalization"`

	// EnableABTesting is carried for callers that route through experiments.
	// Default: false
	EnableABTesting bool `json:"enableABTesting" koanf:"enable_ab_testing"`

	// DebugMode logs every produced result.
	// Default: false
	DebugMode bool `json:"debugMode" koanf:"debug_mode"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxRecommendations:    5,
		SimilarityThreshold:   0.1,
		BehaviourWeight:       0.4,
		ContentWeight:         0.6,
		SegmentWeight:         0.3,
		EnablePersonalization: true,
		EnableABTesting:       false,
		DebugMode:             false,
	}
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.MaxRecommendations < 1 {
		return fmt.Errorf("max_recommendations must be positive, got %d", c.MaxRecommendations)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0, 1], got %f", c.SimilarityThreshold)
	}
	if c.BehaviourWeight < 0 {
		return fmt.Errorf("behaviour_weight must be non-negative, got %f", c.BehaviourWeight)
	}
	if c.ContentWeight < 0 {
		return fmt.Errorf("content_weight must be non-negative, got %f", c.ContentWeight)
	}
	if c.SegmentWeight < 0 {
		return fmt.Errorf("segment_weight must be non-negative, got %f", c.SegmentWeight)
	}
	return nil
}

// Clone returns a copy. Config holds only value fields.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// limit returns ceil(MaxRecommendations * share).
func (c *Config) limit(share float64) int {
	return int(math.Ceil(float64(c.MaxRecommendations) * share))
}
