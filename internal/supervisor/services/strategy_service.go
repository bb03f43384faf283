// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/faqrec/internal/device"
)

// StrategyRefresher re-detects the device profile and recomputes the
// optimisation strategy. Satisfied by *optimizer.Optimizer.
type StrategyRefresher interface {
	Redetect() device.Strategy
}

// StrategyRefreshService periodically discards tuning adjustments by
// re-deriving the strategy from the detected profile.
type StrategyRefreshService struct {
	refresher StrategyRefresher
	interval  time.Duration
	logger    zerolog.Logger
	name      string
}

// NewStrategyRefreshService creates a new strategy refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStrategyRefreshService(refresher StrategyRefresher, interval time.Duration, logger zerolog.Logger) *StrategyRefreshService {
	return &StrategyRefreshService{
		refresher: refresher,
		interval:  interval,
		logger:    logger.With().Str("service", "strategy-refresh").Logger(),
		name:      "strategy-refresh",
	}
}

// Serve implements the suture.Service interface.
func (s *StrategyRefreshService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("strategy refresh interval must be positive, got %v: %w", s.interval, suture.ErrDoNotRestart)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			strategy := s.refresher.Redetect()
			s.logger.Debug().
				Int("max_recommendations", strategy.MaxRecommendations).
				Float64("similarity_threshold", strategy.SimilarityThreshold).
				Int("cache_size", strategy.CacheSize).
				Msg("strategy refreshed")
		}
	}
}

// String returns the service name for logging.
func (s *StrategyRefreshService) String() string {
	return s.name
}
