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

	"github.com/tomtom215/faqrec/internal/corpus"
	"github.com/tomtom215/faqrec/internal/metrics"
	"github.com/tomtom215/faqrec/internal/recommend"
)

// CorpusInitializer is the part of recommend.Engine the reload service drives.
type CorpusInitializer interface {
	Initialize(categories []recommend.Category) error
}

// CorpusReloadConfig holds configuration for the corpus reload service.
type CorpusReloadConfig struct {
	// Interval is how often the corpus is re-read.
	Interval time.Duration

	// LoadTimeout bounds a single Source.Load call.
	// Default: 30s
	LoadTimeout time.Duration
}

// CorpusReloadService periodically reloads the FAQ corpus and swaps the
// engine's index. A failed reload keeps the previous index in service.
type CorpusReloadService struct {
	source corpus.Source
	engine CorpusInitializer
	config CorpusReloadConfig
	logger zerolog.Logger
	name   string
}

// NewCorpusReloadService creates a new corpus reload service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCorpusReloadService(source corpus.Source, engine CorpusInitializer, cfg CorpusReloadConfig, logger zerolog.Logger) *CorpusReloadService {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 30 * time.Second
	}
	return &CorpusReloadService{
		source: source,
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "corpus-reload").Logger(),
		name:   "corpus-reload",
	}
}

// Serve implements the suture.Service interface.
func (s *CorpusReloadService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		return fmt.Errorf("corpus reload interval must be positive, got %v: %w", s.config.Interval, suture.ErrDoNotRestart)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.config.Interval).Msg("corpus reload service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("corpus reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("corpus reload failed, keeping previous index")
			}
		}
	}
}

// Reload loads the corpus once and initializes the engine with it.
func (s *CorpusReloadService) Reload(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, s.config.LoadTimeout)
	defer cancel()

	start := time.Now()
	categories, err := s.source.Load(loadCtx)
	if err == nil {
		err = s.engine.Initialize(categories)
	}
	metrics.RecordCorpusReload(err)
	if err != nil {
		return fmt.Errorf("reload corpus: %w", err)
	}

	s.logger.Debug().
		Int("categories", len(categories)).
		Dur("duration", time.Since(start)).
		Msg("corpus reloaded")
	return nil
}

// String returns the service name for logging.
func (s *CorpusReloadService) String() string {
	return s.name
}
