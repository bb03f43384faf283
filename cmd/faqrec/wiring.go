// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package main

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/faqrec/internal/config"
	"github.com/tomtom215/faqrec/internal/eventbus"
	"github.com/tomtom215/faqrec/internal/experiment"
	"github.com/tomtom215/faqrec/internal/logging"
	"github.com/tomtom215/faqrec/internal/optimizer"
	"github.com/tomtom215/faqrec/internal/recommend"
	"github.com/tomtom215/faqrec/internal/supervisor/services"
)

// openAssignmentStore returns the configured sticky assignment store and a
// close function for it.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func openAssignmentStore(cfg config.ExperimentConfig, logger zerolog.Logger) (experiment.AssignmentStore, func() error, error) {
	switch cfg.Store {
	case config.StoreBadger:
		logging.Info().Str("path", cfg.BadgerPath).Msg("Opening BadgerDB assignment store")
		opts := badger.DefaultOptions(cfg.BadgerPath).WithLogger(logging.NewBadgerAdapter(logger))
		db, err := badger.Open(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger at %s: %w", cfg.BadgerPath, err)
		}
		return experiment.NewBadgerAssignmentStore(db), db.Close, nil

	case config.StoreMemory, "":
		logging.Warn().Msg("Experiment assignments are kept in memory and reset on restart (EXPERIMENT_STORE=memory)")
		return experiment.NewMemoryAssignmentStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown assignment store %q", cfg.Store)
	}
}

// newEventBus returns nil when events are disabled.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newEventBus(cfg config.EventsConfig, logger zerolog.Logger) *eventbus.Publisher {
	if !cfg.Enabled {
		logging.Info().Msg("Experiment events disabled (EVENTS_ENABLED=false)")
		return nil
	}

	busCfg := eventbus.DefaultConfig()
	if cfg.TopicPrefix != "" {
		busCfg.TopicPrefix = cfg.TopicPrefix
	}
	if cfg.BufferSize > 0 {
		busCfg.BufferSize = cfg.BufferSize
	}
	return eventbus.New(busCfg, logging.NewWatermillAdapter(logger.With().Str("component", "eventbus").Logger()))
}

// createExperiments registers every configured definition, stopping at the
// first failure.
func createExperiments(manager *experiment.Manager, definitions []experiment.Experiment) error {
	for i := range definitions {
		if err := manager.CreateExperiment(definitions[i]); err != nil {
			return fmt.Errorf("experiment %q: %w", definitions[i].ID, err)
		}
	}
	return nil
}

// healthFunc reports corpus readiness and breaker states for /healthz.
func healthFunc(engine *recommend.Engine, opt *optimizer.Optimizer, bus *eventbus.Publisher) services.HealthFunc {
	return func() services.Health {
		h := services.Health{
			Status:       "ok",
			CorpusLoaded: engine.Initialized(),
			Breakers: map[string]string{
				"engine":   opt.BreakerState().String(),
				"prefetch": opt.PrefetchBreakerState().String(),
			},
		}
		if bus != nil {
			h.Breakers["events"] = bus.BreakerState()
		}
		return h
	}
}

// reloadLogLevel re-reads the configuration after a file change and applies
// the new log level. An invalid file leaves the current level in place.
func reloadLogLevel() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Warn().Err(err).Msg("Ignoring invalid config file change")
		return
	}
	if cfg.Logging.Level == logging.GetLevel().String() {
		return
	}
	logging.SetLevelString(cfg.Logging.Level)
	logging.Info().Str("level", cfg.Logging.Level).Msg("Log level changed")
}
