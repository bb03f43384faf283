// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/faqrec/internal/config"
	"github.com/tomtom215/faqrec/internal/corpus"
	"github.com/tomtom215/faqrec/internal/device"
	"github.com/tomtom215/faqrec/internal/experiment"
	"github.com/tomtom215/faqrec/internal/logging"
	"github.com/tomtom215/faqrec/internal/metrics"
	"github.com/tomtom215/faqrec/internal/optimizer"
	"github.com/tomtom215/faqrec/internal/recommend"
	"github.com/tomtom215/faqrec/internal/supervisor"
	"github.com/tomtom215/faqrec/internal/supervisor/services"
)

const shutdownTimeout = 10 * time.Second

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	metrics.SetAppInfo(version, runtime.Version())

	logging.Info().
		Str("version", version).
		Str("corpus_path", cfg.Corpus.Path).
		Str("experiment_store", cfg.Experiments.Store).
		Bool("events_enabled", cfg.Events.Enabled).
		Bool("metrics_enabled", cfg.Metrics.Enabled).
		Msg("Starting faqrec")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := corpus.NewFileSource(cfg.Corpus.Path, corpus.Format(cfg.Corpus.Format))
	categories, err := source.Load(ctx)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Corpus.Path).Msg("Failed to load corpus")
	}

	behaviour := recommend.NewMemoryBehaviourStore()
	engine, err := recommend.NewEngine(&cfg.Recommend, behaviour, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	if err := engine.Initialize(categories); err != nil {
		logging.Fatal().Err(err).Msg("Failed to index corpus")
	}
	stats := engine.Stats()
	logging.Info().
		Int("categories", len(categories)).
		Int("questions", stats.Questions).
		Int("terms", stats.Terms).
		Msg("Corpus indexed")

	store, closeStore, err := openAssignmentStore(cfg.Experiments, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open assignment store")
	}
	defer func() {
		if err := closeStore(); err != nil {
			logging.Error().Err(err).Msg("Error closing assignment store")
		}
	}()

	bus := newEventBus(cfg.Events, logger)
	if bus != nil {
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
	}

	opts := []experiment.Option{
		experiment.WithLogger(logger),
		experiment.WithAssignmentStore(store),
		experiment.WithBehaviourStore(behaviour),
	}
	if bus != nil {
		opts = append(opts, experiment.WithPublisher(bus))
	}
	experiments := experiment.NewManager(opts...)
	if err := createExperiments(experiments, cfg.Experiments.Definitions); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create experiments")
	}
	if !cfg.Recommend.EnableABTesting && len(cfg.Experiments.Definitions) > 0 {
		logging.Warn().Msg("Experiments are defined but RECOMMEND_ENABLE_AB_TESTING=false")
	}

	opt := optimizer.New(device.NewDetector(device.ClientContext{ServerSide: true}), cfg.Optimizer, logger)
	strategy := opt.Strategy()
	logging.Info().
		Int("max_recommendations", strategy.MaxRecommendations).
		Float64("similarity_threshold", strategy.SimilarityThreshold).
		Bool("prefetch", strategy.PrefetchEnabled).
		Msg("Optimisation strategy selected")

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})

	if cfg.Corpus.ReloadInterval > 0 {
		tree.AddEngineService(services.NewCorpusReloadService(source, engine, services.CorpusReloadConfig{
			Interval: cfg.Corpus.ReloadInterval,
		}, logger))
	}
	if cfg.Metrics.StrategyRefreshInterval > 0 {
		tree.AddEngineService(services.NewStrategyRefreshService(opt, cfg.Metrics.StrategyRefreshInterval, logger))
	}
	if bus != nil {
		tree.AddEventService(services.NewEventLogService(bus, logger))
	}
	if cfg.Metrics.Enabled {
		server := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           services.NewMetricsRouter(healthFunc(engine, opt, bus)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))
		logging.Info().Str("listen", cfg.Metrics.Listen).Msg("Metrics endpoint enabled")
	}

	if path := config.ConfigFile(); path != "" {
		if err := config.WatchConfigFile(path, reloadLogLevel); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		}
	}

	logging.Info().Strs("experiments", experiments.Experiments()).Msg("faqrec running")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("faqrec stopped")
}
