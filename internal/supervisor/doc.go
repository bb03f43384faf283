// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

/*
Package supervisor runs the faqrec host's long-lived services under suture v4.

# Overview

The supervisor tree organizes services into three layers:

	RootSupervisor ("faqrec")
	├── EngineSupervisor ("engine-layer")
	│   ├── CorpusReloadService (if CORPUS_RELOAD_INTERVAL > 0)
	│   └── StrategyRefreshService (if STRATEGY_REFRESH_INTERVAL > 0)
	├── EventsSupervisor ("events-layer")
	│   └── EventLogService (if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (if METRICS_ENABLED)

Crashed services are restarted with suture's backoff. A service that
returns an error wrapping suture.ErrDoNotRestart is removed instead.

Supervisor events (restarts, backoff, unstopped services) are logged through
sutureslog, bridged onto zerolog by logging.SlogHandler.

# Usage

	slogger := slog.New(logging.NewSlogHandlerWithLogger(logger))
	tree := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	tree.AddEngineService(services.NewCorpusReloadService(source, engine, reloadCfg, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logger.Error().Err(err).Msg("supervisor tree stopped")
	}

See package services for the service implementations.
*/
package supervisor
