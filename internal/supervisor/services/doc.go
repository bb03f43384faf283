// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

/*
Package services provides suture.Service wrappers for faqrec components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer, so supervisor events name the service.

# Available Services

Corpus Reload (CorpusReloadService):
  - Re-reads the corpus source on a ticker and re-initializes the engine
  - A failed reload is logged and the previous index keeps serving
  - Records faqrec_corpus_reloads_total

Strategy Refresh (StrategyRefreshService):
  - Calls Optimizer.Redetect on a ticker, discarding tuning drift

Event Log (EventLogService):
  - Subscribes to the exposure and click topics of the event bus
  - Writes each decoded event to the structured log and acks it

Metrics HTTP (HTTPServerService, NewMetricsRouter):
  - Serves /metrics and /healthz on an internal listener
  - Converts ListenAndServe into Serve with a bounded Shutdown

# Restart Semantics

Services return ctx.Err() on shutdown. Configuration errors, such as a
non-positive interval, wrap suture.ErrDoNotRestart so the supervisor drops
the service instead of restarting it in a loop.

# Usage Example

	reload := services.NewCorpusReloadService(source, engine, services.CorpusReloadConfig{
	    Interval: cfg.Corpus.ReloadInterval,
	}, logger)
	tree.AddEngineService(reload)

	server := &http.Server{Addr: cfg.Metrics.Listen, Handler: services.NewMetricsRouter(health)}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
*/
package services
