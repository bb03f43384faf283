// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package main is the faqrec host process.
//
// The engine packages are an embeddable library; this binary hosts them for
// deployments that want corpus hot reload, persistent experiment
// assignments and a metrics endpoint without writing their own host.
//
// # Startup Order
//
//  1. Configuration: defaults, config file, environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Corpus: initial load from CORPUS_PATH; a failure here is fatal
//  4. Engine: TF-IDF index and behaviour tracker
//  5. Assignment store: memory or BadgerDB (EXPERIMENT_STORE)
//  6. Event bus: in-process Watermill transport (EVENTS_ENABLED)
//  7. Experiments: definitions from the config file
//  8. Optimiser: server-side device profile and strategy
//  9. Supervisor tree: corpus reload, strategy refresh, event log, metrics HTTP
//
// # Configuration
//
// See internal/config for every key. The most common ones:
//
//	CORPUS_PATH=/data/faq.json
//	CORPUS_RELOAD_INTERVAL=5m
//	EXPERIMENT_STORE=badger
//	EXPERIMENT_BADGER_PATH=/data/faqrec-assignments
//	METRICS_ENABLED=true
//	METRICS_LISTEN=:9090
//	LOG_LEVEL=debug
//
// Experiment definitions can only be set in the config file
// (FAQREC_CONFIG or ./config.yaml).
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. Services drain within
// their shutdown timeout, then the event bus and BadgerDB are closed.
//
// Edits to the config file while running change the log level only;
// everything else needs a restart.
package main
