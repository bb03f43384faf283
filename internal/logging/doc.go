// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package logging provides the zerolog-based structured logging used by faqrec.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured by Init, usable before Init is called
//   - JSON output for production and console output for development
//   - Request and correlation IDs carried on context.Context
//   - An slog.Handler adapter for sutureslog
//   - A watermill.LoggerAdapter for the experiment event bus
//   - A badger.Logger adapter for the persistent assignment store
//
// Library packages do not use the global logger directly. Their constructors
// take a zerolog.Logger by value and derive a component logger from it:
//
//	engine, err := recommend.NewEngine(&cfg, nil, logging.Logger())
//	opt := optimizer.New(detector, optCfg, logging.Logger())
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Context
//
// The host middleware stores request and correlation IDs on every request
// and the optimiser tags each instrumented call with a request ID. Ctx
// returns the global logger with whichever IDs ctx carries:
//
//	logging.Ctx(r.Context()).Debug().Int("status", status).Msg("http request")
//
// Messages are lower case and fields are structured:
//
//	logger.Info().Int("questions", n).Dur("took", d).Msg("corpus loaded")
package logging
