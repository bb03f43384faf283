// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

/*
Package middleware provides the chi middleware used by the host's metrics
and health endpoint.

  - RequestID: propagates or generates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - Metrics: Prometheus request counters, latency and in-flight gauge,
    labelled by chi route pattern
  - AccessLog: one debug-level zerolog line per request

Stack order, outermost first:

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)
*/
package middleware
