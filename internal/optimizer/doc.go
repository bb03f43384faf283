// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

/*
Package optimizer wraps a recommendation engine with device-aware tuning.

An Optimizer holds the device profile and strategy for one client. Each
Optimize call overlays the strategy on the engine defaults, serves repeated
requests from an LFU result cache, and records a PerformanceMetrics sample.

# Degradation

Optimize never fails. Engine errors, recovered panics and an open circuit
breaker all yield an empty list with BatteryImpact high and CacheHitRate 0.
Degraded calls are counted in faqrec_optimizer_degraded_total and are not
added to the history.

# Tuning

A call slower than SlowCallThreshold triggers a tuning attempt, allowed at
most once per TuneInterval. The last TuneSamples samples inside TuneWindow
are averaged; above DegradedAverage the strategy drops one result (never
below 2), raises the similarity threshold by 0.05 (never above 0.3) and
disables background processing. RefreshOptimization discards tuning.

# Prefetching

Prefetch computes results for likely next questions in the background and
stores them in the result cache. It is skipped on low-power devices and when
the strategy disables prefetching. Prefetch has its own circuit breaker, so
a failing prefetch never degrades Optimize.

Cache keys include the engine's corpus generation; results computed before
a corpus reload are never served after it.

# Usage

	detector := device.NewDetector(device.ClientContext{UserAgent: ua, ScreenWidth: 390})
	opt := optimizer.New(detector, optimizer.DefaultConfig(), logger)

	results, perf := opt.Optimize(ctx, engine, question, sessionID)
	<-opt.Prefetch(ctx, engine, related, sessionID)
	report := opt.PerformanceReport()
*/
package optimizer
