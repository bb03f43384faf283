// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package experiment runs A/B tests over recommendation configurations.
//
// An Experiment holds two or more weighted Variants, each carrying its own
// recommend.Config and its own engine instance. Users are assigned with a
// deterministic hash of "userID:experimentID", so the same user lands in the
// same variant on every node, and the first assignment is persisted through
// an AssignmentStore (in memory, or BadgerDB for restarts).
//
// # Assignment
//
//	draw := (hash("user-42:homepage-v2") mod 1000) / 1000
//
// Active variants are walked in declaration order, accumulating weight; the
// first variant whose cumulative weight reaches the draw wins. Only the call
// that creates the assignment records an exposure and publishes an
// ExposureEvent.
//
// # Metrics and analysis
//
// Each variant keeps exposures, clicks, views, a running mean of time spent
// and satisfaction, attributed revenue, and a conversion rate recomputed on
// every click. AnalyzeExperiment compares every treatment with the first
// active variant using a two-proportion z-test from package stats.
//
// # Thread Safety
//
// The registry is guarded by a RWMutex and every experiment has its own
// mutex for metric updates. Assignment stores provide insert-if-absent, so
// concurrent first requests for the same user agree on one variant.
package experiment
