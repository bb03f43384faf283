// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package stats provides the significance tests used by experiment analysis.
//
// ZTest compares conversion proportions and is the reference path. TTest
// compares means of continuous metrics using a normal approximation.
// ConfidenceInterval gives a Wald interval for a single proportion.
//
// All functions are pure and safe for concurrent use.
package stats
