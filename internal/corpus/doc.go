// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package corpus loads the FAQ categories fed to recommend.Engine.Initialize.
//
// FileSource reads JSON (an object with a categories key, or a bare array)
// or YAML (a categories key). Question IDs must be unique across the corpus.
package corpus
