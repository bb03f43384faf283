// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package recommend implements a hybrid FAQ recommendation engine.
//
// # Architecture
//
// The engine blends three scored generators and two backfill generators:
//
//   - Content similarity: TF-IDF cosine between the target and every question
//   - User behaviour: questions editorially related to what the session viewed
//   - Client segment: questions targeted at the session's audience
//   - Trending and helpful: popularity backfill when the blend is short
//
// Each scored generator receives a share of the requested result count
// (content 50%, behaviour 30%, segment 20%, rounded up). Scores are multiplied
// by the configured weights, merged by question ID keeping the highest, and
// filtered by the similarity threshold before backfill.
//
// # Guarantees
//
// For every call the result list:
//
//   - never contains the target question or a question the session viewed
//   - never contains the same question twice
//   - never exceeds Config.MaxRecommendations
//
// # Usage
//
//	engine, err := recommend.NewEngine(nil, nil, logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Initialize(categories); err != nil {
//	    return err
//	}
//
//	engine.InitializeUserSession(sessionID, recommend.SegmentOxbridgePrep, recommend.EntrySearch)
//	engine.TrackQuestionView(sessionID, "fees-1", 42)
//
//	results, err := engine.Recommend(ctx, target, sessionID, nil)
//
// # Thread Safety
//
// The corpus snapshot is immutable and swapped atomically by Initialize, so
// recommendations never observe a half-built index. Behaviour is held by a
// BehaviourStore; the in-memory implementation hands out deep copies.
package recommend
