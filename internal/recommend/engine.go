// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/faqrec/internal/metrics"
	"github.com/tomtom215/faqrec/internal/textproc"
)

// ErrNotInitialized is returned by Recommend before the first Initialize.
var ErrNotInitialized = errors.New("recommendation engine not initialized")

// Engine produces blended FAQ recommendations from a corpus snapshot and
// per-session behaviour. It is safe for concurrent use.
type Engine struct {
	// Configuration
	config Config
	logger zerolog.Logger

	processor textproc.Processor
	behaviour BehaviourStore

	// Corpus snapshot, replaced atomically on Initialize
	corpus      atomic.Pointer[corpus]
	generations atomic.Uint64

	// Metrics
	requestCount atomic.Int64
	emptyCount   atomic.Int64
}

// NewEngine creates a new recommendation engine. A nil cfg selects
// DefaultConfig and a nil tracker selects an in-memory behaviour store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, tracker BehaviourStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if tracker == nil {
		tracker = NewMemoryBehaviourStore()
	}

	return &Engine{
		config:    *cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		processor: textproc.New(),
		behaviour: tracker,
	}, nil
}

// Initialize builds a new corpus snapshot from categories and swaps it in.
// Concurrent callers keep using the previous snapshot until the swap.
func (e *Engine) Initialize(categories []Category) error {
	start := time.Now()
	c := newCorpus(categories, e.processor)
	c.generation = e.generations.Add(1)
	e.corpus.Store(c)

	metrics.SetCorpusSize(len(c.questions))
	e.logger.Info().
		Int("categories", len(c.categories)).
		Int("questions", len(c.questions)).
		Int("terms", c.index.Vocabulary().Size()).
		Uint64("generation", c.generation).
		Dur("duration", time.Since(start)).
		Msg("corpus initialized")
	return nil
}

// Initialized reports whether a corpus has been loaded.
func (e *Engine) Initialized() bool {
	return e.corpus.Load() != nil
}

// Generation identifies the current corpus snapshot. It is 0 before the
// first Initialize and increases by one on every swap.
func (e *Engine) Generation() uint64 {
	if c := e.corpus.Load(); c != nil {
		return c.generation
	}
	return 0
}

// InitializeUserSession starts (or resets) behaviour tracking for a session.
func (e *Engine) InitializeUserSession(sessionID string, segment Segment, entry EntryPoint) {
	e.behaviour.Init(sessionID, segment, entry)
	e.logger.Debug().
		Str("session_id", sessionID).
		Str("segment", segment.String()).
		Str("entry_point", entry.String()).
		Msg("session initialized")
}

// EndUserSession discards a session's behaviour record.
func (e *Engine) EndUserSession(sessionID string) {
	e.behaviour.End(sessionID)
}

// TrackQuestionView records a question view with its dwell time in seconds.
func (e *Engine) TrackQuestionView(sessionID, questionID string, seconds float64) {
	e.behaviour.RecordView(sessionID, questionID, seconds)
}

// TrackSearchQuery records a search query.
func (e *Engine) TrackSearchQuery(sessionID, query string) {
	e.behaviour.RecordQuery(sessionID, query)
}

// TrackRecommendationClick records a click on a recommended question.
func (e *Engine) TrackRecommendationClick(sessionID, questionID string) {
	e.behaviour.RecordClick(sessionID, questionID)
}

// Behaviour returns a snapshot of the session's behaviour record.
func (e *Engine) Behaviour(sessionID string) (Behaviour, bool) {
	return e.behaviour.Get(sessionID)
}

// Config returns a copy of the engine's default configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Stats returns engine counters.
func (e *Engine) Stats() EngineStats {
	stats := EngineStats{
		Requests:     e.requestCount.Load(),
		EmptyResults: e.emptyCount.Load(),
	}
	if c := e.corpus.Load(); c != nil {
		stats.Questions = len(c.questions)
		stats.Terms = c.index.Vocabulary().Size()
		stats.InitializedAt = c.builtAt
		stats.Generation = c.generation
	}
	return stats
}

// GenerateRecommendations is the degrade-never-error form of Recommend: any
// failure is logged and yields an empty list.
func (e *Engine) GenerateRecommendations(target *Question, sessionID string, cfg *Config) []Result {
	results, err := e.Recommend(context.Background(), target, sessionID, cfg)
	if err != nil {
		e.logger.Warn().Err(err).Str("session_id", sessionID).Msg("recommendation failed")
		return []Result{}
	}
	return results
}

// Recommend returns up to cfg.MaxRecommendations results for target.
// A nil cfg selects the engine default. Viewed questions and the target
// itself are never returned.
func (e *Engine) Recommend(ctx context.Context, target *Question, sessionID string, cfg *Config) ([]Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	c := e.corpus.Load()
	if c == nil {
		return nil, ErrNotInitialized
	}
	if target == nil {
		return nil, errors.New("target question is nil")
	}
	if cfg == nil {
		cfg = &e.config
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	behaviour, hasBehaviour := e.behaviour.Get(sessionID)

	exclude := newIDSet(target.ID)
	if hasBehaviour {
		exclude.add(behaviour.ViewedQuestions...)
	}

	candidates := make([]Result, 0, cfg.MaxRecommendations*2)
	for _, r := range c.contentBased(target, exclude, cfg.limit(contentShare)) {
		r.Score *= cfg.ContentWeight
		candidates = append(candidates, r)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	if cfg.EnablePersonalization && hasBehaviour && len(behaviour.ViewedQuestions) > 0 {
		for _, r := range c.behaviourBased(&behaviour, exclude, cfg.limit(behaviourShare)) {
			r.Score *= cfg.BehaviourWeight
			candidates = append(candidates, r)
		}
	}

	if hasBehaviour {
		for _, r := range c.segmentBased(behaviour.Segment, exclude, cfg.limit(segmentShare)) {
			r.Score *= cfg.SegmentWeight
			candidates = append(candidates, r)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	results := blend(candidates, cfg.SimilarityThreshold, cfg.MaxRecommendations)
	results = c.backfill(results, exclude, cfg.MaxRecommendations)

	e.observe(metrics.PathDirect, start, results, sessionID, cfg.DebugMode)
	return results, nil
}

// RelatedQuestions returns content-similar questions for questionID.
// limit <= 0 selects the default of 4.
func (e *Engine) RelatedQuestions(questionID string, limit int) []Result {
	c := e.corpus.Load()
	if c == nil {
		return []Result{}
	}
	q, ok := c.byID[questionID]
	if !ok {
		return []Result{}
	}
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	results := c.contentBased(q, newIDSet(questionID), limit)
	if results == nil {
		return []Result{}
	}
	return results
}

// PopularInCategory returns the most-viewed questions in a category,
// skipping exclude. limit <= 0 selects the default of 5.
func (e *Engine) PopularInCategory(categoryID string, exclude []string, limit int) []Result {
	c := e.corpus.Load()
	if c == nil {
		return []Result{}
	}
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	results := c.popularInCategory(categoryID, newIDSet(exclude...), limit)
	if results == nil {
		return []Result{}
	}
	return results
}

// blend merges weighted generator output by question ID keeping the highest
// score, drops results below threshold and returns the top limit.
func blend(candidates []Result, threshold float64, limit int) []Result {
	best := make(map[string]int, len(candidates))
	merged := make([]Result, 0, len(candidates))
	for _, r := range candidates {
		if i, ok := best[r.ID()]; ok {
			if r.Score > merged[i].Score {
				merged[i] = r
			}
			continue
		}
		best[r.ID()] = len(merged)
		merged = append(merged, r)
	}

	kept := merged[:0]
	for _, r := range merged {
		if r.Score >= threshold {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].ID() < kept[j].ID()
	})
	return truncate(kept, limit)
}

// backfill tops up a short list with trending and then helpful questions.
func (c *corpus) backfill(results []Result, exclude idSet, limit int) []Result {
	remaining := limit - len(results)
	if remaining <= 0 {
		return results
	}

	taken := exclude.clone()
	for _, r := range results {
		taken.add(r.ID())
	}

	trending := c.trending(taken, int(math.Ceil(float64(remaining)/2)))
	for _, r := range trending {
		taken.add(r.ID())
	}
	helpful := c.mostHelpful(taken, remaining-len(trending))
	for _, r := range helpful {
		taken.add(r.ID())
	}

	results = append(results, trending...)
	results = append(results, helpful...)

	// Top up from trending when the helpful pool ran dry.
	if short := limit - len(results); short > 0 {
		results = append(results, c.trending(taken, short)...)
	}
	return truncate(results, limit)
}

func (e *Engine) observe(path string, start time.Time, results []Result, sessionID string, debug bool) {
	if len(results) == 0 {
		e.emptyCount.Add(1)
	}

	reasons := make([]string, len(results))
	for i, r := range results {
		reasons[i] = r.Reason.String()
	}
	metrics.RecordRecommendation(path, time.Since(start), reasons)

	if !debug {
		return
	}
	for _, r := range results {
		e.logger.Debug().
			Str("session_id", sessionID).
			Str("question_id", r.ID()).
			Str("reason", r.Reason.String()).
			Float64("score", r.Score).
			Float64("confidence", r.Confidence).
			Msg("recommendation")
	}
}
