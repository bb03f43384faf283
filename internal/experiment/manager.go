// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package experiment

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/rs/zerolog"

	"github.com/tomtom215/faqrec/internal/eventbus"
	"github.com/tomtom215/faqrec/internal/metrics"
	"github.com/tomtom215/faqrec/internal/recommend"
	"github.com/tomtom215/faqrec/internal/validation"
)

// weightTolerance is the allowed deviation of the variant weight sum from 1.
const weightTolerance = 0.001

// Engine is the recommendation engine behind a single variant.
type Engine interface {
	Initialize(categories []recommend.Category) error
	Recommend(ctx context.Context, target *recommend.Question, sessionID string, cfg *recommend.Config) ([]recommend.Result, error)
}

// EngineFactory builds the engine for a variant.
type EngineFactory func(v Variant) (Engine, error)

// Publisher receives experiment events. *eventbus.Publisher satisfies it.
type Publisher interface {
	PublishExposure(ctx context.Context, event *eventbus.ExposureEvent) error
	PublishClick(ctx context.Context, event *eventbus.ClickEvent) error
}

// variantEngine initialises its engine once, on first use.
type variantEngine struct {
	engine Engine
	once   sync.Once
	err    error
}

// state is the mutable record of one experiment. mu guards every field.
type state struct {
	mu         sync.Mutex
	experiment Experiment
	metrics    map[string]*Metrics
	engines    map[string]*variantEngine
}

// Manager runs A/B experiments over recommendation configurations.
// It is safe for concurrent use.
type Manager struct {
	mu          sync.RWMutex
	experiments map[string]*state

	assignments AssignmentStore
	behaviour   recommend.BehaviourStore
	factory     EngineFactory
	publisher   Publisher
	now         func() time.Time
	logger      zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithAssignmentStore sets the sticky assignment store. Default: in memory.
func WithAssignmentStore(store AssignmentStore) Option {
	return func(m *Manager) {
		m.assignments = store
	}
}

// WithBehaviourStore shares a behaviour store with the default variant
// engines so personalised generators see session history.
func WithBehaviourStore(store recommend.BehaviourStore) Option {
	return func(m *Manager) {
		m.behaviour = store
	}
}

// WithEngineFactory replaces the default per-variant engine constructor.
func WithEngineFactory(factory EngineFactory) Option {
	return func(m *Manager) {
		m.factory = factory
	}
}

// WithPublisher publishes exposure and click events.
func WithPublisher(p Publisher) Option {
	return func(m *Manager) {
		m.publisher = p
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates an experiment manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		experiments: make(map[string]*state),
		now:         time.Now,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.assignments == nil {
		m.assignments = NewMemoryAssignmentStore()
	}
	if m.factory == nil {
		m.factory = m.defaultEngine
	}
	m.logger = m.logger.With().Str("component", "experiment").Logger()
	return m
}

func (m *Manager) defaultEngine(v Variant) (Engine, error) {
	cfg := v.Config
	return recommend.NewEngine(&cfg, m.behaviour, m.logger)
}

// CreateExperiment validates and registers an experiment after
// ApplyDefaults fills its optional fields. Nothing is registered when an
// error is returned.
func (m *Manager) CreateExperiment(exp Experiment) error {
	exp = exp.clone()
	exp.ApplyDefaults()

	if err := validateExperiment(&exp); err != nil {
		return err
	}

	engines := make(map[string]*variantEngine, len(exp.Variants))
	for _, v := range exp.Variants {
		engine, err := m.factory(v)
		if err != nil {
			return fmt.Errorf("create engine for variant %s: %w", v.ID, err)
		}
		engines[v.ID] = &variantEngine{engine: engine}
	}

	now := m.now()
	st := &state{
		experiment: exp,
		metrics:    make(map[string]*Metrics, len(exp.Variants)),
		engines:    engines,
	}
	for _, v := range exp.Variants {
		st.metrics[v.ID] = &Metrics{VariantID: v.ID, LastUpdated: now}
	}

	m.mu.Lock()
	if _, exists := m.experiments[exp.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateExperiment, exp.ID)
	}
	m.experiments[exp.ID] = st
	m.mu.Unlock()

	m.logger.Info().
		Str("experiment_id", exp.ID).
		Str("name", exp.Name).
		Int("variants", len(exp.Variants)).
		Msg("experiment created")
	return nil
}

// validateExperiment checks tags, variant count, weight sum and variant ID
// uniqueness.
func validateExperiment(exp *Experiment) error {
	if len(exp.Variants) < 2 {
		return &ConfigurationError{ExperimentID: exp.ID, Reason: "experiment must have at least 2 variants"}
	}
	if verr := validation.ValidateStruct(exp); verr != nil {
		return &ConfigurationError{ExperimentID: exp.ID, Reason: "invalid definition", Err: verr}
	}
	if !exp.PrimaryMetric.Valid() {
		return &ConfigurationError{ExperimentID: exp.ID, Reason: fmt.Sprintf("unknown primary metric %q", exp.PrimaryMetric)}
	}

	seen := make(map[string]struct{}, len(exp.Variants))
	total := 0.0
	for _, v := range exp.Variants {
		if _, dup := seen[v.ID]; dup {
			return &ConfigurationError{ExperimentID: exp.ID, Reason: fmt.Sprintf("duplicate variant id %q", v.ID)}
		}
		seen[v.ID] = struct{}{}
		total += v.Weight
	}
	if math.Abs(total-1) > weightTolerance {
		return &ConfigurationError{ExperimentID: exp.ID, Reason: fmt.Sprintf("variant weights must sum to 1.0, got %.4f", total)}
	}
	return nil
}

func (m *Manager) get(experimentID string) (*state, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.experiments[experimentID]
	return st, ok
}

// assignmentHash is a 31-multiplier rolling hash over the UTF-16 code
// units of s, wrapped to int32 and made non-negative.
func assignmentHash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// assignmentDraw maps (user, experiment) to a deterministic value in [0, 1).
func assignmentDraw(userID, experimentID string) float64 {
	return float64(assignmentHash(userID+":"+experimentID)%1000) / 1000
}

// pickVariant walks active variants accumulating weight and returns the
// first whose cumulative weight reaches draw.
func pickVariant(variants []Variant, draw float64) (string, bool) {
	cumulative := 0.0
	for _, v := range variants {
		if !v.Active {
			continue
		}
		cumulative += v.Weight
		if draw <= cumulative {
			return v.ID, true
		}
	}
	return "", false
}

// AssignUserToVariant returns the user's variant, assigning one on first
// call. It returns false when the experiment is missing or inactive, or
// when no active variant covers the draw. Errors come only from the
// assignment store.
func (m *Manager) AssignUserToVariant(ctx context.Context, userID, sessionID, experimentID string) (string, bool, error) {
	st, ok := m.get(experimentID)
	if !ok {
		metrics.RecordAssignment("none")
		return "", false, nil
	}

	st.mu.Lock()
	active := st.experiment.Active
	variants := append([]Variant(nil), st.experiment.Variants...)
	st.mu.Unlock()
	if !active {
		metrics.RecordAssignment("none")
		return "", false, nil
	}

	existing, found, err := m.assignments.Get(ctx, userID, experimentID)
	if err != nil {
		return "", false, fmt.Errorf("assign user %s: %w", userID, err)
	}
	if found {
		metrics.RecordAssignment("sticky")
		return existing.VariantID, true, nil
	}

	variantID, ok := pickVariant(variants, assignmentDraw(userID, experimentID))
	if !ok {
		metrics.RecordAssignment("none")
		m.logger.Warn().
			Str("experiment_id", experimentID).
			Str("user_id", userID).
			Err(ErrNoVariantMatched).
			Msg("variant assignment failed")
		return "", false, nil
	}

	now := m.now()
	stored, loaded, err := m.assignments.LoadOrStore(ctx, Assignment{
		UserID:       userID,
		ExperimentID: experimentID,
		VariantID:    variantID,
		AssignedAt:   now,
		SessionID:    sessionID,
	})
	if err != nil {
		return "", false, fmt.Errorf("assign user %s: %w", userID, err)
	}
	if loaded {
		metrics.RecordAssignment("sticky")
		return stored.VariantID, true, nil
	}

	metrics.RecordAssignment("new")
	m.RecordExposure(experimentID, variantID)
	m.publishExposure(ctx, eventbus.NewExposureEvent(experimentID, variantID, userID, sessionID, now))

	m.logger.Debug().
		Str("experiment_id", experimentID).
		Str("variant_id", variantID).
		Str("user_id", userID).
		Msg("user assigned")
	return variantID, true, nil
}

// GenerateRecommendationsForUser assigns the user and serves recommendations
// from the variant's engine. categories initialise the engine on its first
// use only. It returns false when the user cannot be assigned.
func (m *Manager) GenerateRecommendationsForUser(
	ctx context.Context,
	userID, sessionID, experimentID string,
	target *recommend.Question,
	categories []recommend.Category,
) ([]recommend.Result, bool, error) {
	variantID, ok, err := m.AssignUserToVariant(ctx, userID, sessionID, experimentID)
	if err != nil || !ok {
		return nil, false, err
	}

	st, ok := m.get(experimentID)
	if !ok {
		return nil, false, nil
	}
	st.mu.Lock()
	variant, vok := st.experiment.variant(variantID)
	ve := st.engines[variantID]
	st.mu.Unlock()
	if !vok || ve == nil {
		return nil, false, nil
	}

	ve.once.Do(func() {
		ve.err = ve.engine.Initialize(categories)
	})
	if ve.err != nil {
		return nil, false, fmt.Errorf("initialize variant %s engine: %w", variantID, ve.err)
	}

	cfg := variant.Config
	results, err := ve.engine.Recommend(ctx, target, sessionID, &cfg)
	if err != nil {
		return nil, false, fmt.Errorf("recommend for variant %s: %w", variantID, err)
	}

	m.RecordRecommendationView(experimentID, variantID, len(results))
	return results, true, nil
}

// update applies fn to the variant's metrics under the experiment lock.
// Unknown experiments or variants are ignored.
func (m *Manager) update(experimentID, variantID string, fn func(*Metrics)) bool {
	st, ok := m.get(experimentID)
	if !ok {
		return false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	mt, ok := st.metrics[variantID]
	if !ok {
		return false
	}
	fn(mt)
	mt.LastUpdated = m.now()
	return true
}

// RecordExposure counts one user exposed to a variant.
func (m *Manager) RecordExposure(experimentID, variantID string) {
	if m.update(experimentID, variantID, func(mt *Metrics) {
		mt.Exposures++
	}) {
		metrics.RecordExposure(experimentID, variantID)
	}
}

// RecordRecommendationView adds n shown recommendations to a variant.
func (m *Manager) RecordRecommendationView(experimentID, variantID string, n int) {
	m.update(experimentID, variantID, func(mt *Metrics) {
		mt.Views += int64(n)
	})
}

// RecordRecommendationClick counts a click and recomputes the conversion
// rate as clicks over exposures.
func (m *Manager) RecordRecommendationClick(experimentID, variantID string) {
	m.recordClick(context.Background(), experimentID, variantID, "", "")
}

// TrackClick attributes a recommendation click to the user's assigned
// variant. It returns false when the user has no assignment.
func (m *Manager) TrackClick(ctx context.Context, userID, experimentID, questionID string) (bool, error) {
	a, found, err := m.assignments.Get(ctx, userID, experimentID)
	if err != nil {
		return false, fmt.Errorf("track click: %w", err)
	}
	if !found {
		return false, nil
	}
	return m.recordClick(ctx, experimentID, a.VariantID, userID, questionID), nil
}

func (m *Manager) recordClick(ctx context.Context, experimentID, variantID, userID, questionID string) bool {
	ok := m.update(experimentID, variantID, func(mt *Metrics) {
		mt.Clicks++
		mt.ConversionRate = 0
		if mt.Exposures > 0 {
			mt.ConversionRate = float64(mt.Clicks) / float64(mt.Exposures)
		}
	})
	if !ok {
		return false
	}
	metrics.RecordClick(experimentID, variantID)
	m.publishClick(ctx, eventbus.NewClickEvent(experimentID, variantID, userID, questionID, m.now()))
	return true
}

// RecordTimeSpent folds a dwell time in seconds into the variant's mean.
func (m *Manager) RecordTimeSpent(experimentID, variantID string, seconds float64) {
	m.update(experimentID, variantID, func(mt *Metrics) {
		mt.TimeSamples++
		mt.AverageTimeSpent += (seconds - mt.AverageTimeSpent) / float64(mt.TimeSamples)
	})
}

// RecordSatisfaction folds a feedback score into the variant's mean.
func (m *Manager) RecordSatisfaction(experimentID, variantID string, score float64) {
	m.update(experimentID, variantID, func(mt *Metrics) {
		mt.SatisfactionSamples++
		mt.SatisfactionScore += (score - mt.SatisfactionScore) / float64(mt.SatisfactionSamples)
	})
}

// RecordRevenue attributes revenue to a variant.
func (m *Manager) RecordRevenue(experimentID, variantID string, amount float64) {
	m.update(experimentID, variantID, func(mt *Metrics) {
		mt.RevenueAttribution += amount
	})
}

// GetExperimentMetrics returns a copy of every variant's metrics keyed by
// variant ID. Unknown experiments yield an empty map.
func (m *Manager) GetExperimentMetrics(experimentID string) map[string]Metrics {
	out := make(map[string]Metrics)
	st, ok := m.get(experimentID)
	if !ok {
		return out
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, v := range st.experiment.Variants {
		if mt, ok := st.metrics[v.ID]; ok {
			out[v.ID] = *mt
		}
	}
	return out
}

// StopExperiment deactivates an experiment and stamps its end date.
// Existing assignments are kept. Stopping an inactive experiment returns
// ErrExperimentInactive and leaves the end date unchanged.
func (m *Manager) StopExperiment(experimentID string) error {
	st, ok := m.get(experimentID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrExperimentNotFound, experimentID)
	}
	st.mu.Lock()
	if !st.experiment.Active {
		st.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrExperimentInactive, experimentID)
	}
	now := m.now()
	st.experiment.Active = false
	st.experiment.EndDate = &now
	st.mu.Unlock()

	m.logger.Info().Str("experiment_id", experimentID).Msg("experiment stopped")
	return nil
}

// GetUserVariant returns the user's existing assignment without assigning.
func (m *Manager) GetUserVariant(ctx context.Context, userID, experimentID string) (string, bool) {
	a, found, err := m.assignments.Get(ctx, userID, experimentID)
	if err != nil {
		m.logger.Warn().Err(err).Str("experiment_id", experimentID).Msg("assignment lookup failed")
		return "", false
	}
	if !found {
		return "", false
	}
	return a.VariantID, true
}

// Experiment returns a copy of an experiment definition.
func (m *Manager) Experiment(experimentID string) (Experiment, error) {
	st, ok := m.get(experimentID)
	if !ok {
		return Experiment{}, fmt.Errorf("%w: %s", ErrExperimentNotFound, experimentID)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.experiment.clone(), nil
}

// Experiments returns the registered experiment IDs in sorted order.
func (m *Manager) Experiments() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.experiments))
	for id := range m.experiments {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (m *Manager) publishExposure(ctx context.Context, event *eventbus.ExposureEvent) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishExposure(ctx, event); err != nil {
		m.logger.Warn().Err(err).
			Str("experiment_id", event.ExperimentID).
			Str("variant_id", event.VariantID).
			Msg("exposure event not published")
	}
}

func (m *Manager) publishClick(ctx context.Context, event *eventbus.ClickEvent) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishClick(ctx, event); err != nil {
		m.logger.Warn().Err(err).
			Str("experiment_id", event.ExperimentID).
			Str("variant_id", event.VariantID).
			Msg("click event not published")
	}
}
