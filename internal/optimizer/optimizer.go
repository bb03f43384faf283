// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package optimizer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/faqrec/internal/cache"
	"github.com/tomtom215/faqrec/internal/device"
	"github.com/tomtom215/faqrec/internal/logging"
	"github.com/tomtom215/faqrec/internal/metrics"
	"github.com/tomtom215/faqrec/internal/recommend"
)

// ErrEnginePanic wraps a panic recovered from the engine call.
var ErrEnginePanic = errors.New("recommendation engine panicked")

// Degradation causes reported to metrics.
const (
	causeError       = "error"
	causePanic       = "panic"
	causeBreakerOpen = "breaker_open"
)

// Bounds applied by tune.
const (
	tuneMinRecommendations = 2
	tuneThresholdStep      = 0.05
	tuneThresholdCap       = 0.3
)

// Recommender is the engine surface the optimiser drives.
// *recommend.Engine satisfies it.
type Recommender interface {
	Config() recommend.Config
	Generation() uint64
	Behaviour(sessionID string) (recommend.Behaviour, bool)
	Recommend(ctx context.Context, target *recommend.Question, sessionID string, cfg *recommend.Config) ([]recommend.Result, error)
}

// HeapSampler returns the current heap allocation in bytes.
type HeapSampler func() uint64

func readHeapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithClock replaces the time source used for timing, sample windows and
// the tuning limiter.
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) {
		o.now = now
	}
}

// WithHeapSampler replaces the heap sampler used for MemoryUsage.
func WithHeapSampler(sampler HeapSampler) Option {
	return func(o *Optimizer) {
		o.heap = sampler
	}
}

// WithBreakerSettings replaces the engine circuit breaker settings. The
// prefetch breaker gets a copy named with a "-prefetch" suffix.
func WithBreakerSettings(settings gobreaker.Settings) Option {
	return func(o *Optimizer) {
		o.breakerSettings = &settings
	}
}

// WithResultCache replaces the result cache. Its capacity is reset to the
// strategy's cache size.
func WithResultCache(c *cache.LFU[[]recommend.Result]) Option {
	return func(o *Optimizer) {
		o.results = c
	}
}

// Optimizer adapts recommendation calls to the detected device profile,
// caches their results and tightens the strategy when calls are slow.
type Optimizer struct {
	detector *device.Detector
	cfg      Config
	logger   zerolog.Logger
	now      func() time.Time
	heap     HeapSampler

	breakerSettings *gobreaker.Settings
	breaker         *gobreaker.CircuitBreaker[[]recommend.Result]
	prefetchBreaker *gobreaker.CircuitBreaker[[]recommend.Result]
	results         *cache.LFU[[]recommend.Result]
	limiter         *rate.Limiter
	inflight        singleflight.Group

	mu       sync.Mutex
	profile  device.Profile
	strategy device.Strategy
	history  []PerformanceMetrics
}

// New creates an optimiser for the detector's client. A nil detector
// selects the server-side profile.
func New(detector *device.Detector, cfg Config, logger zerolog.Logger, opts ...Option) *Optimizer {
	if detector == nil {
		detector = device.NewDetector(device.ClientContext{ServerSide: true})
	}

	o := &Optimizer{
		detector: detector,
		cfg:      cfg.withDefaults(),
		logger:   logger.With().Str("component", "optimizer").Logger(),
		now:      time.Now,
		heap:     readHeapAlloc,
	}
	for _, opt := range opts {
		opt(o)
	}

	o.profile = detector.Detect()
	o.strategy = device.StrategyFor(o.profile)

	if o.results == nil {
		o.results = cache.NewLFU[[]recommend.Result](o.strategy.CacheSize, cache.DefaultTTL)
	}
	o.results.SetCapacity(o.strategy.CacheSize)

	if o.breakerSettings == nil {
		o.breakerSettings = o.defaultBreakerSettings()
	}
	o.breaker = gobreaker.NewCircuitBreaker[[]recommend.Result](*o.breakerSettings)
	prefetchSettings := *o.breakerSettings
	prefetchSettings.Name += "-prefetch"
	o.prefetchBreaker = gobreaker.NewCircuitBreaker[[]recommend.Result](prefetchSettings)

	o.limiter = rate.NewLimiter(rate.Every(o.cfg.TuneInterval), 1)

	return o
}

func (o *Optimizer) defaultBreakerSettings() *gobreaker.Settings {
	failures := o.cfg.BreakerFailures
	return &gobreaker.Settings{
		Name:        "optimizer",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     o.cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about engine health.
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	}
}

// Optimize runs one recommendation call under the current strategy.
// It never returns an error: engine failures, panics and an open breaker
// yield an empty list with BatteryImpact high and CacheHitRate 0.
func (o *Optimizer) Optimize(ctx context.Context, engine Recommender, target *recommend.Question, sessionID string) ([]recommend.Result, PerformanceMetrics) {
	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
		ctx = logging.ContextWithRequestID(ctx, requestID)
	}
	logger := o.logger.With().Str("request_id", requestID).Str("session_id", sessionID).Logger()

	strategy, profile := o.snapshot()
	cfg := requestConfig(engine, strategy, profile)
	key := cacheKey(engine, target, sessionID, &cfg)

	start := o.now()
	heapBefore := o.heap()

	results, hit := o.results.Get(key)
	metrics.RecordCacheLookup(hit)

	var err error
	if !hit {
		results, err = o.call(ctx, o.breaker, engine, target, sessionID, &cfg)
		if err == nil {
			o.results.Set(key, results)
		}
	}

	elapsed := o.now().Sub(start)
	pm := PerformanceMetrics{
		RecommendationTime: elapsed,
		CacheHitRate:       o.results.HitRate(),
		MemoryUsage:        heapDeltaMB(heapBefore, o.heap()),
		NetworkRequests:    0,
		BatteryImpact:      estimateBatteryImpact(elapsed),
		CPUTime:            elapsed,
		Timestamp:          start,
		RequestID:          requestID,
	}

	if err != nil {
		cause := degradationCause(err)
		metrics.RecordDegraded(cause)
		logger.Warn().Err(err).Str("cause", cause).Dur("elapsed", elapsed).Msg("optimized recommendation degraded")

		pm.CacheHitRate = 0
		pm.MemoryUsage = 0
		pm.BatteryImpact = BatteryImpactHigh
		return []recommend.Result{}, pm
	}

	metrics.RecordRecommendation(metrics.PathOptimized, elapsed, reasons(results))
	logger.Debug().
		Bool("cache_hit", hit).
		Int("results", len(results)).
		Dur("elapsed", elapsed).
		Msg("optimized recommendation")

	o.record(pm)
	if elapsed > o.cfg.SlowCallThreshold {
		o.tune()
	}

	return append([]recommend.Result(nil), results...), pm
}

// call runs the engine inside cb, converting panics into errors.
func (o *Optimizer) call(ctx context.Context, cb *gobreaker.CircuitBreaker[[]recommend.Result], engine Recommender, target *recommend.Question, sessionID string, cfg *recommend.Config) ([]recommend.Result, error) {
	return cb.Execute(func() (results []recommend.Result, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrEnginePanic, r)
			}
		}()
		return engine.Recommend(ctx, target, sessionID, cfg)
	})
}

// record appends a sample, dropping the oldest beyond HistoryLimit.
func (o *Optimizer) record(pm PerformanceMetrics) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.history = append(o.history, pm)
	if over := len(o.history) - o.cfg.HistoryLimit; over > 0 {
		o.history = append(o.history[:0:0], o.history[over:]...)
	}
}

// tune tightens the strategy when recent calls average above
// DegradedAverage. The limiter token is spent before the sample check, so
// an attempt with too few samples still counts against the interval.
// It reports whether the strategy changed.
func (o *Optimizer) tune() bool {
	now := o.now()
	if !o.limiter.AllowN(now, 1) {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	recent := make([]PerformanceMetrics, 0, o.cfg.TuneSamples)
	for _, pm := range o.history {
		if now.Sub(pm.Timestamp) < o.cfg.TuneWindow {
			recent = append(recent, pm)
		}
	}
	if len(recent) > o.cfg.TuneSamples {
		recent = recent[len(recent)-o.cfg.TuneSamples:]
	}
	if len(recent) < o.cfg.MinTuneSamples {
		return false
	}

	var total time.Duration
	for _, pm := range recent {
		total += pm.RecommendationTime
	}
	avg := total / time.Duration(len(recent))
	if avg <= o.cfg.DegradedAverage {
		return false
	}

	before := o.strategy
	o.strategy.MaxRecommendations = max(o.strategy.MaxRecommendations-1, tuneMinRecommendations)
	o.strategy.SimilarityThreshold = min(o.strategy.SimilarityThreshold+tuneThresholdStep, tuneThresholdCap)
	o.strategy.BackgroundProcessing = false

	metrics.RecordStrategyAdjustment()
	o.logger.Info().
		Dur("average", avg).
		Int("samples", len(recent)).
		Int("max_recommendations", o.strategy.MaxRecommendations).
		Float64("similarity_threshold", o.strategy.SimilarityThreshold).
		Int("previous_max_recommendations", before.MaxRecommendations).
		Msg("optimization strategy adjusted for better performance")
	return true
}

// Strategy returns the current strategy.
func (o *Optimizer) Strategy() device.Strategy {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.strategy
}

// Profile returns the device profile the strategy was derived from.
func (o *Optimizer) Profile() device.Profile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profile
}

// RefreshOptimization re-detects the client and recomputes the strategy,
// discarding any tuning adjustments. The result cache is resized to the
// new strategy's cache size.
func (o *Optimizer) RefreshOptimization(cc device.ClientContext) device.Strategy {
	return o.apply(o.detector.Refresh(cc))
}

// Redetect is RefreshOptimization with the detector's current client
// context.
func (o *Optimizer) Redetect() device.Strategy {
	return o.apply(o.detector.Redetect())
}

func (o *Optimizer) apply(profile device.Profile) device.Strategy {
	strategy := device.StrategyFor(profile)

	o.mu.Lock()
	changed := o.strategy != strategy || o.profile != profile
	o.profile = profile
	o.strategy = strategy
	o.mu.Unlock()

	o.results.SetCapacity(strategy.CacheSize)

	if changed {
		o.logger.Info().
			Str("device_type", string(profile.DeviceType)).
			Str("connection_type", string(profile.ConnectionType)).
			Bool("low_power", profile.LowPowerMode).
			Int("max_recommendations", strategy.MaxRecommendations).
			Int("cache_size", strategy.CacheSize).
			Msg("optimization strategy refreshed")
	}
	return strategy
}

// BreakerState returns the state of the breaker guarding Optimize.
func (o *Optimizer) BreakerState() gobreaker.State {
	return o.breaker.State()
}

// PrefetchBreakerState returns the state of the breaker guarding Prefetch.
func (o *Optimizer) PrefetchBreakerState() gobreaker.State {
	return o.prefetchBreaker.State()
}

func (o *Optimizer) snapshot() (device.Strategy, device.Profile) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.strategy, o.profile
}

// requestConfig overlays the strategy on the engine defaults.
func requestConfig(engine Recommender, strategy device.Strategy, profile device.Profile) recommend.Config {
	cfg := engine.Config()
	cfg.MaxRecommendations = strategy.MaxRecommendations
	cfg.SimilarityThreshold = strategy.SimilarityThreshold
	cfg.EnablePersonalization = !profile.LowPowerMode
	cfg.EnableABTesting = strategy.BackgroundProcessing
	return cfg
}

// cacheKey identifies a result by corpus generation, target, session,
// behaviour revision and the config fields the strategy varies. A corpus
// reload or any new view, query or click changes the key and so misses the
// cache.
func cacheKey(engine Recommender, target *recommend.Question, sessionID string, cfg *recommend.Config) string {
	targetID := ""
	if target != nil {
		targetID = target.ID
	}
	var revision uint64
	if b, ok := engine.Behaviour(sessionID); ok {
		revision = b.Revision
	}
	return fmt.Sprintf("%d|%s|%s|%d|%d|%.4f|%t",
		engine.Generation(), targetID, sessionID, revision, cfg.MaxRecommendations, cfg.SimilarityThreshold, cfg.EnablePersonalization)
}

func degradationCause(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return causeBreakerOpen
	case errors.Is(err, ErrEnginePanic):
		return causePanic
	default:
		return causeError
	}
}

func heapDeltaMB(before, after uint64) float64 {
	return (float64(after) - float64(before)) / 1024 / 1024
}

func reasons(results []recommend.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Reason.String()
	}
	return out
}
