// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package optimizer

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/faqrec/internal/logging"
	"github.com/tomtom215/faqrec/internal/metrics"
	"github.com/tomtom215/faqrec/internal/recommend"
)

// Prefetch outcomes reported to metrics.
const (
	prefetchSuccess = "success"
	prefetchError   = "error"
	prefetchSkipped = "skipped"
)

// Prefetch warms the result cache for questions the visitor is likely to
// open next. It returns at once; the returned channel closes when every
// attempt has finished.
//
// Nothing happens when the strategy disables prefetching or the device is
// in low-power mode. Otherwise, after PrefetchDelay, up to PrefetchLimit
// questions are computed concurrently with at most PrefetchLimit results
// each. Duplicate in-flight keys share one computation. Failures are logged
// and counted, never returned, and trip only the prefetch breaker. Work already started ignores cancellation of
// ctx.
func (o *Optimizer) Prefetch(ctx context.Context, engine Recommender, questions []*recommend.Question, sessionID string) <-chan struct{} {
	done := make(chan struct{})

	strategy, profile := o.snapshot()
	if !strategy.PrefetchEnabled || profile.LowPowerMode || len(questions) == 0 {
		metrics.RecordPrefetch(prefetchSkipped)
		o.logger.Debug().
			Bool("prefetch_enabled", strategy.PrefetchEnabled).
			Bool("low_power", profile.LowPowerMode).
			Int("questions", len(questions)).
			Msg("prefetch skipped")
		close(done)
		return done
	}

	if len(questions) > o.cfg.PrefetchLimit {
		questions = questions[:o.cfg.PrefetchLimit]
	}

	cfg := requestConfig(engine, strategy, profile)
	cfg.MaxRecommendations = min(strategy.MaxRecommendations, o.cfg.PrefetchLimit)

	ctx = context.WithoutCancel(ctx)
	if logging.RequestIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewRequestID(ctx)
	}
	logger := o.logger.With().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("session_id", sessionID).
		Logger()

	go func() {
		defer close(done)

		if o.cfg.PrefetchDelay > 0 {
			timer := time.NewTimer(o.cfg.PrefetchDelay)
			<-timer.C
		}

		var g errgroup.Group
		for _, q := range questions {
			if q == nil {
				continue
			}
			g.Go(func() error {
				key := cacheKey(engine, q, sessionID, &cfg)
				if o.results.Contains(key) {
					metrics.RecordPrefetch(prefetchSuccess)
					return nil
				}

				_, err, shared := o.inflight.Do(key, func() (interface{}, error) {
					start := time.Now()
					results, err := o.call(ctx, o.prefetchBreaker, engine, q, sessionID, &cfg)
					if err != nil {
						return nil, err
					}
					o.results.Set(key, results)
					metrics.RecordRecommendation(metrics.PathPrefetch, time.Since(start), reasons(results))
					return results, nil
				})
				if err != nil {
					metrics.RecordPrefetch(prefetchError)
					logger.Warn().Err(err).Str("question_id", q.ID).Msg("prefetch failed")
					return nil
				}

				metrics.RecordPrefetch(prefetchSuccess)
				logger.Debug().Str("question_id", q.ID).Bool("shared", shared).Msg("prefetched recommendations")
				return nil
			})
		}
		_ = g.Wait()
	}()

	return done
}
