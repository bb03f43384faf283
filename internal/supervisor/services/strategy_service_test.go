// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/faqrec/internal/device"
)

type mockRefresher struct {
	calls atomic.Int32
}

func (m *mockRefresher) Redetect() device.Strategy {
	m.calls.Add(1)
	return device.Strategy{MaxRecommendations: 3, SimilarityThreshold: 0.2, CacheSize: 50}
}

func TestStrategyRefreshService_Serve(t *testing.T) {
	t.Parallel()

	refresher := &mockRefresher{}
	svc := NewStrategyRefreshService(refresher, 5*time.Millisecond, zerolog.Nop())
	if svc.String() != "strategy-refresh" {
		t.Errorf("String() = %q, want strategy-refresh", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for refresher.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if refresher.calls.Load() < 2 {
		t.Fatalf("Redetect calls = %d, want at least 2", refresher.calls.Load())
	}
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestStrategyRefreshService_NonPositiveInterval(t *testing.T) {
	t.Parallel()

	for _, interval := range []time.Duration{0, -time.Second} {
		refresher := &mockRefresher{}
		svc := NewStrategyRefreshService(refresher, interval, zerolog.Nop())
		if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
			t.Errorf("Serve() with interval %v error = %v, want suture.ErrDoNotRestart", interval, err)
		}
		if refresher.calls.Load() != 0 {
			t.Errorf("Redetect called %d times for interval %v", refresher.calls.Load(), interval)
		}
	}
}
