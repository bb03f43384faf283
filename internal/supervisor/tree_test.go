// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/faqrec/internal/logging"
)

// mockService runs until cancelled, failing the first failures starts.
type mockService struct {
	name     string
	failures int32
	starts   atomic.Int32
	started  chan struct{}
}

func newMockService(name string, failures int32) *mockService {
	return &mockService{name: name, failures: failures, started: make(chan struct{}, 16)}
}

func (m *mockService) Serve(ctx context.Context) error {
	n := m.starts.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}
	if n <= m.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }

func waitStarts(t *testing.T, svc *mockService, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for int(svc.starts.Load()) < n {
		select {
		case <-svc.started:
		case <-deadline:
			t.Fatalf("%s started %d times, want %d", svc.name, svc.starts.Load(), n)
		}
	}
}

func testLogger() *slog.Logger {
	return slog.New(logging.NewSlogHandlerWithLogger(zerolog.Nop()))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(testLogger(), TreeConfig{})

	if tree.Root() == nil {
		t.Fatal("root supervisor should not be nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}

	custom := NewSupervisorTree(testLogger(), TreeConfig{FailureThreshold: 2, ShutdownTimeout: time.Second})
	if custom.config.FailureThreshold != 2 || custom.config.ShutdownTimeout != time.Second {
		t.Errorf("explicit values should be kept, got %+v", custom.config)
	}
	if custom.config.FailureDecay != 30 {
		t.Errorf("FailureDecay = %v, want default 30", custom.config.FailureDecay)
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})

	engineSvc := newMockService("corpus-reload", 0)
	eventSvc := newMockService("event-log", 0)
	apiSvc := newMockService("metrics-http", 0)
	tree.AddEngineService(engineSvc)
	tree.AddEventService(eventSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	for _, svc := range []*mockService{engineSvc, eventSvc, apiSvc} {
		waitStarts(t, svc, 1)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("ServeBackground() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services = %v, want none", report)
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := newMockService("event-log", 2)
	stable := newMockService("metrics-http", 0)
	tree.AddEventService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	waitStarts(t, failing, 3)
	waitStarts(t, stable, 1)

	if stable.starts.Load() != 1 {
		t.Errorf("stable service restarted: starts = %d, want 1", stable.starts.Load())
	}
}

func TestSupervisorTree_DoNotRestart(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(testLogger(), TreeConfig{FailureBackoff: 10 * time.Millisecond, ShutdownTimeout: time.Second})

	var starts atomic.Int32
	tree.AddEngineService(serviceFunc(func(context.Context) error {
		starts.Add(1)
		return suture.ErrDoNotRestart
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	<-tree.ServeBackground(ctx)

	if starts.Load() != 1 {
		t.Errorf("starts = %d, want 1", starts.Load())
	}
}

type serviceFunc func(context.Context) error

func (f serviceFunc) Serve(ctx context.Context) error { return f(ctx) }
