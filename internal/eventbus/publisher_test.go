// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/faqrec/internal/logging"
	"github.com/tomtom215/faqrec/internal/metrics"
)

// failingPublisher rejects every publish.
type failingPublisher struct {
	calls atomic.Int32
}

func (f *failingPublisher) Publish(string, ...*message.Message) error {
	f.calls.Add(1)
	return errors.New("transport down")
}

func (f *failingPublisher) Close() error { return nil }

func receive(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestPublisher_Topics(t *testing.T) {
	t.Parallel()

	p := New(DefaultConfig(), nil)
	defer p.Close()

	if got := p.ExposureTopic(); got != "faqrec.experiment.exposure" {
		t.Errorf("ExposureTopic() = %q, want %q", got, "faqrec.experiment.exposure")
	}
	if got := p.ClickTopic(); got != "faqrec.experiment.click" {
		t.Errorf("ClickTopic() = %q, want %q", got, "faqrec.experiment.click")
	}
}

func TestPublisher_ExposureRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.TopicPrefix = "roundtrip."
	p := New(cfg, nil)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Subscribe(ctx, p.ExposureTopic())
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	correlationID := logging.CorrelationIDFromContext(ctx)
	event := NewExposureEvent("exp-1", "control", "user-1", "sess-1", time.Now())
	if err := p.PublishExposure(ctx, event); err != nil {
		t.Fatalf("PublishExposure() error = %v", err)
	}

	msg := receive(t, ch)
	if msg.UUID != event.EventID {
		t.Errorf("message UUID = %q, want %q", msg.UUID, event.EventID)
	}
	if got := msg.Metadata.Get("correlation_id"); got == "" || got != correlationID {
		t.Errorf("correlation_id = %q, want %q", got, correlationID)
	}

	decoded, err := DecodeExposure(msg.Payload)
	if err != nil {
		t.Fatalf("DecodeExposure() error = %v", err)
	}
	if decoded.ExperimentID != "exp-1" || decoded.VariantID != "control" || decoded.UserID != "user-1" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", decoded.SchemaVersion, SchemaVersion)
	}
}

func TestPublisher_Click(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.TopicPrefix = "clicktest."
	p := New(cfg, nil)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Subscribe(ctx, p.ClickTopic())
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	before := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(p.ClickTopic(), "success"))
	if err := p.PublishClick(ctx, NewClickEvent("exp-2", "treatment", "user-9", "q-7", time.Now())); err != nil {
		t.Fatalf("PublishClick() error = %v", err)
	}

	decoded, err := DecodeClick(receive(t, ch).Payload)
	if err != nil {
		t.Fatalf("DecodeClick() error = %v", err)
	}
	if decoded.QuestionID != "q-7" {
		t.Errorf("QuestionID = %q, want %q", decoded.QuestionID, "q-7")
	}

	after := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(p.ClickTopic(), "success"))
	if after != before+1 {
		t.Errorf("events published = %v, want %v", after, before+1)
	}
}

func TestPublisher_Closed(t *testing.T) {
	t.Parallel()

	p := New(DefaultConfig(), nil)
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	err := p.PublishExposure(context.Background(), NewExposureEvent("e", "v", "u", "", time.Now()))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("PublishExposure() error = %v, want ErrClosed", err)
	}
	if _, err := p.Subscribe(context.Background(), p.ClickTopic()); !errors.Is(err, ErrClosed) {
		t.Errorf("Subscribe() error = %v, want ErrClosed", err)
	}
}

func TestPublisher_BreakerOpens(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.CircuitBreaker.Name = "eventbus-test"
	cfg.CircuitBreaker.FailureThreshold = 3
	cfg.CircuitBreaker.Timeout = time.Hour

	transport := &failingPublisher{}
	p := NewWithTransport(transport, nil, cfg, nil)
	defer p.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := p.PublishClick(ctx, NewClickEvent("e", "v", "u", "q", time.Now())); err == nil {
			t.Fatalf("publish %d: expected transport error", i)
		}
	}

	if got := p.BreakerState(); got != "open" {
		t.Fatalf("BreakerState() = %q, want open", got)
	}

	err := p.PublishClick(ctx, NewClickEvent("e", "v", "u", "q", time.Now()))
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("PublishClick() error = %v, want ErrOpenState", err)
	}
	if got := transport.calls.Load(); got != 3 {
		t.Errorf("transport calls = %d, want 3", got)
	}
	if _, err := p.Subscribe(ctx, "any"); err == nil {
		t.Error("Subscribe() without subscriber should fail")
	}
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"experiment_id":`},
		{"missing variant", `{"experiment_id":"e"}`},
		{"missing experiment", `{"variant_id":"v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeExposure([]byte(tt.data)); err == nil {
				t.Error("DecodeExposure() expected error")
			}
			if _, err := DecodeClick([]byte(tt.data)); err == nil {
				t.Error("DecodeClick() expected error")
			}
		})
	}
}
