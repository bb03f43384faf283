// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package services

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/faqrec/internal/eventbus"
)

// EventSubscriber is satisfied by *eventbus.Publisher.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	ExposureTopic() string
	ClickTopic() string
}

// EventLogService consumes experiment exposure and click events and writes
// them to the structured log.
type EventLogService struct {
	bus    EventSubscriber
	logger zerolog.Logger
	name   string
}

// NewEventLogService creates a new event log service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventLogService(bus EventSubscriber, logger zerolog.Logger) *EventLogService {
	return &EventLogService{
		bus:    bus,
		logger: logger.With().Str("service", "event-log").Logger(),
		name:   "event-log",
	}
}

// Serve implements the suture.Service interface. Subscriptions end with ctx.
func (s *EventLogService) Serve(ctx context.Context) error {
	exposures, err := s.bus.Subscribe(ctx, s.bus.ExposureTopic())
	if err != nil {
		return fmt.Errorf("subscribe exposures: %w", err)
	}
	clicks, err := s.bus.Subscribe(ctx, s.bus.ClickTopic())
	if err != nil {
		return fmt.Errorf("subscribe clicks: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-exposures:
			if !ok {
				return s.closed(ctx, "exposure")
			}
			s.logExposure(msg)

		case msg, ok := <-clicks:
			if !ok {
				return s.closed(ctx, "click")
			}
			s.logClick(msg)
		}
	}
}

// closed reports a subscription that ended; during shutdown that is expected.
func (s *EventLogService) closed(ctx context.Context, kind string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%s subscription closed", kind)
}

func (s *EventLogService) logExposure(msg *message.Message) {
	defer msg.Ack()

	event, err := eventbus.DecodeExposure(msg.Payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed exposure event")
		return
	}
	s.logger.Info().
		Str("event_id", event.EventID).
		Str("experiment_id", event.ExperimentID).
		Str("variant_id", event.VariantID).
		Str("user_id", event.UserID).
		Str("correlation_id", msg.Metadata.Get("correlation_id")).
		Time("at", event.Timestamp).
		Msg("experiment exposure")
}

func (s *EventLogService) logClick(msg *message.Message) {
	defer msg.Ack()

	event, err := eventbus.DecodeClick(msg.Payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed click event")
		return
	}
	s.logger.Info().
		Str("event_id", event.EventID).
		Str("experiment_id", event.ExperimentID).
		Str("variant_id", event.VariantID).
		Str("question_id", event.QuestionID).
		Time("at", event.Timestamp).
		Msg("experiment click")
}

// String returns the service name for logging.
func (s *EventLogService) String() string {
	return s.name
}
