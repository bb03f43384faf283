// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package eventbus

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SchemaVersion is the current event schema version.
const SchemaVersion = 1

// Topic suffixes, appended to Config.TopicPrefix.
const (
	exposureSuffix = "experiment.exposure"
	clickSuffix    = "experiment.click"
)

// ExposureEvent is published when a user is first assigned to a variant.
type ExposureEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	ExperimentID  string    `json:"experiment_id"`
	VariantID     string    `json:"variant_id"`
	UserID        string    `json:"user_id"`
	SessionID     string    `json:"session_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewExposureEvent creates an exposure event with a fresh event ID.
func NewExposureEvent(experimentID, variantID, userID, sessionID string, at time.Time) *ExposureEvent {
	return &ExposureEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		ExperimentID:  experimentID,
		VariantID:     variantID,
		UserID:        userID,
		SessionID:     sessionID,
		Timestamp:     at.UTC(),
	}
}

// ClickEvent is published when a recommendation click is attributed to a variant.
type ClickEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	ExperimentID  string    `json:"experiment_id"`
	VariantID     string    `json:"variant_id"`
	UserID        string    `json:"user_id,omitempty"`
	QuestionID    string    `json:"question_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewClickEvent creates a click event with a fresh event ID.
func NewClickEvent(experimentID, variantID, userID, questionID string, at time.Time) *ClickEvent {
	return &ClickEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		ExperimentID:  experimentID,
		VariantID:     variantID,
		UserID:        userID,
		QuestionID:    questionID,
		Timestamp:     at.UTC(),
	}
}

// DecodeExposure parses an exposure event payload.
func DecodeExposure(data []byte) (*ExposureEvent, error) {
	var event ExposureEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode exposure event: %w", err)
	}
	if event.ExperimentID == "" || event.VariantID == "" {
		return nil, fmt.Errorf("decode exposure event: missing experiment or variant id")
	}
	return &event, nil
}

// DecodeClick parses a click event payload.
func DecodeClick(data []byte) (*ClickEvent, error) {
	var event ClickEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode click event: %w", err)
	}
	if event.ExperimentID == "" || event.VariantID == "" {
		return nil, fmt.Errorf("decode click event: missing experiment or variant id")
	}
	return &event, nil
}
