// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package experiment

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidConfiguration matches every *ConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid experiment configuration")

	ErrExperimentNotFound  = errors.New("experiment not found")
	ErrExperimentInactive  = errors.New("experiment is not active")
	ErrDuplicateExperiment = errors.New("experiment already exists")
	ErrNoVariantMatched    = errors.New("no active variant matched the assignment draw")
)

// ConfigurationError reports why an experiment definition was rejected.
type ConfigurationError struct {
	ExperimentID string
	Reason       string
	Err          error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("experiment %q: %s: %v", e.ExperimentID, e.Reason, e.Err)
	}
	return fmt.Sprintf("experiment %q: %s", e.ExperimentID, e.Reason)
}

// Is matches ErrInvalidConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
