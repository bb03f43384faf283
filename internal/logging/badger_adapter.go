// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// BadgerAdapter satisfies badger.Logger so the assignment store logs through
// zerolog instead of badger's own stderr logger.
//
//	opts := badger.DefaultOptions(path).WithLogger(logging.NewBadgerAdapter(logger))
type BadgerAdapter struct {
	logger zerolog.Logger
}

// NewBadgerAdapter wraps a zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerAdapter(logger zerolog.Logger) *BadgerAdapter {
	return &BadgerAdapter{logger: logger.With().Str("component", "badger").Logger()}
}

// Errorf logs at error level.
func (a *BadgerAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Error().Msgf(trimNewline(format), args...)
}

// Warningf logs at warn level.
func (a *BadgerAdapter) Warningf(format string, args ...interface{}) {
	a.logger.Warn().Msgf(trimNewline(format), args...)
}

// Infof logs at debug level. Badger is chatty at info during compaction.
func (a *BadgerAdapter) Infof(format string, args ...interface{}) {
	a.logger.Debug().Msgf(trimNewline(format), args...)
}

// Debugf logs at trace level.
func (a *BadgerAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Trace().Msgf(trimNewline(format), args...)
}

// badger terminates most format strings with a newline.
func trimNewline(format string) string {
	return strings.TrimSuffix(format, "\n")
}
