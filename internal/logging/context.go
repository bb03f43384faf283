// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type (
	// correlationIDKey ties together the calls made for one visitor
	// journey, such as an assignment and the recommendations served for it.
	correlationIDKey struct{}

	// requestIDKey identifies one HTTP request or instrumented call.
	requestIDKey struct{}
)

// GenerateRequestID returns a new UUID v4 string.
func GenerateRequestID() string {
	return uuid.NewString()
}

// ContextWithNewCorrelationID stores a fresh 8-character correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, uuid.NewString()[:8])
}

// CorrelationIDFromContext returns the correlation ID, or "" if none is set.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// ContextWithRequestID stores id as the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// ContextWithNewRequestID stores a freshly generated request ID.
func ContextWithNewRequestID(ctx context.Context) context.Context {
	return ContextWithRequestID(ctx, GenerateRequestID())
}

// RequestIDFromContext returns the request ID, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Ctx returns the global logger tagged with the IDs carried by ctx.
//
//	logging.Ctx(r.Context()).Debug().Int("status", status).Msg("http request")
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		lc = lc.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	logger := lc.Logger()
	return &logger
}
