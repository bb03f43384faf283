// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package eventbus publishes experiment exposure and click events.
//
// Events are JSON payloads carried by Watermill messages. The default
// transport is the in-process gochannel pub/sub, which lets the host
// attach consumers (see the supervisor's event log service) without a
// broker. Every publish runs through a gobreaker circuit breaker so a
// failing transport cannot slow down variant assignment.
//
// Topics:
//
//   - <prefix>experiment.exposure: ExposureEvent, one per new assignment
//   - <prefix>experiment.click: ClickEvent, one per attributed click
//
// The default prefix is "faqrec.".
package eventbus
