// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

/*
Package device classifies a client into a capability profile and derives the
recommendation strategy for it.

Detection uses whatever the calling layer knows about the client: the
User-Agent header, the screen width, the Network Information effective type,
the Device Memory value and the battery level. Missing inputs fall back to
per-device defaults, and server-side rendering always yields ServerProfile.

# Strategy Derivation

StrategyFor applies four stages in order:

  - device: sets the baseline (mobile 3 results, tablet 4, desktop 6)
  - connection: 2G-class links cap results at 2 and disable prefetch
  - memory: low memory shrinks the cache and disables background work
  - power: low-power mode or a battery under 20% caps results at 2

Stages after the first only tighten. Strategies are memoised per Profile.

# Usage

	d := device.NewDetector(device.ClientContext{
		UserAgent:   r.UserAgent(),
		ScreenWidth: 390,
	})
	strategy := device.StrategyFor(d.Detect())
*/
package device
