// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

/*
Package cache provides the generic LFU cache behind the optimiser's result
cache.

# Overview

LFU keeps the most frequently requested entries and evicts the least
frequently used one when full, breaking frequency ties by recency. Entries
expire lazily after a TTL. The cache can be resized at runtime, which the
optimiser does whenever the device strategy changes its cache size.

# Usage Example

	results := cache.NewLFU[[]recommend.Result](strategy.CacheSize, 5*time.Minute)
	results.Set(key, recs)
	if recs, ok := results.Get(key); ok {
	    // served from cache
	}
	results.SetCapacity(25)

# Metrics

HitRate reports hits / (hits + misses) in [0, 1]. Stats returns the raw
counters including evictions.

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
