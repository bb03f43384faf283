// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package cache

import (
	"sync"
	"time"
)

// Defaults applied by NewLFU for non-positive arguments.
const (
	DefaultCapacity = 100
	DefaultTTL      = 5 * time.Minute
)

// lfuEntry is one cached value linked into its frequency list.
type lfuEntry[V any] struct {
	key       string
	value     V
	freq      int
	expiresAt time.Time
	prev      *lfuEntry[V]
	next      *lfuEntry[V]
}

// freqList is a doubly-linked list of entries sharing a frequency.
// The front holds the most recently touched entry.
type freqList[V any] struct {
	head *lfuEntry[V]
	tail *lfuEntry[V]
	size int
}

func newFreqList[V any]() *freqList[V] {
	fl := &freqList[V]{
		head: &lfuEntry[V]{},
		tail: &lfuEntry[V]{},
	}
	fl.head.next = fl.tail
	fl.tail.prev = fl.head
	return fl
}

func (fl *freqList[V]) addToFront(entry *lfuEntry[V]) {
	entry.prev = fl.head
	entry.next = fl.head.next
	fl.head.next.prev = entry
	fl.head.next = entry
	fl.size++
}

func (fl *freqList[V]) remove(entry *lfuEntry[V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	entry.prev = nil
	entry.next = nil
	fl.size--
}

// removeLast removes the least recently touched entry.
func (fl *freqList[V]) removeLast() *lfuEntry[V] {
	if fl.size == 0 {
		return nil
	}
	entry := fl.tail.prev
	fl.remove(entry)
	return entry
}

// LFU is a thread-safe Least Frequently Used cache with O(1) Get and Set.
// Ties on frequency evict the least recently touched entry. Entries expire
// lazily after the TTL.
//
// The structure is a key map over per-frequency linked lists, with minFreq
// tracking the list to evict from.
type LFU[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time

	keyMap  map[string]*lfuEntry[V]
	freqMap map[int]*freqList[V]
	minFreq int

	hits      int64
	misses    int64
	evictions int64
}

// NewLFU creates an LFU cache. Non-positive arguments select DefaultCapacity
// and DefaultTTL.
func NewLFU[V any](capacity int, ttl time.Duration) *LFU[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LFU[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		keyMap:   make(map[string]*lfuEntry[V], capacity),
		freqMap:  make(map[int]*freqList[V]),
	}
}

// SetClock replaces the time source used for expiry.
func (c *LFU[V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the value for key and bumps its frequency.
// Expired entries are removed and count as misses.
func (c *LFU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.keyMap[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.now().After(entry.expiresAt) {
		c.removeEntry(entry)
		c.misses++
		return zero, false
	}

	c.incrementFreq(entry)
	c.hits++
	return entry.value, true
}

// Set stores value under key with the default TTL.
func (c *LFU[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key, evicting the least frequently used
// entry when the cache is full. Updating an existing key bumps its frequency.
func (c *LFU[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)

	if entry, ok := c.keyMap[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		c.incrementFreq(entry)
		return
	}

	if len(c.keyMap) >= c.capacity {
		c.evict()
	}

	entry := &lfuEntry[V]{
		key:       key,
		value:     value,
		freq:      1,
		expiresAt: expiresAt,
	}
	c.list(1).addToFront(entry)
	c.keyMap[key] = entry
	c.minFreq = 1
}

// Delete removes key. It reports whether the key was present.
func (c *LFU[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.keyMap[key]
	if ok {
		c.removeEntry(entry)
	}
	return ok
}

// Contains reports whether key holds an unexpired value without touching
// its frequency.
func (c *LFU[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.keyMap[key]
	return ok && !c.now().After(entry.expiresAt)
}

// Frequency returns the access count of key, or 0 when absent.
func (c *LFU[V]) Frequency(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.keyMap[key]; ok {
		return entry.freq
	}
	return 0
}

// Len returns the number of stored entries, expired or not.
func (c *LFU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keyMap)
}

// Capacity returns the current capacity.
func (c *LFU[V]) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity
}

// SetCapacity resizes the cache, evicting entries until it fits.
// Non-positive values are ignored.
func (c *LFU[V]) SetCapacity(capacity int) {
	if capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.capacity = capacity
	for len(c.keyMap) > c.capacity {
		c.evict()
	}
}

// Clear drops every entry. Hit and miss counters are kept.
func (c *LFU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.keyMap = make(map[string]*lfuEntry[V], c.capacity)
	c.freqMap = make(map[int]*freqList[V])
	c.minFreq = 0
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	Capacity  int   `json:"capacity"`
}

// Stats returns the cache counters.
func (c *LFU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.keyMap),
		Capacity:  c.capacity,
	}
}

// HitRate returns hits / (hits + misses) in [0, 1], or 0 before any lookup.
func (c *LFU[V]) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// CleanupExpired removes every expired entry and returns how many.
func (c *LFU[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for _, entry := range c.keyMap {
		if now.After(entry.expiresAt) {
			c.removeEntry(entry)
			removed++
		}
	}
	return removed
}

// Internal methods; callers hold c.mu.

func (c *LFU[V]) list(freq int) *freqList[V] {
	fl, ok := c.freqMap[freq]
	if !ok {
		fl = newFreqList[V]()
		c.freqMap[freq] = fl
	}
	return fl
}

func (c *LFU[V]) incrementFreq(entry *lfuEntry[V]) {
	old := entry.freq
	if fl, ok := c.freqMap[old]; ok {
		fl.remove(entry)
		if fl.size == 0 {
			delete(c.freqMap, old)
			if c.minFreq == old {
				c.minFreq++
			}
		}
	}
	entry.freq++
	c.list(entry.freq).addToFront(entry)
}

func (c *LFU[V]) evict() {
	fl, ok := c.freqMap[c.minFreq]
	if !ok || fl.size == 0 {
		// minFreq is stale after a Delete or expiry; rescan.
		c.minFreq = 0
		for freq, l := range c.freqMap {
			if l.size > 0 && (c.minFreq == 0 || freq < c.minFreq) {
				c.minFreq = freq
			}
		}
		if fl, ok = c.freqMap[c.minFreq]; !ok {
			return
		}
	}

	if entry := fl.removeLast(); entry != nil {
		delete(c.keyMap, entry.key)
		c.evictions++
	}
	if fl.size == 0 {
		delete(c.freqMap, c.minFreq)
	}
}

func (c *LFU[V]) removeEntry(entry *lfuEntry[V]) {
	if fl, ok := c.freqMap[entry.freq]; ok {
		fl.remove(entry)
		if fl.size == 0 {
			delete(c.freqMap, entry.freq)
		}
	}
	delete(c.keyMap, entry.key)
}
