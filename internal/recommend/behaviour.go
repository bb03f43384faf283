// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package recommend

import (
	"strings"
	"sync"
)

// Behaviour is the per-session interaction record used for personalization.
// Sessions carry no cross-session identity.
type Behaviour struct {
	SessionID       string             `json:"sessionId"`
	ViewedQuestions []string           `json:"viewedQuestions"`
	SearchQueries   []string           `json:"searchQueries"`
	TimeSpent       map[string]float64 `json:"timeSpent"`
	ClickThrough    map[string]int     `json:"clickThroughRate"`
	Segment         Segment            `json:"clientSegment"`
	EntryPoint      EntryPoint         `json:"entryPoint"`

	// Revision increments on every mutation. Cached results keyed on it
	// are invalidated by any new view, query or click.
	Revision uint64 `json:"revision"`
}

// Viewed reports whether the session has viewed questionID.
func (b *Behaviour) Viewed(questionID string) bool {
	for _, id := range b.ViewedQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

func (b *Behaviour) clone() Behaviour {
	cp := *b
	cp.ViewedQuestions = append([]string(nil), b.ViewedQuestions...)
	cp.SearchQueries = append([]string(nil), b.SearchQueries...)
	cp.TimeSpent = make(map[string]float64, len(b.TimeSpent))
	for k, v := range b.TimeSpent {
		cp.TimeSpent[k] = v
	}
	cp.ClickThrough = make(map[string]int, len(b.ClickThrough))
	for k, v := range b.ClickThrough {
		cp.ClickThrough[k] = v
	}
	return cp
}

// BehaviourStore persists session behaviour. Mutations against an unknown
// session are ignored. Implementations must be safe for concurrent use.
type BehaviourStore interface {
	// Init creates (or resets) a session record.
	Init(sessionID string, segment Segment, entry EntryPoint)

	// RecordView appends a viewed question and stores its dwell time in seconds.
	RecordView(sessionID, questionID string, seconds float64)

	// RecordQuery appends a lower-cased search query.
	RecordQuery(sessionID, query string)

	// RecordClick increments the click-through count for a recommended question.
	RecordClick(sessionID, questionID string)

	// Get returns a snapshot of the session record.
	Get(sessionID string) (Behaviour, bool)

	// End discards the session record.
	End(sessionID string)
}

// MemoryBehaviourStore keeps session records in process memory.
// Readers receive deep copies; writers replace records under the lock.
type MemoryBehaviourStore struct {
	mu       sync.RWMutex
	sessions map[string]*Behaviour
}

// NewMemoryBehaviourStore creates an empty in-memory store.
func NewMemoryBehaviourStore() *MemoryBehaviourStore {
	return &MemoryBehaviourStore{
		sessions: make(map[string]*Behaviour),
	}
}

// Init implements BehaviourStore.
func (s *MemoryBehaviourStore) Init(sessionID string, segment Segment, entry EntryPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = &Behaviour{
		SessionID:       sessionID,
		ViewedQuestions: []string{},
		SearchQueries:   []string{},
		TimeSpent:       make(map[string]float64),
		ClickThrough:    make(map[string]int),
		Segment:         segment,
		EntryPoint:      entry,
	}
}

// RecordView implements BehaviourStore.
func (s *MemoryBehaviourStore) RecordView(sessionID, questionID string, seconds float64) {
	s.update(sessionID, func(b *Behaviour) {
		b.ViewedQuestions = append(b.ViewedQuestions, questionID)
		b.TimeSpent[questionID] = seconds
	})
}

// RecordQuery implements BehaviourStore.
func (s *MemoryBehaviourStore) RecordQuery(sessionID, query string) {
	s.update(sessionID, func(b *Behaviour) {
		b.SearchQueries = append(b.SearchQueries, strings.ToLower(query))
	})
}

// RecordClick implements BehaviourStore.
func (s *MemoryBehaviourStore) RecordClick(sessionID, questionID string) {
	s.update(sessionID, func(b *Behaviour) {
		b.ClickThrough[questionID]++
	})
}

// Get implements BehaviourStore.
func (s *MemoryBehaviourStore) Get(sessionID string) (Behaviour, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.sessions[sessionID]
	if !ok {
		return Behaviour{}, false
	}
	return b.clone(), true
}

// End implements BehaviourStore.
func (s *MemoryBehaviourStore) End(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of live sessions.
func (s *MemoryBehaviourStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryBehaviourStore) update(sessionID string, fn func(*Behaviour)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	fn(b)
	b.Revision++
}
