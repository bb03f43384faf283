// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package experiment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// AssignmentStore persists sticky assignments keyed by (user, experiment).
type AssignmentStore interface {
	// Get returns the assignment for (userID, experimentID) if one exists.
	Get(ctx context.Context, userID, experimentID string) (Assignment, bool, error)

	// LoadOrStore stores a unless an assignment for the same key exists.
	// It returns the stored assignment and whether it was already present.
	LoadOrStore(ctx context.Context, a Assignment) (Assignment, bool, error)
}

type assignmentKey struct {
	user       string
	experiment string
}

// MemoryAssignmentStore keeps assignments in process memory.
type MemoryAssignmentStore struct {
	assignments sync.Map // assignmentKey -> Assignment
}

// NewMemoryAssignmentStore creates an empty in-memory store.
func NewMemoryAssignmentStore() *MemoryAssignmentStore {
	return &MemoryAssignmentStore{}
}

// Get implements AssignmentStore.
func (s *MemoryAssignmentStore) Get(_ context.Context, userID, experimentID string) (Assignment, bool, error) {
	v, ok := s.assignments.Load(assignmentKey{user: userID, experiment: experimentID})
	if !ok {
		return Assignment{}, false, nil
	}
	return v.(Assignment), true, nil
}

// LoadOrStore implements AssignmentStore.
func (s *MemoryAssignmentStore) LoadOrStore(_ context.Context, a Assignment) (Assignment, bool, error) {
	v, loaded := s.assignments.LoadOrStore(assignmentKey{user: a.UserID, experiment: a.ExperimentID}, a)
	return v.(Assignment), loaded, nil
}

// Key prefix for BadgerDB storage
const assignmentKeyPrefix = "assignment:"

// badgerConflictRetries bounds retries of a conflicting insert.
const badgerConflictRetries = 10

// BadgerAssignmentStore persists assignments in BadgerDB so they survive
// restarts. Keys are assignment:<len(experiment)>:<experiment>:<user>; the
// length prefix keeps ids containing ':' from colliding.
type BadgerAssignmentStore struct {
	db *badger.DB
}

// NewBadgerAssignmentStore creates a BadgerDB-backed store. The caller owns db.
func NewBadgerAssignmentStore(db *badger.DB) *BadgerAssignmentStore {
	return &BadgerAssignmentStore{db: db}
}

func badgerKey(userID, experimentID string) []byte {
	return []byte(assignmentKeyPrefix + strconv.Itoa(len(experimentID)) + ":" + experimentID + ":" + userID)
}

// Get implements AssignmentStore.
func (s *BadgerAssignmentStore) Get(ctx context.Context, userID, experimentID string) (Assignment, bool, error) {
	if err := ctx.Err(); err != nil {
		return Assignment{}, false, err
	}

	var a Assignment
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		a, found, err = readAssignment(txn, badgerKey(userID, experimentID))
		return err
	})
	if err != nil {
		return Assignment{}, false, fmt.Errorf("get assignment: %w", err)
	}
	return a, found, nil
}

// LoadOrStore implements AssignmentStore. Concurrent inserts for the same
// key conflict at commit; the loser retries and reads the winner's value.
func (s *BadgerAssignmentStore) LoadOrStore(ctx context.Context, a Assignment) (Assignment, bool, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return Assignment{}, false, fmt.Errorf("marshal assignment: %w", err)
	}
	key := badgerKey(a.UserID, a.ExperimentID)

	for attempt := 0; attempt < badgerConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Assignment{}, false, err
		}

		var stored Assignment
		loaded := false
		err := s.db.Update(func(txn *badger.Txn) error {
			existing, found, err := readAssignment(txn, key)
			if err != nil {
				return err
			}
			if found {
				stored, loaded = existing, true
				return nil
			}
			if err := txn.Set(key, data); err != nil {
				return fmt.Errorf("set assignment: %w", err)
			}
			stored = a
			return nil
		})
		if errors.Is(err, badger.ErrConflict) {
			time.Sleep(time.Duration(attempt+1) * time.Millisecond)
			continue
		}
		if err != nil {
			return Assignment{}, false, fmt.Errorf("store assignment: %w", err)
		}
		return stored, loaded, nil
	}
	return Assignment{}, false, fmt.Errorf("store assignment: %w", badger.ErrConflict)
}

func readAssignment(txn *badger.Txn, key []byte) (Assignment, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Assignment{}, false, nil
	}
	if err != nil {
		return Assignment{}, false, err
	}

	var a Assignment
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &a)
	}); err != nil {
		return Assignment{}, false, fmt.Errorf("decode assignment: %w", err)
	}
	return a, true, nil
}
