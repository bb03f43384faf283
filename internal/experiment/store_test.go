// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package experiment

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestBadgerDB opens an in-memory BadgerDB closed at test cleanup.
func createTestBadgerDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func storeImplementations(t *testing.T) map[string]AssignmentStore {
	t.Helper()
	return map[string]AssignmentStore{
		"memory": NewMemoryAssignmentStore(),
		"badger": NewBadgerAssignmentStore(createTestBadgerDB(t)),
	}
}

func TestAssignmentStore_LoadOrStore(t *testing.T) {
	t.Parallel()

	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			_, found, err := store.Get(ctx, "u1", "exp")
			require.NoError(t, err)
			assert.False(t, found)

			first := Assignment{
				UserID:       "u1",
				ExperimentID: "exp",
				VariantID:    "control",
				AssignedAt:   time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
				SessionID:    "s1",
			}
			stored, loaded, err := store.LoadOrStore(ctx, first)
			require.NoError(t, err)
			assert.False(t, loaded)
			assert.Equal(t, "control", stored.VariantID)

			second := first
			second.VariantID = "treatment"
			stored, loaded, err = store.LoadOrStore(ctx, second)
			require.NoError(t, err)
			assert.True(t, loaded, "existing assignment wins")
			assert.Equal(t, "control", stored.VariantID)

			got, found, err := store.Get(ctx, "u1", "exp")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "s1", got.SessionID)
			assert.True(t, got.AssignedAt.Equal(first.AssignedAt))

			_, found, err = store.Get(ctx, "u1", "other")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestAssignmentStore_Concurrent(t *testing.T) {
	t.Parallel()

	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			const workers = 20
			var (
				wg       sync.WaitGroup
				inserted atomic.Int32
				variants sync.Map
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					stored, loaded, err := store.LoadOrStore(ctx, Assignment{
						UserID:       "shared",
						ExperimentID: "exp",
						VariantID:    fmt.Sprintf("v%d", i),
					})
					if err != nil {
						t.Errorf("LoadOrStore() error = %v", err)
						return
					}
					if !loaded {
						inserted.Add(1)
					}
					variants.Store(stored.VariantID, struct{}{})
				}(i)
			}
			wg.Wait()

			assert.Equal(t, int32(1), inserted.Load(), "exactly one insert wins")
			distinct := 0
			variants.Range(func(_, _ any) bool {
				distinct++
				return true
			})
			assert.Equal(t, 1, distinct, "every caller sees the winning variant")
		})
	}
}

func TestAssignmentStore_CancelledContext(t *testing.T) {
	t.Parallel()

	store := NewBadgerAssignmentStore(createTestBadgerDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Get(ctx, "u", "e")
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = store.LoadOrStore(ctx, Assignment{UserID: "u", ExperimentID: "e", VariantID: "v"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager_BadgerStickyAcrossRestart(t *testing.T) {
	t.Parallel()

	db := createTestBadgerDB(t)
	exp := newExperiment("persist", variant("control", 0.5), variant("treatment", 0.5))
	ctx := context.Background()

	first := NewManager(WithAssignmentStore(NewBadgerAssignmentStore(db)))
	require.NoError(t, first.CreateExperiment(exp))
	v1, ok, err := first.AssignUserToVariant(ctx, "user-42", "s1", "persist")
	require.NoError(t, err)
	require.True(t, ok)

	restarted := NewManager(WithAssignmentStore(NewBadgerAssignmentStore(db)))
	require.NoError(t, restarted.CreateExperiment(exp))
	v2, ok, err := restarted.AssignUserToVariant(ctx, "user-42", "s2", "persist")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, v1, v2)
	mt := restarted.GetExperimentMetrics("persist")
	assert.Zero(t, mt["control"].Exposures+mt["treatment"].Exposures, "sticky lookups are not exposures")
}

func TestBadgerKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "assignment:5:exp-1:user-9", string(badgerKey("user-9", "exp-1")))
	assert.NotEqual(t, string(badgerKey("a:b", "c")), string(badgerKey("a", "b:c")))
}

func TestAssignmentStore_SeparatorInIDs(t *testing.T) {
	t.Parallel()

	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			_, loaded, err := store.LoadOrStore(ctx, Assignment{UserID: "a:b", ExperimentID: "c", VariantID: "x1"})
			require.NoError(t, err)
			require.False(t, loaded)

			stored, loaded, err := store.LoadOrStore(ctx, Assignment{UserID: "a", ExperimentID: "b:c", VariantID: "y1"})
			require.NoError(t, err)
			assert.False(t, loaded, "distinct (user, experiment) pairs must not share a key")
			assert.Equal(t, "y1", stored.VariantID)

			got, found, err := store.Get(ctx, "a:b", "c")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "x1", got.VariantID)
		})
	}
}
