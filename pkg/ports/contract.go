package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSequenceStoreContract runs a suite of tests to verify that a SequenceStore implementation
// adheres to the defined interface contract.
func RunSequenceStoreContract(t *testing.T, store SequenceStore) {
	ctx := context.Background()
	sequence := "contract-test-sequence-" + time.Now().Format("20060102150405")

	t.Run("Advance counts from zero", func(t *testing.T) {
		for want := range uint64(3) {
			got, err := store.Advance(ctx, sequence)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Sequences are independent", func(t *testing.T) {
		got, err := store.Advance(ctx, sequence+"-other")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("Reset", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx, sequence))
		got, err := store.Advance(ctx, sequence)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), got, "counter restarts after reset")
		require.NoError(t, store.Reset(ctx, sequence+"-never-used"))
	})

	t.Run("Concurrent Advance hands out unique counters", func(t *testing.T) {
		name := sequence + "-concurrent"
		const workers = 16

		var (
			mu   sync.Mutex
			seen = make(map[uint64]bool)
			wg   sync.WaitGroup
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n, err := store.Advance(ctx, name)
				assert.NoError(t, err)
				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Len(t, seen, workers)
	})
}
