package ports

import "context"

// SequenceStore keeps the invocation counters of named random sequences.
// Counters survive engine restarts when the store is durable (e.g., Redis).
type SequenceStore interface {
	// Advance returns the current counter of the sequence and increments it.
	// The first call for a sequence returns 0.
	Advance(ctx context.Context, sequence string) (uint64, error)

	// Reset forgets the counter of the sequence.
	Reset(ctx context.Context, sequence string) error
}
