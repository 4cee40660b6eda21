package memory

import (
	"context"
	"sync"
)

// SequenceStore implements ports.SequenceStore in memory.
// Safe for concurrent use.
type SequenceStore struct {
	data map[string]uint64
	mu   sync.Mutex
}

// NewSequenceStore creates a new in-memory sequence store.
func NewSequenceStore() *SequenceStore {
	return &SequenceStore{
		data: make(map[string]uint64),
	}
}

// Advance returns the current counter and increments it.
func (s *SequenceStore) Advance(_ context.Context, sequence string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.data[sequence]
	s.data[sequence] = n + 1
	return n, nil
}

// Reset forgets the counter.
func (s *SequenceStore) Reset(_ context.Context, sequence string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sequence)
	return nil
}
