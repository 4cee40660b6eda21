package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// SequenceStore implements ports.SequenceStore on the local filesystem.
// All counters live in a single JSON document so a CLI can resume its
// random sequences across runs without a Redis server.
type SequenceStore struct {
	Path string
	mu   sync.Mutex
}

// NewSequenceStore creates a store backed by path.
// If path is empty, it defaults to ".trove/sequences.json".
func NewSequenceStore(path string) *SequenceStore {
	if path == "" {
		path = filepath.Join(".trove", "sequences.json")
	}
	return &SequenceStore{Path: path}
}

// Advance returns the current counter and persists its increment.
func (s *SequenceStore) Advance(_ context.Context, sequence string) (uint64, error) {
	if sequence == "" {
		return 0, fmt.Errorf("sequence cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	counters, err := s.load()
	if err != nil {
		return 0, err
	}
	n := counters[sequence]
	counters[sequence] = n + 1
	if err := s.save(counters); err != nil {
		return 0, err
	}
	return n, nil
}

// Reset forgets the counter.
func (s *SequenceStore) Reset(_ context.Context, sequence string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := counters[sequence]; !ok {
		return nil
	}
	delete(counters, sequence)
	return s.save(counters)
}

func (s *SequenceStore) load() (map[string]uint64, error) {
	counters := make(map[string]uint64)
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return counters, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence file: %w", err)
	}
	if err := json.Unmarshal(data, &counters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sequence file: %w", err)
	}
	return counters, nil
}

// save writes to a temp file in the same directory and renames it over the
// destination, so readers never observe a partial document.
func (s *SequenceStore) save(counters map[string]uint64) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure sequence directory: %w", err)
	}

	data, err := json.MarshalIndent(counters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sequences: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-sequences-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(s.Path); err == nil {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove existing sequence file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
