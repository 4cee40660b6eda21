package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// SequenceStore implements ports.SequenceStore using Redis INCR, so counters
// are shared by every engine pointed at the same server.
type SequenceStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*SequenceStore)

// WithTTL expires idle counters. Every Advance refreshes the expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *SequenceStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for counters.
func WithPrefix(prefix string) Option {
	return func(s *SequenceStore) {
		s.prefix = prefix
	}
}

// New creates a new Redis sequence store with options.
func New(address, password string, db int, opts ...Option) *SequenceStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis sequence store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *SequenceStore {
	store := &SequenceStore{
		client: client,
		prefix: "trove:sequence:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *SequenceStore) key(sequence string) string {
	return s.prefix + sequence
}

// Advance increments the counter and returns its previous value.
func (s *SequenceStore) Advance(ctx context.Context, sequence string) (uint64, error) {
	key := s.key(sequence)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", sequence, err)
	}
	return uint64(incr.Val() - 1), nil
}

// Reset deletes the counter.
func (s *SequenceStore) Reset(ctx context.Context, sequence string) error {
	if err := s.client.Del(ctx, s.key(sequence)).Err(); err != nil {
		return fmt.Errorf("failed to reset sequence %s: %w", sequence, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *SequenceStore) Close() error {
	return s.client.Close()
}
