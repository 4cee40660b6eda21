package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/trove/pkg/adapters/redis"
	"github.com/aretw0/trove/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSequenceStore_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	// Initialize client
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Run contract
	store := redis.NewFromClient(client)
	ports.RunSequenceStoreContract(t, store)
}

func TestRedisSequenceStore_PrefixAndTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, redis.WithPrefix("test:"), redis.WithTTL(time.Second))
	ctx := context.Background()

	n, err := store.Advance(ctx, "chests/village")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	// 1. Key is namespaced and counts invocations
	got, err := mr.Get("test:chests/village")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	// 2. Idle counters expire
	mr.FastForward(2 * time.Second)
	assert.False(t, mr.Exists("test:chests/village"))

	n, err = store.Advance(ctx, "chests/village")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n, "expired counters restart")
}

func TestRedisSequenceStore_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	store := redis.New(mr.Addr(), "", 0)
	defer store.Close()
	mr.Close()

	_, err = store.Advance(context.Background(), "x")
	assert.Error(t, err)
}
