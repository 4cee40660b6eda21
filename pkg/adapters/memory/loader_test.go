package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/trove/pkg/adapters/memory"
	"github.com/aretw0/trove/pkg/domain"
	contract "github.com/aretw0/trove/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Contract(t *testing.T) {
	data := map[string]string{
		"loot_table:chest":      `{"pools": []}`,
		"loot_table:blocks/ore": `{"pools": []}`,
		"predicate:raining":     `{"type": "has_param", "param": "weather"}`,
	}

	bytesData := make(map[domain.Identity][]byte)
	for k, v := range data {
		id, err := domain.ParseIdentity(k)
		require.NoError(t, err)
		bytesData[id] = []byte(v)
	}

	contract.AssetSourceContractTest(t, memory.MustNewSource(data), bytesData)
}

func TestSource_InvalidKey(t *testing.T) {
	_, err := memory.NewSource(map[string]string{"chest": "{}"})
	assert.Error(t, err)
}

func TestSource_Bundle(t *testing.T) {
	src, err := memory.NewFromBundle([]byte(`
loot_tables:
  chest:
    pools:
      - entries:
          - type: item
            name: bread
predicates:
  lucky:
    type: random_chance
    chance: 0.5
`))
	require.NoError(t, err)

	ctx := context.Background()
	tables, err := src.ListAssets(ctx, domain.KindLootTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"chest"}, tables)

	raw, err := src.ReadAsset(ctx, domain.PredicateID("lucky"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "random_chance")

	_, err = memory.NewFromBundle([]byte("spells:\n  fire: {}\n"))
	assert.Error(t, err)
}

func TestSource_Watch(t *testing.T) {
	src := memory.MustNewSource(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := src.Watch(ctx)
	require.NoError(t, err)

	src.Put(domain.TableID("new"), []byte(`{}`))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, time.Second, 10*time.Millisecond)
}
