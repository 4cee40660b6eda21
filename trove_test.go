package trove_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/internal/registry"
	"github.com/aretw0/trove/pkg/adapters/memory"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xy = `{"pools": [{"rolls": 2, "entries": [
	{"type": "item", "name": "x", "weight": 1},
	{"type": "item", "name": "y", "weight": 3}
]}]}`

func newEngine(t *testing.T, data map[string]string, opts ...trove.Option) *trove.Engine {
	t.Helper()
	opts = append([]trove.Option{trove.WithSource(memory.MustNewSource(data))}, opts...)
	eng, err := trove.New("", opts...)
	require.NoError(t, err)
	return eng
}

func itemNames(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestEngine_EndToEnd(t *testing.T) {
	eng := newEngine(t, map[string]string{"loot_table:t": xy})
	ctx := context.Background()

	first, err := eng.Generate(ctx, "t", nil, trove.WithSeed(1234))
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	for range 5 {
		again, err := eng.Generate(ctx, "t", nil, trove.WithSeed(1234))
		require.NoError(t, err)
		assert.Equal(t, first.Items, again.Items)
	}

	counts := map[string]int{}
	for seed := range uint64(10000) {
		res, err := eng.Generate(ctx, "t", nil, trove.WithSeed(seed))
		require.NoError(t, err)
		for _, it := range res.Items {
			counts[it.Name]++
		}
	}
	assert.InDelta(t, 1.0/3.0, float64(counts["x"])/float64(counts["y"]), 0.03)
}

func TestEngine_SoftReference(t *testing.T) {
	eng := newEngine(t, map[string]string{
		"loot_table:t2": `{"pools": [{"entries": [{"type": "loot_table", "name": "missing"}]}]}`,
	})

	res, err := eng.Generate(context.Background(), "t2", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.Len(t, eng.Report().Problems, 1, "validation still reports the dangling reference")
}

func TestEngine_SelfCycleAndHooks(t *testing.T) {
	var cycles, generated int
	eng := newEngine(t, map[string]string{
		"loot_table:a": `{"pools": [{"entries": [{"type": "loot_table", "name": "a"}]}]}`,
	}, trove.WithLifecycleHooks(domain.LifecycleHooks{
		OnCycle:    func(context.Context, *domain.CycleEvent) { cycles++ },
		OnGenerate: func(context.Context, *domain.GenerateEvent) { generated++ },
	}))

	res, err := eng.Generate(context.Background(), "a", nil, trove.WithSeed(1))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, cycles)
	assert.Equal(t, 1, generated)
}

func TestEngine_GenerateErrors(t *testing.T) {
	eng := newEngine(t, map[string]string{
		"loot_table:chest": `{"type": "chest", "pools": []}`,
	})
	ctx := context.Background()

	_, err := eng.Generate(ctx, "nope", nil)
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)

	_, err = eng.Generate(ctx, "chest", nil)
	var missing *domain.MissingParamsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"origin"}, missing.Missing)

	_, err = eng.Generate(ctx, "chest", loot.NewParamsBuilder().WithParam("origin", domain.Position{}))
	assert.NoError(t, err)
}

func TestEngine_RandomSequences(t *testing.T) {
	data := map[string]string{
		"loot_table:seq": `{"random_sequence": "chests/seq", "pools": [{"rolls": 4, "entries": [
			{"type": "item", "name": "a"}, {"type": "item", "name": "b"}, {"type": "item", "name": "c"}
		]}]}`,
	}
	run := func() []uint64 {
		eng := newEngine(t, data, trove.WithSequenceStore(memory.NewSequenceStore()), trove.WithWorldSeed(99))
		var seeds []uint64
		for range 3 {
			res, err := eng.Generate(context.Background(), "seq", nil)
			require.NoError(t, err)
			seeds = append(seeds, res.Seed)
		}
		return seeds
	}

	first, second := run(), run()
	assert.Equal(t, first, second, "same world seed and counters give the same seeds")
	assert.Equal(t, loot.SequenceSeed(99, "chests/seq", 0), first[0])
	assert.NotEqual(t, first[0], first[1])
}

func TestEngine_HotReload(t *testing.T) {
	src := memory.MustNewSource(map[string]string{"loot_table:t": `{"pools": [{"entries": [{"type": "item", "name": "old"}]}]}`})
	eng, err := trove.New("", trove.WithSource(src))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *registry.Report, 4)
	go func() {
		_ = eng.WatchAndReload(ctx, func(r *registry.Report, err error) {
			if err != nil {
				return
			}
			select {
			case reloaded <- r:
			default:
			}
		})
	}()

	// Give the watcher a moment to subscribe before changing data.
	require.Eventually(t, func() bool {
		src.Put(domain.TableID("t"), []byte(`{"pools": [{"entries": [{"type": "item", "name": "new"}]}]}`))
		select {
		case <-reloaded:
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)

	res, err := eng.Generate(context.Background(), "t", nil, trove.WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, itemNames(res.Items))
	assert.Equal(t, []string{"empty", "t"}, eng.Tables())
}

type staticSource struct{}

func (staticSource) ListAssets(context.Context, domain.Kind) ([]string, error) { return nil, nil }
func (staticSource) ReadAsset(context.Context, domain.Identity) ([]byte, error) {
	return nil, domain.ErrAssetNotFound
}

func TestEngine_WatchUnsupported(t *testing.T) {
	eng, err := trove.New("", trove.WithSource(staticSource{}))
	require.NoError(t, err)
	_, err = eng.Watch(context.Background())
	assert.True(t, errors.Is(err, trove.ErrNotWatchable))
}

func TestNew_RequiresPathOrSource(t *testing.T) {
	_, err := trove.New("")
	assert.Error(t, err)
}
