package loot_test

import (
	"testing"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name string, weight int) *loot.ItemEntry {
	return &loot.ItemEntry{Singleton: loot.Singleton{Weight: weight}, Name: name}
}

func names(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func xyTable() *loot.Table {
	return loot.NewTable("t", loot.TableConfig{
		Pools: []*loot.Pool{loot.NewPool(loot.PoolConfig{
			Rolls:   loot.Const(2),
			Entries: []loot.Entry{item("x", 1), item("y", 3)},
		})},
	})
}

func TestPool_SameSeedSameOutput(t *testing.T) {
	table := xyTable()
	resolver := loot.MapResolver{table.ID(): table}

	first := table.GenerateItems(loot.NewContext(nil, resolver, loot.WithSeed(42)))
	second := table.GenerateItems(loot.NewContext(nil, resolver, loot.WithSeed(42)))

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestPool_WeightProportionality(t *testing.T) {
	table := xyTable()
	resolver := loot.MapResolver{table.ID(): table}

	counts := map[string]int{}
	for seed := range uint64(10000) {
		for _, it := range table.GenerateItems(loot.NewContext(nil, resolver, loot.WithSeed(seed))) {
			counts[it.Name]++
		}
	}

	total := counts["x"] + counts["y"]
	require.Equal(t, 20000, total)
	assert.InDelta(t, 0.25, float64(counts["x"])/float64(total), 0.02)
	assert.InDelta(t, 0.75, float64(counts["y"])/float64(total), 0.02)
}

func TestPool_ZeroWeightNeverSelected(t *testing.T) {
	zero := item("never", 0)
	negative := &loot.ItemEntry{Singleton: loot.Singleton{Weight: 1, Quality: -1}, Name: "unlucky"}
	pool := loot.NewPool(loot.PoolConfig{
		Rolls:   loot.Const(5),
		Entries: []loot.Entry{zero, negative, item("always", 1), item("also", 1)},
	})
	params, err := loot.NewParamsBuilder().WithLuck(1).Create(domain.ParamSetEmpty)
	require.NoError(t, err)

	for seed := range uint64(500) {
		ctx := loot.NewContext(params, nil, loot.WithSeed(seed))
		pool.Generate(ctx, func(it domain.Item) {
			assert.NotEqual(t, "never", it.Name)
			assert.NotEqual(t, "unlucky", it.Name)
		})
	}
}

func TestPool_SingleCandidateDoesNotDraw(t *testing.T) {
	pool := loot.NewPool(loot.PoolConfig{
		Rolls:   loot.Const(3),
		Entries: []loot.Entry{item("only", 7), item("none", 0)},
	})
	rng := loot.NewRandom(7)
	ctx := loot.NewContext(nil, nil, loot.WithRandom(rng))

	var got []string
	pool.Generate(ctx, func(it domain.Item) { got = append(got, it.Name) })

	assert.Equal(t, []string{"only", "only", "only"}, got)
	assert.Equal(t, loot.NewRandom(7).Uint64(), rng.Uint64(), "stream must be untouched")
}

func TestPool_BonusRollsScaleWithLuck(t *testing.T) {
	pool := loot.NewPool(loot.PoolConfig{
		Rolls:      loot.Const(1),
		BonusRolls: loot.Const(1.5),
		Entries:    []loot.Entry{item("a", 1)},
	})

	tests := []struct {
		luck float32
		want int
	}{
		{0, 1},
		{1, 2},
		{2, 4},
		{-2, 0},
	}
	for _, tt := range tests {
		params, err := loot.NewParamsBuilder().WithLuck(tt.luck).Create(domain.ParamSetEmpty)
		require.NoError(t, err)
		n := 0
		pool.Generate(loot.NewContext(params, nil, loot.WithSeed(1)), func(domain.Item) { n++ })
		assert.Equal(t, tt.want, n, "luck %v", tt.luck)
	}
}

func TestPool_ConditionsGateEverything(t *testing.T) {
	pool := loot.NewPool(loot.PoolConfig{
		Conditions: []loot.Condition{&loot.HasParam{Param: "origin"}},
		Entries:    []loot.Entry{item("a", 1)},
	})
	n := 0
	pool.Generate(loot.NewContext(nil, nil, loot.WithSeed(1)), func(domain.Item) { n++ })
	assert.Zero(t, n)

	params, err := loot.NewParamsBuilder().WithParam("origin", domain.Position{}).Create(domain.ParamSetChest)
	require.NoError(t, err)
	pool.Generate(loot.NewContext(params, nil, loot.WithSeed(1)), func(domain.Item) { n++ })
	assert.Equal(t, 1, n)
}

func TestEntries_AlternativesAndGroup(t *testing.T) {
	never := &loot.Inverted{Term: loot.All()}
	alt := &loot.Alternatives{Composite: loot.Composite{Children: []loot.Entry{
		&loot.ItemEntry{Singleton: loot.Singleton{Weight: 1, Conditions: []loot.Condition{never}}, Name: "skipped"},
		item("first", 1),
		item("second", 1),
	}}}

	var got []string
	emit := func(c loot.Candidate) {
		c.Create(loot.NewContext(nil, nil), func(it domain.Item) { got = append(got, it.Name) })
	}
	ctx := loot.NewContext(nil, nil, loot.WithSeed(1))

	assert.True(t, alt.Expand(ctx, emit))
	assert.Equal(t, []string{"first"}, got)

	got = nil
	group := &loot.Group{Composite: loot.Composite{Children: []loot.Entry{item("a", 1), item("b", 1)}}}
	assert.True(t, group.Expand(ctx, emit))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestEntries_DynamicDrop(t *testing.T) {
	params, err := loot.NewParamsBuilder().
		WithDynamicDrop("contents", func(emit func(domain.Item)) {
			emit(domain.NewItem("gem", 2))
		}).
		Create(domain.ParamSetEmpty)
	require.NoError(t, err)

	table := loot.NewTable("box", loot.TableConfig{Pools: []*loot.Pool{loot.NewPool(loot.PoolConfig{
		Entries: []loot.Entry{
			&loot.DynamicEntry{Singleton: loot.Singleton{Weight: 1}, Name: "contents"},
		},
	})}})

	items := table.GenerateItems(loot.NewContext(params, nil, loot.WithSeed(1)))
	assert.Equal(t, []domain.Item{domain.NewItem("gem", 2)}, items)

	unknown := loot.NewTable("box", loot.TableConfig{Pools: []*loot.Pool{loot.NewPool(loot.PoolConfig{
		Entries: []loot.Entry{
			&loot.DynamicEntry{Singleton: loot.Singleton{Weight: 1}, Name: "other"},
		},
	})}})
	assert.Empty(t, unknown.GenerateItems(loot.NewContext(params, nil, loot.WithSeed(1))))
}

func TestEntries_WeightWithLuck(t *testing.T) {
	s := loot.Singleton{Weight: 10, Quality: -3}
	assert.Equal(t, 10, s.EffectiveWeight(0))
	assert.Equal(t, 7, s.EffectiveWeight(1))
	assert.Equal(t, 5, s.EffectiveWeight(1.5))
	assert.Equal(t, 0, s.EffectiveWeight(5))
}

func TestEntries_ItemFunctions(t *testing.T) {
	entry := &loot.ItemEntry{
		Singleton: loot.Singleton{Weight: 1, Functions: []loot.Transform{
			&loot.SetCount{Count: loot.Const(5)},
			&loot.SetTag{Key: "rarity", Value: "rare"},
		}},
		Name: "sword",
	}
	table := loot.NewTable("t", loot.TableConfig{Pools: []*loot.Pool{loot.NewPool(loot.PoolConfig{Entries: []loot.Entry{entry}})}})

	items := table.GenerateItems(loot.NewContext(nil, nil, loot.WithSeed(1)))
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Count)
	assert.Equal(t, "rare", items[0].Tags["rarity"])
}
