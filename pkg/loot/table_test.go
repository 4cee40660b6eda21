package loot_test

import (
	"context"
	"testing"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refPool(target string) *loot.Pool {
	return loot.NewPool(loot.PoolConfig{Entries: []loot.Entry{
		&loot.TableEntry{Singleton: loot.Singleton{Weight: 1}, Name: target},
	}})
}

func TestTable_SelfReferenceProducesNothing(t *testing.T) {
	a := loot.NewTable("a", loot.TableConfig{Pools: []*loot.Pool{refPool("a")}})
	resolver := loot.MapResolver{a.ID(): a}

	var cycles []domain.Identity
	hooks := domain.LifecycleHooks{OnCycle: func(_ context.Context, e *domain.CycleEvent) {
		cycles = append(cycles, e.Element)
	}}

	items := a.GenerateItems(loot.NewContext(nil, resolver, loot.WithSeed(1), loot.WithLifecycleHooks(hooks)))
	assert.Empty(t, items)
	assert.Equal(t, []domain.Identity{domain.TableID("a")}, cycles)
}

func TestTable_CycleOnlyFailsTheCyclicCall(t *testing.T) {
	// a -> b -> a, and a also has a plain pool that must still run.
	a := loot.NewTable("a", loot.TableConfig{Pools: []*loot.Pool{
		refPool("b"),
		loot.NewPool(loot.PoolConfig{Entries: []loot.Entry{item("coin", 1)}}),
	}})
	b := loot.NewTable("b", loot.TableConfig{Pools: []*loot.Pool{
		refPool("a"),
		loot.NewPool(loot.PoolConfig{Entries: []loot.Entry{item("bone", 1)}}),
	}})
	resolver := loot.MapResolver{a.ID(): a, b.ID(): b}

	ctx := loot.NewContext(nil, resolver, loot.WithSeed(1))
	items := a.GenerateItems(ctx)
	assert.Equal(t, []string{"bone", "coin"}, names(items))
	assert.False(t, ctx.HasVisited(a.ID()), "visited set must be unwound")
}

func TestTable_MissingReferenceIsSoft(t *testing.T) {
	t2 := loot.NewTable("t2", loot.TableConfig{Pools: []*loot.Pool{refPool("missing")}})
	resolver := loot.MapResolver{t2.ID(): t2}

	assert.Empty(t, t2.GenerateItems(loot.NewContext(nil, resolver, loot.WithSeed(1))))
}

func TestTable_NestedReferenceAndFunctions(t *testing.T) {
	inner := loot.NewTable("inner", loot.TableConfig{Pools: []*loot.Pool{
		loot.NewPool(loot.PoolConfig{Entries: []loot.Entry{item("arrow", 1)}}),
	}})
	outer := loot.NewTable("outer", loot.TableConfig{
		Pools:     []*loot.Pool{refPool("inner")},
		Functions: []loot.Transform{&loot.SetCount{Count: loot.Const(100)}},
	})
	resolver := loot.MapResolver{inner.ID(): inner, outer.ID(): outer}

	items := outer.GenerateItems(loot.NewContext(nil, resolver, loot.WithSeed(3)))
	require.Len(t, items, 2, "100 arrows split into stacks of 64")
	assert.Equal(t, 64, items[0].Count)
	assert.Equal(t, 36, items[1].Count)
}

func TestTable_ReferenceSeesCurrentSnapshot(t *testing.T) {
	outer := loot.NewTable("outer", loot.TableConfig{Pools: []*loot.Pool{refPool("inner")}})
	v1 := loot.NewTable("inner", loot.TableConfig{Pools: []*loot.Pool{
		loot.NewPool(loot.PoolConfig{Entries: []loot.Entry{item("old", 1)}}),
	}})
	v2 := loot.NewTable("inner", loot.TableConfig{Pools: []*loot.Pool{
		loot.NewPool(loot.PoolConfig{Entries: []loot.Entry{item("new", 1)}}),
	}})

	current := loot.MapResolver{outer.ID(): outer, v1.ID(): v1}
	resolver := loot.ResolverFunc(func(id domain.Identity) (loot.Asset, bool) { return current.Element(id) })

	assert.Equal(t, []string{"old"}, names(outer.GenerateItems(loot.NewContext(nil, resolver, loot.WithSeed(1)))))
	current = loot.MapResolver{outer.ID(): outer, v2.ID(): v2}
	assert.Equal(t, []string{"new"}, names(outer.GenerateItems(loot.NewContext(nil, resolver, loot.WithSeed(1)))))
}

func TestTable_EmptyTable(t *testing.T) {
	empty := loot.NewEmptyTable()
	assert.Equal(t, domain.EmptyTable, empty.ID())
	assert.Empty(t, empty.GenerateItems(loot.NewContext(nil, nil)))
}

func TestSequenceSeed(t *testing.T) {
	a := loot.SequenceSeed(1, "chests/village", 0)
	assert.Equal(t, a, loot.SequenceSeed(1, "chests/village", 0))
	assert.NotEqual(t, a, loot.SequenceSeed(1, "chests/village", 1))
	assert.NotEqual(t, a, loot.SequenceSeed(2, "chests/village", 0))
	assert.NotEqual(t, a, loot.SequenceSeed(1, "chests/temple", 0))
}
