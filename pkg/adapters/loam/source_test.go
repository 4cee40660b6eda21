package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/trove/internal/compiler"
	"github.com/aretw0/trove/internal/testutils"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_ListAssets_PerKind(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"loot_tables/chest.json":      `{"type": "chest", "pools": []}`,
		"loot_tables/blocks/ore.yaml": "type: block\npools: []\n",
		"predicates/lucky.md":         "---\ntype: random_chance\nchance: 0.5\n---\nA coin flip.",
		"README.md":                   "---\ntitle: not an asset\n---\n",
	})

	source := New(loam.NewTypedRepository[AssetMetadata](repo))
	ctx := context.Background()

	tables, err := source.ListAssets(ctx, domain.KindLootTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"blocks/ore", "chest"}, tables)

	predicates, err := source.ListAssets(ctx, domain.KindPredicate)
	require.NoError(t, err)
	assert.Equal(t, []string{"lucky"}, predicates)

	modifiers, err := source.ListAssets(ctx, domain.KindItemModifier)
	require.NoError(t, err)
	assert.Empty(t, modifiers)
}

func TestSource_ListAssets_DetectsCollisions(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"loot_tables/foo.json": `{"pools": []}`,
		"loot_tables/foo.yaml": "pools: []\n",
	})

	source := New(loam.NewTypedRepository[AssetMetadata](repo))
	_, err := source.ListAssets(context.Background(), domain.KindLootTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestSource_ReadAsset_Compiles(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"loot_tables/chest.json": `{
  "type": "chest",
  "pools": [{"rolls": 2, "entries": [{"type": "item", "name": "bread", "weight": 3}]}]
}`,
		"predicates/lucky.md": "---\ntype: random_chance\nchance: 0.5\n---\nA coin flip.",
	})

	source := New(loam.NewTypedRepository[AssetMetadata](repo))
	ctx := context.Background()
	parser := compiler.MustNewParser()

	raw, err := source.ReadAsset(ctx, domain.TableID("chest"))
	require.NoError(t, err)
	table, err := parser.ParseTable("chest", raw)
	require.NoError(t, err)
	assert.Equal(t, "chest", table.Params().Name)
	require.Len(t, table.Pools(), 1)

	raw, err = source.ReadAsset(ctx, domain.PredicateID("lucky"))
	require.NoError(t, err)
	cond, err := parser.ParseCondition(raw)
	require.NoError(t, err)
	assert.Equal(t, "random_chance", cond.Type())

	_, err = source.ReadAsset(ctx, domain.TableID("missing"))
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}
