package compiler_test

import (
	"testing"

	"github.com/aretw0/trove/internal/compiler"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chestJSON = `{
  "type": "chest",
  "random_sequence": "chests/village",
  "pools": [
    {
      "rolls": {"min": 2, "max": 2},
      "bonus_rolls": 0,
      "entries": [
        {"type": "item", "name": "bread", "weight": 3, "functions": [{"type": "set_count", "count": {"type": "uniform", "min": 1, "max": 3}}]},
        {"type": "item", "name": "emerald", "quality": 2},
        {"type": "loot_table", "name": "shared/bonus", "optional": true},
        {"type": "alternatives", "children": [
          {"type": "empty", "conditions": [{"type": "random_chance", "chance": 0.5}]},
          {"type": "dynamic", "name": "contents"}
        ]}
      ]
    }
  ],
  "functions": [{"type": "set_tag", "key": "source", "value": 7}]
}`

const chestYAML = `
type: chest
pools:
  - rolls: 1
    conditions:
      - type: expression
        expr: "luck > 0"
    entries:
      - type: item
        name: gold
        count: 3
`

func TestParser_ParseTable(t *testing.T) {
	p := compiler.MustNewParser()

	table, err := p.ParseTable("village", []byte(chestJSON))
	require.NoError(t, err)
	assert.Equal(t, domain.TableID("village"), table.ID())
	assert.Equal(t, domain.ParamSetChest.Name, table.Params().Name)
	assert.Equal(t, "chests/village", table.RandomSequence())
	require.Len(t, table.Pools(), 1)
	require.Len(t, table.Pools()[0].Entries(), 4)

	bread := table.Pools()[0].Entries()[0].(*loot.ItemEntry)
	assert.Equal(t, 3, bread.Weight)
	emerald := table.Pools()[0].Entries()[1].(*loot.ItemEntry)
	assert.Equal(t, 1, emerald.Weight, "weight defaults to one")
	assert.Equal(t, 2, emerald.Quality)
	ref := table.Pools()[0].Entries()[2].(*loot.TableEntry)
	assert.True(t, ref.Optional)

	items := table.GenerateItems(loot.NewContext(nil, nil, loot.WithSeed(4)))
	for _, it := range items {
		assert.Equal(t, int64(7), it.Tags["source"])
	}
}

func TestParser_YAML(t *testing.T) {
	p := compiler.MustNewParser()

	table, err := p.ParseTable("gold", []byte(chestYAML))
	require.NoError(t, err)

	assert.Empty(t, table.GenerateItems(loot.NewContext(nil, nil, loot.WithSeed(1))))

	params, err := loot.NewParamsBuilder().WithParam("origin", domain.Position{}).WithLuck(1).Create(domain.ParamSetChest)
	require.NoError(t, err)
	items := table.GenerateItems(loot.NewContext(params, nil, loot.WithSeed(1)))
	assert.Equal(t, []domain.Item{domain.NewItem("gold", 3)}, items)
}

func TestParser_PredicateAndModifier(t *testing.T) {
	p := compiler.MustNewParser()

	cond, err := p.ParseCondition([]byte(`[{"type":"has_param","param":"tool"},{"type":"inverted","term":{"type":"reference","name":"raining"}}]`))
	require.NoError(t, err)
	assert.Equal(t, "all_of", cond.Type())

	cond, err = p.ParseCondition([]byte(`{"type":"value_check","value":{"type":"param","key":"explosion_radius"},"max":3}`))
	require.NoError(t, err)
	check := cond.(*loot.ValueCheck)
	assert.Nil(t, check.Min)
	require.NotNil(t, check.Max)
	assert.Equal(t, 3.0, *check.Max)

	mod, err := p.ParseTransform([]byte(`{"type":"sequence","functions":[{"type":"set_count","count":4},{"type":"limit_count","max":2}]}`))
	require.NoError(t, err)
	out := mod.Apply(domain.NewItem("x", 1), loot.NewContext(nil, nil))
	assert.Equal(t, 2, out.Count)
}

func TestParser_Errors(t *testing.T) {
	p := compiler.MustNewParser()

	tests := []struct {
		name string
		kind domain.Kind
		doc  string
		path string
		is   error
	}{
		{"empty", domain.KindLootTable, "  ", "", nil},
		{"syntax", domain.KindLootTable, `{"pools": [`, "", nil},
		{"unknown param set", domain.KindLootTable, `{"type": "dungeon"}`, "type", domain.ErrUnknownParamSet},
		{"unknown entry", domain.KindLootTable, `{"pools":[{"entries":[{"type":"item","name":"a"},{"type":"mystery"}]}]}`, "pools[0].entries[1]", domain.ErrUnknownType},
		{"schema", domain.KindLootTable, `{"pools":[{"rolls":1}]}`, "pools[0]", nil},
		{"negative weight", domain.KindLootTable, `{"pools":[{"entries":[{"type":"item","name":"a","weight":-1}]}]}`, "pools[0].entries[0].weight", nil},
		{"unknown condition", domain.KindPredicate, `{"type":"weather"}`, "", domain.ErrUnknownType},
		{"bad expression", domain.KindPredicate, `{"type":"expression","expr":"a >"}`, "", nil},
		{"unknown function", domain.KindItemModifier, `{"type":"enchant"}`, "", domain.ErrUnknownType},
		{"missing node type", domain.KindItemModifier, `{"count": 1}`, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.kind, "x", []byte(tt.doc))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			var de *compiler.DecodeError
			if tt.path != "" {
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.path, de.Path)
			}
		})
	}
}
