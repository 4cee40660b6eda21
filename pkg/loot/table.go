package loot

import (
	"github.com/aretw0/trove/pkg/domain"
)

// TableConfig describes a table. Params defaults to the "all" set.
type TableConfig struct {
	Params         domain.ParamSet
	RandomSequence string
	Pools          []*Pool
	Functions      []Transform
}

// Table is an ordered list of pools plus table-level transforms.
type Table struct {
	name           string
	params         domain.ParamSet
	randomSequence string
	pools          []*Pool
	functions      []Transform
}

// NewTable builds an immutable table named name.
func NewTable(name string, cfg TableConfig) *Table {
	params := cfg.Params
	if params.Name == "" {
		params = domain.ParamSetAll
	}
	return &Table{
		name:           name,
		params:         params,
		randomSequence: cfg.RandomSequence,
		pools:          cfg.Pools,
		functions:      cfg.Functions,
	}
}

// NewEmptyTable returns the synthetic table used as the default for missing lookups.
func NewEmptyTable() *Table {
	return NewTable(domain.EmptyTableName, TableConfig{Params: domain.ParamSetAll})
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// ID returns the table identity.
func (t *Table) ID() domain.Identity { return domain.TableID(t.name) }

// Params returns the parameter set the table may depend on.
func (t *Table) Params() domain.ParamSet { return t.params }

// RandomSequence returns the declared random sequence id, if any.
func (t *Table) RandomSequence() string { return t.randomSequence }

// Pools returns the pools in declared order.
func (t *Table) Pools() []*Pool { return t.pools }

// GenerateRaw runs every pool without splitting stacks. If the table is already
// being evaluated higher up the stack it produces nothing.
func (t *Table) GenerateRaw(ctx *EvalContext, out func(domain.Item)) {
	id := t.ID()
	if !ctx.PushVisited(id) {
		ctx.reportCycle(id)
		return
	}
	defer ctx.PopVisited(id)

	if len(t.functions) > 0 {
		next := out
		out = func(item domain.Item) {
			if item, ok := applyAll(t.functions, ctx, item); ok {
				next(item)
			}
		}
	}
	for _, p := range t.pools {
		p.Generate(ctx, out)
	}
}

// Generate runs the table and splits over-sized stacks.
func (t *Table) Generate(ctx *EvalContext, out func(domain.Item)) {
	t.GenerateRaw(ctx, StackSplitter(out))
}

// GenerateItems collects the output of Generate.
func (t *Table) GenerateItems(ctx *EvalContext) []domain.Item {
	var items []domain.Item
	t.Generate(ctx, func(item domain.Item) {
		items = append(items, item)
	})
	return items
}

// Validate checks the whole table graph reachable from t.
func (t *Table) Validate(vc ValidationContext) {
	t.validateBody(vc)
}

func (t *Table) validateBody(vc ValidationContext) {
	for i, p := range t.pools {
		p.Validate(vc.Indexed("pools", i))
	}
	validateTransforms(vc, t.functions)
}
