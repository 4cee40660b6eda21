package dsl

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/trove/pkg/adapters/memory"
	"github.com/aretw0/trove/pkg/domain"
)

// Builder collects assets of every kind.
type Builder struct {
	tables     map[string]*TableBuilder
	predicates map[string]any
	modifiers  map[string]any
}

// New creates a new asset builder.
func New() *Builder {
	return &Builder{
		tables:     make(map[string]*TableBuilder),
		predicates: make(map[string]any),
		modifiers:  make(map[string]any),
	}
}

// Table creates a new loot table.
// If the table already exists, it returns the existing builder.
func (b *Builder) Table(name string) *TableBuilder {
	if tb, ok := b.tables[name]; ok {
		return tb
	}
	tb := &TableBuilder{doc: Node{}}
	b.tables[name] = tb
	return tb
}

// Predicate defines a named condition. Several terms are combined with all_of.
func (b *Builder) Predicate(name string, terms ...Node) *Builder {
	b.predicates[name] = single(terms)
	return b
}

// Modifier defines a named item modifier. Several functions run in order.
func (b *Builder) Modifier(name string, fns ...Node) *Builder {
	b.modifiers[name] = single(fns)
	return b
}

func single(nodes []Node) any {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return nodes
}

// Build compiles the assets into a memory Source.
func (b *Builder) Build() (*memory.Source, error) {
	data := make(map[string]string, len(b.tables)+len(b.predicates)+len(b.modifiers))
	add := func(kind domain.Kind, name string, doc any) error {
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", domain.ID(kind, name), err)
		}
		data[domain.ID(kind, name).String()] = string(raw)
		return nil
	}
	for name, doc := range b.predicates {
		if err := add(domain.KindPredicate, name, doc); err != nil {
			return nil, err
		}
	}
	for name, doc := range b.modifiers {
		if err := add(domain.KindItemModifier, name, doc); err != nil {
			return nil, err
		}
	}
	for name, tb := range b.tables {
		if err := add(domain.KindLootTable, name, tb.doc); err != nil {
			return nil, err
		}
	}

	src, err := memory.NewSource(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory source: %w", err)
	}
	return src, nil
}

// TableBuilder provides a fluent API for configuring a loot table.
type TableBuilder struct {
	doc Node
}

// Type sets the parameter set the table is evaluated with.
func (t *TableBuilder) Type(set string) *TableBuilder {
	t.doc["type"] = set
	return t
}

// RandomSequence names the sequence the table draws its seed from.
func (t *TableBuilder) RandomSequence(name string) *TableBuilder {
	t.doc["random_sequence"] = name
	return t
}

// Pool appends pools.
func (t *TableBuilder) Pool(pools ...*PoolBuilder) *TableBuilder {
	for _, p := range pools {
		appendTo(t.doc, "pools", p.doc)
	}
	return t
}

// Apply appends table-level item functions.
func (t *TableBuilder) Apply(fns ...Node) *TableBuilder {
	appendTo(t.doc, "functions", fns...)
	return t
}

// PoolBuilder provides a fluent API for configuring a pool.
type PoolBuilder struct {
	doc Node
}

// Pool starts a pool rolled once.
func Pool() *PoolBuilder {
	return &PoolBuilder{doc: Node{}}
}

// Name labels the pool.
func (p *PoolBuilder) Name(name string) *PoolBuilder { p.doc["name"] = name; return p }

// Rolls sets how many times the pool is rolled. It accepts a number or a number Node.
func (p *PoolBuilder) Rolls(n any) *PoolBuilder { p.doc["rolls"] = n; return p }

// BonusRolls adds floor(n * luck) rolls.
func (p *PoolBuilder) BonusRolls(n any) *PoolBuilder { p.doc["bonus_rolls"] = n; return p }

// Add appends entries.
func (p *PoolBuilder) Add(entries ...Node) *PoolBuilder {
	appendTo(p.doc, "entries", entries...)
	return p
}

// When appends pool conditions.
func (p *PoolBuilder) When(conds ...Node) *PoolBuilder {
	appendTo(p.doc, "conditions", conds...)
	return p
}

// Apply appends functions run on every item of the pool.
func (p *PoolBuilder) Apply(fns ...Node) *PoolBuilder {
	appendTo(p.doc, "functions", fns...)
	return p
}
