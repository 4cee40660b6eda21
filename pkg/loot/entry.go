package loot

import (
	"github.com/aretw0/trove/pkg/domain"
)

// Entry is a weighted, conditional producer within a pool.
// Expand emits zero or more candidates and reports whether the entry applied,
// which alternatives use to pick the first applicable child.
type Entry interface {
	Expand(ctx *EvalContext, emit func(Candidate)) bool
	Validate(vc ValidationContext)
	Type() string
}

// Candidate is a selectable leaf produced by Entry.Expand.
type Candidate interface {
	Weight(luck float32) int
	Create(ctx *EvalContext, out func(domain.Item))
}

// Singleton holds the fields shared by terminal entries.
type Singleton struct {
	Weight     int
	Quality    int
	Conditions []Condition
	Functions  []Transform
}

// EffectiveWeight returns max(floor(weight + quality*luck), 0).
func (s *Singleton) EffectiveWeight(luck float32) int {
	return max(floorInt(float64(s.Weight)+float64(s.Quality)*float64(luck)), 0)
}

func (s *Singleton) canRun(ctx *EvalContext) bool {
	for _, c := range s.Conditions {
		if !c.Test(ctx) {
			return false
		}
	}
	return true
}

// decorate routes produced items through the entry functions.
func (s *Singleton) decorate(ctx *EvalContext, out func(domain.Item)) func(domain.Item) {
	if len(s.Functions) == 0 {
		return out
	}
	return func(item domain.Item) {
		if item, ok := applyAll(s.Functions, ctx, item); ok {
			out(item)
		}
	}
}

func (s *Singleton) validate(vc ValidationContext) {
	if s.Weight < 0 {
		vc.Reportf("weight must not be negative, got %d", s.Weight)
	}
	validateConditions(vc, s.Conditions)
	validateTransforms(vc, s.Functions)
}

// singletonCandidate binds a singleton to its producer.
type singletonCandidate struct {
	base   *Singleton
	create func(ctx *EvalContext, out func(domain.Item))
}

func (c singletonCandidate) Weight(luck float32) int { return c.base.EffectiveWeight(luck) }

func (c singletonCandidate) Create(ctx *EvalContext, out func(domain.Item)) {
	c.create(ctx, c.base.decorate(ctx, out))
}

func expandSingleton(s *Singleton, ctx *EvalContext, emit func(Candidate), create func(*EvalContext, func(domain.Item))) bool {
	if !s.canRun(ctx) {
		return false
	}
	emit(singletonCandidate{base: s, create: create})
	return true
}

// ItemEntry produces a stack of a named item.
type ItemEntry struct {
	Singleton
	Name     string
	Count    NumberProvider
	MaxStack int
}

func (e *ItemEntry) Expand(ctx *EvalContext, emit func(Candidate)) bool {
	return expandSingleton(&e.Singleton, ctx, emit, e.create)
}

func (e *ItemEntry) create(ctx *EvalContext, out func(domain.Item)) {
	count := 1
	if e.Count != nil {
		count = e.Count.Int(ctx)
	}
	if count <= 0 {
		return
	}
	out(domain.Item{Name: e.Name, Count: count, MaxStack: e.MaxStack})
}

func (e *ItemEntry) Validate(vc ValidationContext) {
	e.validate(vc)
	if e.Name == "" {
		vc.Report("item name must not be empty")
	}
	if e.Count != nil {
		e.Count.Validate(vc.ForChild(".count"))
	}
}

func (e *ItemEntry) Type() string { return "item" }

// EmptyEntry is selectable but produces nothing.
type EmptyEntry struct {
	Singleton
}

func (e *EmptyEntry) Expand(ctx *EvalContext, emit func(Candidate)) bool {
	return expandSingleton(&e.Singleton, ctx, emit, func(*EvalContext, func(domain.Item)) {})
}

func (e *EmptyEntry) Validate(vc ValidationContext) { e.validate(vc) }
func (e *EmptyEntry) Type() string                  { return "empty" }

// DynamicEntry asks a collaborator registered on the parameters for items.
type DynamicEntry struct {
	Singleton
	Name string
}

func (e *DynamicEntry) Expand(ctx *EvalContext, emit func(Candidate)) bool {
	return expandSingleton(&e.Singleton, ctx, emit, func(ctx *EvalContext, out func(domain.Item)) {
		ctx.AddDynamicDrops(e.Name, out)
	})
}

func (e *DynamicEntry) Validate(vc ValidationContext) { e.validate(vc) }
func (e *DynamicEntry) Type() string                  { return "dynamic" }

// TableEntry references another loot table. The target is resolved when the
// entry is expanded, so it always sees the currently published snapshot.
// A missing target expands to nothing.
type TableEntry struct {
	Singleton
	Name string
	// Optional suppresses the validation problem for a missing target.
	Optional bool
}

func (e *TableEntry) Expand(ctx *EvalContext, emit func(Candidate)) bool {
	table, ok := ResolveTable(ctx.Resolver(), e.Name)
	if !ok {
		return false
	}
	return expandSingleton(&e.Singleton, ctx, emit, table.GenerateRaw)
}

func (e *TableEntry) Validate(vc ValidationContext) {
	e.validate(vc)
	id := domain.TableID(e.Name)
	if vc.HasVisited(id) {
		vc.Reportf("detected loop: table %s is recursively called", e.Name)
		return
	}
	table, ok := ResolveTable(vc.Resolver(), e.Name)
	if !ok {
		if !e.Optional {
			vc.Reportf("unknown loot table called %s", e.Name)
		}
		return
	}
	table.validateBody(vc.EnterElement("->{"+id.String()+"}", id))
}

func (e *TableEntry) Type() string { return "loot_table" }

// Composite holds the fields shared by entries with children.
type Composite struct {
	Conditions []Condition
	Children   []Entry
}

func (c *Composite) canRun(ctx *EvalContext) bool {
	for _, cond := range c.Conditions {
		if !cond.Test(ctx) {
			return false
		}
	}
	return true
}

func (c *Composite) validate(vc ValidationContext) {
	validateConditions(vc, c.Conditions)
	if len(c.Children) == 0 {
		vc.Report("empty children list")
	}
	for i, child := range c.Children {
		child.Validate(vc.Indexed("children", i))
	}
}

// Alternatives expands the first child that applies.
type Alternatives struct {
	Composite
}

func (a *Alternatives) Expand(ctx *EvalContext, emit func(Candidate)) bool {
	if !a.canRun(ctx) {
		return false
	}
	for _, child := range a.Children {
		if child.Expand(ctx, emit) {
			return true
		}
	}
	return false
}

func (a *Alternatives) Validate(vc ValidationContext) { a.validate(vc) }
func (a *Alternatives) Type() string                  { return "alternatives" }

// Group expands every child.
type Group struct {
	Composite
}

func (g *Group) Expand(ctx *EvalContext, emit func(Candidate)) bool {
	if !g.canRun(ctx) {
		return false
	}
	for _, child := range g.Children {
		child.Expand(ctx, emit)
	}
	return true
}

func (g *Group) Validate(vc ValidationContext) { g.validate(vc) }
func (g *Group) Type() string                  { return "group" }
