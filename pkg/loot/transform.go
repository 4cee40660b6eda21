package loot

import (
	"math"

	"github.com/aretw0/trove/pkg/domain"
)

// Transform rewrites a produced item. Items are values, so the caller's copy is
// never modified.
type Transform interface {
	Apply(item domain.Item, ctx *EvalContext) domain.Item
	Validate(vc ValidationContext)
	Type() string
}

// Conditional gates a leaf transform behind conditions.
type Conditional struct {
	Conditions []Condition
}

func (c Conditional) pass(ctx *EvalContext) bool {
	for _, cond := range c.Conditions {
		if !cond.Test(ctx) {
			return false
		}
	}
	return true
}

func (c Conditional) validate(vc ValidationContext) {
	validateConditions(vc, c.Conditions)
}

// SetCount replaces (or with Add, increments) the stack count.
type SetCount struct {
	Conditional
	Count NumberProvider
	Add   bool
}

func (s *SetCount) Apply(item domain.Item, ctx *EvalContext) domain.Item {
	if !s.pass(ctx) {
		return item
	}
	n := s.Count.Int(ctx)
	if s.Add {
		n += item.Count
	}
	return item.WithCount(max(n, 0))
}

func (s *SetCount) Validate(vc ValidationContext) {
	s.validate(vc)
	s.Count.Validate(vc.ForChild(".count"))
}

func (s *SetCount) Type() string { return "set_count" }

// LimitCount clamps the stack count to optional bounds.
type LimitCount struct {
	Conditional
	Min, Max NumberProvider
}

func (l *LimitCount) Apply(item domain.Item, ctx *EvalContext) domain.Item {
	if !l.pass(ctx) {
		return item
	}
	n := item.Count
	if l.Min != nil {
		n = max(n, l.Min.Int(ctx))
	}
	if l.Max != nil {
		n = min(n, l.Max.Int(ctx))
	}
	return item.WithCount(n)
}

func (l *LimitCount) Validate(vc ValidationContext) {
	l.validate(vc)
	if l.Min != nil {
		l.Min.Validate(vc.ForChild(".min"))
	}
	if l.Max != nil {
		l.Max.Validate(vc.ForChild(".max"))
	}
}

func (l *LimitCount) Type() string { return "limit_count" }

// SetTag stores a value on the stack.
type SetTag struct {
	Conditional
	Key   string
	Value any
}

func (s *SetTag) Apply(item domain.Item, ctx *EvalContext) domain.Item {
	if !s.pass(ctx) {
		return item
	}
	return item.WithTag(s.Key, s.Value)
}

func (s *SetTag) Validate(vc ValidationContext) {
	s.validate(vc)
	if s.Key == "" {
		vc.Report("tag key must not be empty")
	}
}

func (s *SetTag) Type() string { return "set_tag" }

// ExplosionDecay keeps each item of the stack with probability 1/radius.
type ExplosionDecay struct {
	Conditional
}

func (e *ExplosionDecay) Apply(item domain.Item, ctx *EvalContext) domain.Item {
	if !e.pass(ctx) {
		return item
	}
	radius, ok := Param(ctx, domain.ParamExplosionRadius)
	if !ok || radius <= 0 {
		return item
	}
	keep := 1.0 / radius
	n := 0
	for range item.Count {
		if ctx.Random().Float64() <= keep {
			n++
		}
	}
	return item.WithCount(n)
}

func (e *ExplosionDecay) Validate(vc ValidationContext) {
	e.validate(vc)
	vc.ValidateUser(e)
}

func (e *ExplosionDecay) ReferencedParams() []string {
	return []string{domain.ParamExplosionRadius.Name()}
}

func (e *ExplosionDecay) Type() string { return "explosion_decay" }

// Sequence applies its steps left to right.
type Sequence struct {
	Steps []Transform
}

// Compose builds a single transform from steps. No steps yields the identity.
func Compose(steps ...Transform) Transform {
	if len(steps) == 1 {
		return steps[0]
	}
	return &Sequence{Steps: steps}
}

func (s *Sequence) Apply(item domain.Item, ctx *EvalContext) domain.Item {
	for _, step := range s.Steps {
		item = step.Apply(item, ctx)
	}
	return item
}

func (s *Sequence) Validate(vc ValidationContext) {
	for i, step := range s.Steps {
		step.Validate(vc.Indexed("functions", i))
	}
}

func (s *Sequence) Type() string { return "sequence" }

// TransformRef applies a published item modifier. Missing or cyclic references
// leave the item untouched.
type TransformRef struct {
	Conditional
	Name string
}

func (r *TransformRef) Apply(item domain.Item, ctx *EvalContext) domain.Item {
	if !r.pass(ctx) {
		return item
	}
	id := domain.ModifierID(r.Name)
	t, ok := ResolveTransform(ctx.Resolver(), r.Name)
	if !ok {
		return item
	}
	if !ctx.PushVisited(id) {
		ctx.reportCycle(id)
		return item
	}
	defer ctx.PopVisited(id)
	return t.Apply(item, ctx)
}

func (r *TransformRef) Validate(vc ValidationContext) {
	r.validate(vc)
	id := domain.ModifierID(r.Name)
	if vc.HasVisited(id) {
		vc.Reportf("function %s is recursively called", r.Name)
		return
	}
	t, ok := ResolveTransform(vc.Resolver(), r.Name)
	if !ok {
		vc.Reportf("unknown function table called %s", r.Name)
		return
	}
	t.Validate(vc.EnterElement("->{"+id.String()+"}", id))
}

func (r *TransformRef) Type() string { return "reference" }

// applyAll pipes item through transforms and drops it if it became empty.
func applyAll(transforms []Transform, ctx *EvalContext, item domain.Item) (domain.Item, bool) {
	for _, t := range transforms {
		item = t.Apply(item, ctx)
	}
	return item, !item.IsEmpty()
}

func floorInt(f float64) int { return int(math.Floor(f)) }
