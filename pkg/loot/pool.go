package loot

import (
	"github.com/aretw0/trove/pkg/domain"
)

// PoolConfig describes a pool. Rolls defaults to one.
type PoolConfig struct {
	Name       string
	Entries    []Entry
	Conditions []Condition
	Functions  []Transform
	Rolls      NumberProvider
	BonusRolls NumberProvider
}

// Pool is a weighted selection unit rolled a variable number of times.
type Pool struct {
	name       string
	entries    []Entry
	conditions []Condition
	functions  []Transform
	rolls      NumberProvider
	bonusRolls NumberProvider
}

// NewPool builds an immutable pool.
func NewPool(cfg PoolConfig) *Pool {
	p := &Pool{
		name:       cfg.Name,
		entries:    cfg.Entries,
		conditions: cfg.Conditions,
		functions:  cfg.Functions,
		rolls:      cfg.Rolls,
		bonusRolls: cfg.BonusRolls,
	}
	if p.rolls == nil {
		p.rolls = Const(1)
	}
	if p.bonusRolls == nil {
		p.bonusRolls = Const(0)
	}
	return p
}

// Name returns the optional pool name.
func (p *Pool) Name() string { return p.name }

// Entries returns the configured entries.
func (p *Pool) Entries() []Entry { return p.entries }

// Generate rolls the pool and sends every produced item to out.
func (p *Pool) Generate(ctx *EvalContext, out func(domain.Item)) {
	for _, c := range p.conditions {
		if !c.Test(ctx) {
			return
		}
	}
	if len(p.functions) > 0 {
		next := out
		out = func(item domain.Item) {
			if item, ok := applyAll(p.functions, ctx, item); ok {
				next(item)
			}
		}
	}

	n := p.rolls.Int(ctx) + floorInt(p.bonusRolls.Float(ctx)*float64(ctx.Luck()))
	for range n {
		p.roll(ctx, out)
	}
}

// roll expands the entries and selects one candidate by weight.
// A single candidate is chosen without consuming randomness.
func (p *Pool) roll(ctx *EvalContext, out func(domain.Item)) {
	luck := ctx.Luck()
	var (
		candidates []Candidate
		total      int
	)
	for _, e := range p.entries {
		e.Expand(ctx, func(c Candidate) {
			if w := c.Weight(luck); w > 0 {
				candidates = append(candidates, c)
				total += w
			}
		})
	}

	switch {
	case len(candidates) == 0 || total == 0:
		return
	case len(candidates) == 1:
		candidates[0].Create(ctx, out)
		return
	}

	r := ctx.Random().IntN(total)
	for _, c := range candidates {
		r -= c.Weight(luck)
		if r < 0 {
			c.Create(ctx, out)
			return
		}
	}
}

// Validate checks the pool against the context's parameter set.
func (p *Pool) Validate(vc ValidationContext) {
	validateConditions(vc, p.conditions)
	validateTransforms(vc, p.functions)
	for i, e := range p.entries {
		e.Validate(vc.Indexed("entries", i))
	}
	p.rolls.Validate(vc.ForChild(".rolls"))
	p.bonusRolls.Validate(vc.ForChild(".bonus_rolls"))
}
