package loot

import (
	"encoding/json"
	"math"

	"github.com/aretw0/trove/pkg/domain"
)

// NumberProvider is a small expression node producing a number per evaluation.
type NumberProvider interface {
	Float(ctx *EvalContext) float64
	Int(ctx *EvalContext) int
	Validate(vc ValidationContext)
	Type() string
}

// Constant always yields the same value.
type Constant struct {
	Value float64
}

// Const is a shorthand for Constant.
func Const(v float64) Constant { return Constant{Value: v} }

func (c Constant) Float(*EvalContext) float64 { return c.Value }
func (c Constant) Int(*EvalContext) int       { return int(math.Round(c.Value)) }
func (c Constant) Validate(ValidationContext) {}
func (c Constant) Type() string               { return "constant" }

// Uniform draws uniformly from [Min, Max].
type Uniform struct {
	Min, Max NumberProvider
}

func (u Uniform) Float(ctx *EvalContext) float64 {
	lo, hi := u.Min.Float(ctx), u.Max.Float(ctx)
	if hi <= lo {
		return lo
	}
	return lo + ctx.Random().Float64()*(hi-lo)
}

func (u Uniform) Int(ctx *EvalContext) int {
	lo, hi := u.Min.Int(ctx), u.Max.Int(ctx)
	if hi <= lo {
		return lo
	}
	return lo + ctx.Random().IntN(hi-lo+1)
}

func (u Uniform) Validate(vc ValidationContext) {
	u.Min.Validate(vc.ForChild(".min"))
	u.Max.Validate(vc.ForChild(".max"))
}

func (u Uniform) Type() string { return "uniform" }

// Binomial counts successes of N trials with probability P.
type Binomial struct {
	N, P NumberProvider
}

func (b Binomial) Int(ctx *EvalContext) int {
	n := b.N.Int(ctx)
	p := b.P.Float(ctx)
	hits := 0
	for range n {
		if ctx.Random().Float64() < p {
			hits++
		}
	}
	return hits
}

func (b Binomial) Float(ctx *EvalContext) float64 { return float64(b.Int(ctx)) }

func (b Binomial) Validate(vc ValidationContext) {
	b.N.Validate(vc.ForChild(".n"))
	b.P.Validate(vc.ForChild(".p"))
}

func (b Binomial) Type() string { return "binomial" }

// ParamNumber reads a numeric evaluation parameter, falling back to Default.
type ParamNumber struct {
	Key     string
	Default float64
}

func (p ParamNumber) Float(ctx *EvalContext) float64 {
	v, ok := ctx.Params().Value(p.Key)
	if !ok {
		return p.Default
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return p.Default
}

func (p ParamNumber) Int(ctx *EvalContext) int { return int(math.Round(p.Float(ctx))) }

func (p ParamNumber) Validate(vc ValidationContext) { vc.ValidateUser(p) }

func (p ParamNumber) ReferencedParams() []string { return []string{p.Key} }

func (p ParamNumber) Type() string { return "param" }

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case domain.Item:
		return float64(n.Count), true
	default:
		return 0, false
	}
}
