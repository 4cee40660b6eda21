package loot

import (
	"fmt"
	"slices"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
)

// Condition is a boolean test over an evaluation context.
// Tests may draw from the context's random stream but have no other side effects.
type Condition interface {
	Test(ctx *EvalContext) bool
	Validate(vc ValidationContext)
	Type() string
}

// AllOf passes when every term passes. It stops at the first failing term.
type AllOf struct {
	Terms []Condition
}

// All composes conditions. An empty list always passes.
func All(terms ...Condition) Condition {
	if len(terms) == 1 {
		return terms[0]
	}
	return &AllOf{Terms: terms}
}

func (a *AllOf) Test(ctx *EvalContext) bool {
	for _, t := range a.Terms {
		if !t.Test(ctx) {
			return false
		}
	}
	return true
}

func (a *AllOf) Validate(vc ValidationContext) {
	for i, t := range a.Terms {
		t.Validate(vc.Indexed("terms", i))
	}
}

func (a *AllOf) Type() string { return "all_of" }

// AnyOf passes when some term passes. An empty list never passes.
type AnyOf struct {
	Terms []Condition
}

func (a *AnyOf) Test(ctx *EvalContext) bool {
	for _, t := range a.Terms {
		if t.Test(ctx) {
			return true
		}
	}
	return false
}

func (a *AnyOf) Validate(vc ValidationContext) {
	for i, t := range a.Terms {
		t.Validate(vc.Indexed("terms", i))
	}
}

func (a *AnyOf) Type() string { return "any_of" }

// Inverted negates its term.
type Inverted struct {
	Term Condition
}

func (n *Inverted) Test(ctx *EvalContext) bool    { return !n.Term.Test(ctx) }
func (n *Inverted) Validate(vc ValidationContext) { n.Term.Validate(vc.ForChild(".term")) }
func (n *Inverted) Type() string                  { return "inverted" }

// RandomChance passes with a fixed probability.
type RandomChance struct {
	Chance float64
}

func (r *RandomChance) Test(ctx *EvalContext) bool { return ctx.Random().Float64() < r.Chance }

func (r *RandomChance) Validate(vc ValidationContext) {
	if r.Chance < 0 || r.Chance > 1 {
		vc.Reportf("chance must be within [0, 1], got %v", r.Chance)
	}
}

func (r *RandomChance) Type() string { return "random_chance" }

// RandomChanceWithLuck passes with probability Chance + Luck*LuckMultiplier.
type RandomChanceWithLuck struct {
	Chance         float64
	LuckMultiplier float64
}

func (r *RandomChanceWithLuck) Test(ctx *EvalContext) bool {
	return ctx.Random().Float64() < r.Chance+float64(ctx.Luck())*r.LuckMultiplier
}

func (r *RandomChanceWithLuck) Validate(ValidationContext) {}

func (r *RandomChanceWithLuck) Type() string { return "random_chance_with_luck" }

// HasParam passes when the named parameter is present.
type HasParam struct {
	Param string
}

func (h *HasParam) Test(ctx *EvalContext) bool    { return ctx.HasParam(h.Param) }
func (h *HasParam) Validate(vc ValidationContext) { vc.ValidateUser(h) }
func (h *HasParam) ReferencedParams() []string    { return []string{h.Param} }
func (h *HasParam) Type() string                  { return "has_param" }

// ValueCheck passes when Value lies within the optional bounds.
type ValueCheck struct {
	Value    NumberProvider
	Min, Max *float64
}

func (v *ValueCheck) Test(ctx *EvalContext) bool {
	n := v.Value.Float(ctx)
	if v.Min != nil && n < *v.Min {
		return false
	}
	if v.Max != nil && n > *v.Max {
		return false
	}
	return true
}

func (v *ValueCheck) Validate(vc ValidationContext) {
	v.Value.Validate(vc.ForChild(".value"))
	if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
		vc.Reportf("range is empty: min %v > max %v", *v.Min, *v.Max)
	}
}

func (v *ValueCheck) Type() string { return "value_check" }

// Expression evaluates an expr-lang boolean expression. The environment exposes
// every evaluation parameter by name plus `luck`.
type Expression struct {
	Source   string
	Requires []string
	program  *vm.Program
}

// NewExpression compiles src. Requires is the sorted union of the built-in
// parameters the expression reads and the extra names listed in requires.
func NewExpression(src string, requires []string) (*Expression, error) {
	program, err := expr.Compile(src, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}
	node := program.Node()
	refs := &identCollector{declared: map[string]bool{"luck": true}}
	ast.Walk(&node, refs)

	names := append([]string{}, requires...)
	for _, name := range refs.names {
		if !refs.declared[name] && domain.ParamSetAll.IsAllowed(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return &Expression{Source: src, Requires: slices.Compact(names), program: program}, nil
}

// identCollector records identifiers and the let variables that shadow them.
type identCollector struct {
	names    []string
	declared map[string]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.names = append(c.names, n.Value)
	case *ast.VariableDeclaratorNode:
		c.declared[n.Name] = true
	}
}

func (e *Expression) Test(ctx *EvalContext) bool {
	env := make(map[string]any, len(ctx.Params().values)+1)
	for k, v := range ctx.Params().values {
		env[k] = v
	}
	env["luck"] = float64(ctx.Luck())

	out, err := expr.Run(e.program, env)
	if err != nil {
		ctx.Logger().Debug("expression evaluation failed", "expr", e.Source, "err", err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (e *Expression) Validate(vc ValidationContext) { vc.ValidateUser(e) }
func (e *Expression) ReferencedParams() []string    { return e.Requires }
func (e *Expression) Type() string                  { return "expression" }

// ConditionRef delegates to a published predicate. Unknown or cyclic references fail.
type ConditionRef struct {
	Name string
}

func (r *ConditionRef) Test(ctx *EvalContext) bool {
	id := domain.PredicateID(r.Name)
	cond, ok := ResolveCondition(ctx.Resolver(), r.Name)
	if !ok {
		return false
	}
	if !ctx.PushVisited(id) {
		ctx.reportCycle(id)
		return false
	}
	defer ctx.PopVisited(id)
	return cond.Test(ctx)
}

func (r *ConditionRef) Validate(vc ValidationContext) {
	id := domain.PredicateID(r.Name)
	if vc.HasVisited(id) {
		vc.Reportf("condition %s is recursively called", r.Name)
		return
	}
	cond, ok := ResolveCondition(vc.Resolver(), r.Name)
	if !ok {
		vc.Reportf("unknown condition table called %s", r.Name)
		return
	}
	cond.Validate(vc.EnterElement("->{"+id.String()+"}", id))
}

func (r *ConditionRef) Type() string { return "reference" }
