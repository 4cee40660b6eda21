package loot

import (
	"maps"
	"sort"

	"github.com/aretw0/trove/pkg/domain"
)

// DynamicDrop produces items on behalf of an external collaborator.
type DynamicDrop func(emit func(domain.Item))

// EvalParams is the immutable parameter bag a generation call is evaluated against.
type EvalParams struct {
	set     domain.ParamSet
	values  map[string]any
	dynamic map[string]DynamicDrop
	luck    float32
}

// ParamSet returns the set the parameters were created for.
func (p *EvalParams) ParamSet() domain.ParamSet { return p.set }

// Luck returns the luck modifier.
func (p *EvalParams) Luck() float32 { return p.luck }

// Has reports whether the named parameter is present.
func (p *EvalParams) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Value returns the raw value of the named parameter.
func (p *EvalParams) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Names returns the present parameter names in sorted order.
func (p *EvalParams) Names() []string {
	names := make([]string, 0, len(p.values))
	for k := range p.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParamsBuilder accumulates parameters before Create checks them against a set.
type ParamsBuilder struct {
	values  map[string]any
	dynamic map[string]DynamicDrop
	luck    float32
}

// NewParamsBuilder creates an empty builder.
func NewParamsBuilder() *ParamsBuilder {
	return &ParamsBuilder{
		values:  make(map[string]any),
		dynamic: make(map[string]DynamicDrop),
	}
}

// WithParam sets an untyped parameter. A nil value removes the key.
func (b *ParamsBuilder) WithParam(name string, value any) *ParamsBuilder {
	if value == nil {
		delete(b.values, name)
		return b
	}
	b.values[name] = value
	return b
}

// SetParam sets a typed parameter.
func SetParam[T any](b *ParamsBuilder, key domain.ParamKey[T], value T) *ParamsBuilder {
	b.values[key.Name()] = value
	return b
}

// WithLuck sets the luck modifier.
func (b *ParamsBuilder) WithLuck(luck float32) *ParamsBuilder {
	b.luck = luck
	return b
}

// WithDynamicDrop registers a named producer for `dynamic` entries.
func (b *ParamsBuilder) WithDynamicDrop(name string, drop DynamicDrop) *ParamsBuilder {
	b.dynamic[name] = drop
	return b
}

// Create freezes the builder. It fails if any key required by set is absent.
// Keys outside set.Allowed() are kept: sibling systems may contribute extra context.
func (b *ParamsBuilder) Create(set domain.ParamSet) (*EvalParams, error) {
	var missing []string
	for _, key := range set.Required() {
		if _, ok := b.values[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.MissingParamsError{Set: set.Name, Missing: missing}
	}
	return &EvalParams{
		set:     set,
		values:  maps.Clone(b.values),
		dynamic: maps.Clone(b.dynamic),
		luck:    b.luck,
	}, nil
}
