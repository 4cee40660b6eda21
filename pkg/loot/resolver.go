package loot

import "github.com/aretw0/trove/pkg/domain"

// Asset is any node that can be published in a registry snapshot.
type Asset interface {
	Validate(vc ValidationContext)
}

// Resolver looks up published assets. Unknown identities return false, never an error.
type Resolver interface {
	Element(id domain.Identity) (Asset, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(id domain.Identity) (Asset, bool)

// Element implements Resolver.
func (f ResolverFunc) Element(id domain.Identity) (Asset, bool) { return f(id) }

// MapResolver is a static Resolver, mostly useful in tests.
type MapResolver map[domain.Identity]Asset

// Element implements Resolver.
func (m MapResolver) Element(id domain.Identity) (Asset, bool) {
	a, ok := m[id]
	return a, ok
}

// ResolveTable returns the named table if it is published.
func ResolveTable(r Resolver, name string) (*Table, bool) {
	if r == nil {
		return nil, false
	}
	a, ok := r.Element(domain.TableID(name))
	if !ok {
		return nil, false
	}
	t, ok := a.(*Table)
	return t, ok
}

// ResolveCondition returns the named predicate if it is published.
func ResolveCondition(r Resolver, name string) (Condition, bool) {
	if r == nil {
		return nil, false
	}
	a, ok := r.Element(domain.PredicateID(name))
	if !ok {
		return nil, false
	}
	c, ok := a.(Condition)
	return c, ok
}

// ResolveTransform returns the named item modifier if it is published.
func ResolveTransform(r Resolver, name string) (Transform, bool) {
	if r == nil {
		return nil, false
	}
	a, ok := r.Element(domain.ModifierID(name))
	if !ok {
		return nil, false
	}
	t, ok := a.(Transform)
	return t, ok
}
