package loot

import (
	"slices"

	"github.com/aretw0/trove/pkg/domain"
)

// References lists the assets a directly names, sorted and without
// duplicates. Nested tables are not followed.
func References(a Asset) []domain.Identity {
	var w refWalker
	switch a := a.(type) {
	case *Table:
		for _, p := range a.pools {
			w.pool(p)
		}
		w.transforms(a.functions)
	case Condition:
		w.condition(a)
	case Transform:
		w.transform(a)
	}
	return w.sorted()
}

type refWalker struct {
	seen map[domain.Identity]struct{}
}

func (w *refWalker) add(id domain.Identity) {
	if w.seen == nil {
		w.seen = make(map[domain.Identity]struct{})
	}
	w.seen[id] = struct{}{}
}

func (w *refWalker) sorted() []domain.Identity {
	out := make([]domain.Identity, 0, len(w.seen))
	for id := range w.seen {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b domain.Identity) int {
		if a.Kind != b.Kind {
			return slices.Index(domain.Kinds, a.Kind) - slices.Index(domain.Kinds, b.Kind)
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

func (w *refWalker) pool(p *Pool) {
	for _, e := range p.entries {
		w.entry(e)
	}
	w.conditions(p.conditions)
	w.transforms(p.functions)
}

func (w *refWalker) entry(e Entry) {
	if s, ok := e.(interface{ base() *Singleton }); ok {
		w.conditions(s.base().Conditions)
		w.transforms(s.base().Functions)
	}
	if c, ok := e.(interface{ composite() *Composite }); ok {
		w.conditions(c.composite().Conditions)
		for _, child := range c.composite().Children {
			w.entry(child)
		}
	}
	if t, ok := e.(*TableEntry); ok {
		w.add(domain.TableID(t.Name))
	}
}

func (w *refWalker) conditions(cs []Condition) {
	for _, c := range cs {
		w.condition(c)
	}
}

func (w *refWalker) condition(c Condition) {
	switch c := c.(type) {
	case *AllOf:
		w.conditions(c.Terms)
	case *AnyOf:
		w.conditions(c.Terms)
	case *Inverted:
		w.condition(c.Term)
	case *ConditionRef:
		w.add(domain.PredicateID(c.Name))
	}
}

func (w *refWalker) transforms(ts []Transform) {
	for _, t := range ts {
		w.transform(t)
	}
}

func (w *refWalker) transform(t Transform) {
	if c, ok := t.(interface{ conditionList() []Condition }); ok {
		w.conditions(c.conditionList())
	}
	switch t := t.(type) {
	case *Sequence:
		w.transforms(t.Steps)
	case *TransformRef:
		w.add(domain.ModifierID(t.Name))
	}
}

func (s *Singleton) base() *Singleton            { return s }
func (c *Composite) composite() *Composite       { return c }
func (c Conditional) conditionList() []Condition { return c.Conditions }
