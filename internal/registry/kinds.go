package registry

import (
	"github.com/aretw0/trove/internal/compiler"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
)

// kindSpec binds an asset kind to its decoder and the parameter set its
// assets are validated against.
type kindSpec struct {
	kind   domain.Kind
	decode func(p *compiler.Parser, name string, data []byte) (loot.Asset, error)
	params func(a loot.Asset) domain.ParamSet
}

var kindSpecs = []kindSpec{
	{
		kind: domain.KindPredicate,
		decode: func(p *compiler.Parser, name string, data []byte) (loot.Asset, error) {
			return p.Parse(domain.KindPredicate, name, data)
		},
		params: func(loot.Asset) domain.ParamSet { return domain.ParamSetAll },
	},
	{
		kind: domain.KindItemModifier,
		decode: func(p *compiler.Parser, name string, data []byte) (loot.Asset, error) {
			return p.Parse(domain.KindItemModifier, name, data)
		},
		params: func(loot.Asset) domain.ParamSet { return domain.ParamSetAll },
	},
	{
		kind: domain.KindLootTable,
		decode: func(p *compiler.Parser, name string, data []byte) (loot.Asset, error) {
			return p.Parse(domain.KindLootTable, name, data)
		},
		params: func(a loot.Asset) domain.ParamSet {
			if t, ok := a.(*loot.Table); ok {
				return t.Params()
			}
			return domain.ParamSetAll
		},
	},
}

func specFor(kind domain.Kind) kindSpec {
	for _, s := range kindSpecs {
		if s.kind == kind {
			return s
		}
	}
	return kindSpec{kind: kind, params: func(loot.Asset) domain.ParamSet { return domain.ParamSetAll }}
}
