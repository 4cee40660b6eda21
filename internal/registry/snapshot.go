package registry

import (
	"slices"
	"time"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
)

// Snapshot is one immutable, published view of every loaded asset.
// It implements loot.Resolver.
type Snapshot struct {
	id        string
	createdAt time.Time
	assets    map[domain.Identity]loot.Asset
	empty     *loot.Table
}

func newSnapshot(id string, assets map[domain.Identity]loot.Asset) *Snapshot {
	empty, ok := assets[domain.EmptyTable].(*loot.Table)
	if !ok {
		empty = loot.NewEmptyTable()
		assets[domain.EmptyTable] = empty
	}
	return &Snapshot{id: id, createdAt: time.Now(), assets: assets, empty: empty}
}

// ID uniquely identifies the snapshot.
func (s *Snapshot) ID() string { return s.id }

// CreatedAt is the publication time.
func (s *Snapshot) CreatedAt() time.Time { return s.createdAt }

// Element implements loot.Resolver.
func (s *Snapshot) Element(id domain.Identity) (loot.Asset, bool) {
	a, ok := s.assets[id]
	return a, ok
}

// LookupTable returns the named table if it is published.
func (s *Snapshot) LookupTable(name string) (*loot.Table, bool) {
	return loot.ResolveTable(s, name)
}

// Table returns the named table, or the empty table if it is not published.
func (s *Snapshot) Table(name string) *loot.Table {
	if t, ok := s.LookupTable(name); ok {
		return t
	}
	return s.empty
}

// Names lists the published names of kind, sorted.
func (s *Snapshot) Names(kind domain.Kind) []string {
	names := []string{}
	for id := range s.assets {
		if id.Kind == kind {
			names = append(names, id.Name)
		}
	}
	slices.Sort(names)
	return names
}

// Len returns the number of published assets, the empty table included.
func (s *Snapshot) Len() int { return len(s.assets) }

// Identities lists every published identity, ordered by kind and then name.
func (s *Snapshot) Identities() []domain.Identity {
	ids := make([]domain.Identity, 0, len(s.assets))
	for id := range s.assets {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b domain.Identity) int {
		if a.Kind != b.Kind {
			return slices.Index(domain.Kinds, a.Kind) - slices.Index(domain.Kinds, b.Kind)
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return ids
}
