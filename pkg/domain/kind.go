package domain

import (
	"fmt"
	"strings"
)

// Kind identifies one of the loadable asset categories.
type Kind string

const (
	// KindPredicate is a standalone, named condition.
	KindPredicate Kind = "predicate"
	// KindItemModifier is a standalone, named item transform.
	KindItemModifier Kind = "item_modifier"
	// KindLootTable is a complete loot generation unit.
	KindLootTable Kind = "loot_table"
)

// Kinds lists every asset kind in load order.
var Kinds = []Kind{KindPredicate, KindItemModifier, KindLootTable}

// Directory returns the storage directory name used by file-backed sources.
func (k Kind) Directory() string {
	switch k {
	case KindPredicate:
		return "predicates"
	case KindItemModifier:
		return "item_modifiers"
	case KindLootTable:
		return "loot_tables"
	default:
		return string(k)
	}
}

// ParseKind converts a kind name (or its directory name) into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if s == string(k) || s == k.Directory() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown asset kind %q", s)
}

// Identity is the registry key of an asset. Names are unique per kind.
type Identity struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

// ID is a shorthand constructor.
func ID(kind Kind, name string) Identity {
	return Identity{Kind: kind, Name: name}
}

// TableID returns the identity of a loot table.
func TableID(name string) Identity { return Identity{Kind: KindLootTable, Name: name} }

// PredicateID returns the identity of a predicate.
func PredicateID(name string) Identity { return Identity{Kind: KindPredicate, Name: name} }

// ModifierID returns the identity of an item modifier.
func ModifierID(name string) Identity { return Identity{Kind: KindItemModifier, Name: name} }

func (id Identity) String() string {
	return string(id.Kind) + ":" + id.Name
}

// ParseIdentity parses the "kind:name" form produced by String.
func ParseIdentity(s string) (Identity, error) {
	kind, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return Identity{}, fmt.Errorf("malformed identity %q (want kind:name)", s)
	}
	k, err := ParseKind(kind)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Kind: k, Name: name}, nil
}

// EmptyTableName is the name of the synthetic table every snapshot carries.
const EmptyTableName = "empty"

// EmptyTable is the identity of the synthetic empty table.
var EmptyTable = TableID(EmptyTableName)
