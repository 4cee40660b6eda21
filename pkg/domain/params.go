package domain

import (
	"fmt"
	"slices"
	"sort"
)

// ParamKey names a typed evaluation parameter.
// The type parameter only exists at compile time; values are stored untyped.
type ParamKey[T any] struct {
	name string
}

// NewParamKey declares a parameter key.
func NewParamKey[T any](name string) ParamKey[T] {
	return ParamKey[T]{name: name}
}

// Name returns the wire name of the key.
func (k ParamKey[T]) Name() string { return k.name }

func (k ParamKey[T]) String() string { return k.name }

// Position is a point in the world.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Entity is the slice of a game object the engine may inspect.
type Entity struct {
	ID   string         `json:"id" yaml:"id"`
	Type string         `json:"type" yaml:"type"`
	Tags map[string]any `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Built-in parameter keys supplied by the game collaborators.
var (
	ParamThisEntity         = NewParamKey[Entity]("this_entity")
	ParamKillerEntity       = NewParamKey[Entity]("killer_entity")
	ParamDirectKillerEntity = NewParamKey[Entity]("direct_killer_entity")
	ParamLastDamagePlayer   = NewParamKey[Entity]("last_damage_player")
	ParamDamageSource       = NewParamKey[string]("damage_source")
	ParamOrigin             = NewParamKey[Position]("origin")
	ParamTool               = NewParamKey[Item]("tool")
	ParamBlockState         = NewParamKey[string]("block_state")
	ParamBlockEntity        = NewParamKey[map[string]any]("block_entity")
	ParamExplosionRadius    = NewParamKey[float64]("explosion_radius")
)

// ParamSet constrains which parameters an asset may depend on.
// Required keys must be present when evaluation parameters are created;
// Allowed keys (a superset of Required) are the only ones validation accepts.
type ParamSet struct {
	Name     string
	required []string
	allowed  []string
}

// NewParamSet builds a set from required and optional key names.
func NewParamSet(name string, required []string, optional []string) ParamSet {
	req := slices.Clone(required)
	sort.Strings(req)
	allowed := append(slices.Clone(required), optional...)
	sort.Strings(allowed)
	return ParamSet{Name: name, required: req, allowed: slices.Compact(allowed)}
}

// Required returns the keys that must be supplied.
func (s ParamSet) Required() []string { return s.required }

// Allowed returns every key the set accepts.
func (s ParamSet) Allowed() []string { return s.allowed }

// IsRequired reports whether name must be supplied.
func (s ParamSet) IsRequired(name string) bool {
	_, ok := slices.BinarySearch(s.required, name)
	return ok
}

// IsAllowed reports whether name may be referenced.
func (s ParamSet) IsAllowed(name string) bool {
	_, ok := slices.BinarySearch(s.allowed, name)
	return ok
}

func (s ParamSet) String() string {
	return fmt.Sprintf("%s[required=%v allowed=%v]", s.Name, s.required, s.allowed)
}

// Built-in parameter sets.
var (
	ParamSetEmpty = NewParamSet("empty", nil, nil)
	ParamSetChest = NewParamSet("chest",
		[]string{ParamOrigin.Name()},
		[]string{ParamThisEntity.Name()})
	ParamSetEntity = NewParamSet("entity",
		[]string{ParamThisEntity.Name(), ParamOrigin.Name(), ParamDamageSource.Name()},
		[]string{ParamKillerEntity.Name(), ParamDirectKillerEntity.Name(), ParamLastDamagePlayer.Name()})
	ParamSetBlock = NewParamSet("block",
		[]string{ParamBlockState.Name(), ParamOrigin.Name(), ParamTool.Name()},
		[]string{ParamThisEntity.Name(), ParamBlockEntity.Name(), ParamExplosionRadius.Name()})
	ParamSetFishing = NewParamSet("fishing",
		[]string{ParamOrigin.Name(), ParamTool.Name()},
		[]string{ParamThisEntity.Name()})
	ParamSetGift = NewParamSet("gift",
		[]string{ParamOrigin.Name(), ParamThisEntity.Name()},
		nil)
	ParamSetCommand = NewParamSet("command",
		[]string{ParamOrigin.Name()},
		[]string{ParamThisEntity.Name()})
	ParamSetAll = NewParamSet("all", nil, []string{
		ParamThisEntity.Name(), ParamKillerEntity.Name(), ParamDirectKillerEntity.Name(),
		ParamLastDamagePlayer.Name(), ParamDamageSource.Name(), ParamOrigin.Name(),
		ParamTool.Name(), ParamBlockState.Name(), ParamBlockEntity.Name(),
		ParamExplosionRadius.Name(),
	})
)

var paramSets = map[string]ParamSet{}

func init() {
	for _, s := range []ParamSet{
		ParamSetEmpty, ParamSetChest, ParamSetEntity, ParamSetBlock,
		ParamSetFishing, ParamSetGift, ParamSetCommand, ParamSetAll,
	} {
		paramSets[s.Name] = s
	}
}

// LookupParamSet returns a built-in set by name.
func LookupParamSet(name string) (ParamSet, error) {
	s, ok := paramSets[name]
	if !ok {
		return ParamSet{}, fmt.Errorf("%w: %q", ErrUnknownParamSet, name)
	}
	return s, nil
}
