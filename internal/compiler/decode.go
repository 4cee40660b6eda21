package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/mitchellh/mapstructure"
)

func child(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path, key string, i int) string {
	return fmt.Sprintf("%s[%d]", child(path, key), i)
}

func asObject(path string, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errAt(path, "expected an object, got %T", v)
	}
	return m, nil
}

func asList(path string, v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, errAt(path, "expected a list, got %T", v)
	}
	return l, nil
}

func typeOf(m map[string]any) string {
	s, _ := m["type"].(string)
	return s
}

// leaf decodes the scalar fields of a node into out.
func leaf(path string, m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

// plain converts json.Number leaves into int64 or float64.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

func decodeList[T any](path, key string, v any, fn func(string, any) (T, error)) ([]T, error) {
	items, err := asList(child(path, key), v)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		node, err := fn(index(path, key, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func decodePredicate(doc any) (loot.Condition, error) {
	if list, ok := doc.([]any); ok {
		terms, err := decodeList("", "terms", list, decodeCondition)
		if err != nil {
			return nil, err
		}
		return &loot.AllOf{Terms: terms}, nil
	}
	return decodeCondition("", doc)
}

func decodeModifier(doc any) (loot.Transform, error) {
	if list, ok := doc.([]any); ok {
		steps, err := decodeList("", "functions", list, decodeTransform)
		if err != nil {
			return nil, err
		}
		return &loot.Sequence{Steps: steps}, nil
	}
	return decodeTransform("", doc)
}

func decodeCondition(path string, v any) (loot.Condition, error) {
	m, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	switch typ := typeOf(m); typ {
	case "all_of", "any_of":
		terms, err := decodeList(path, "terms", m["terms"], decodeCondition)
		if err != nil {
			return nil, err
		}
		if typ == "all_of" {
			return &loot.AllOf{Terms: terms}, nil
		}
		return &loot.AnyOf{Terms: terms}, nil
	case "inverted":
		term, err := decodeCondition(child(path, "term"), m["term"])
		if err != nil {
			return nil, err
		}
		return &loot.Inverted{Term: term}, nil
	case "random_chance":
		var c loot.RandomChance
		return &c, leaf(path, m, &struct {
			Chance *float64 `json:"chance"`
		}{&c.Chance})
	case "random_chance_with_luck":
		var c loot.RandomChanceWithLuck
		return &c, leaf(path, m, &struct {
			Chance         *float64 `json:"chance"`
			LuckMultiplier *float64 `json:"luck_multiplier"`
		}{&c.Chance, &c.LuckMultiplier})
	case "has_param":
		var c loot.HasParam
		if err := leaf(path, m, &struct {
			Param *string `json:"param"`
		}{&c.Param}); err != nil {
			return nil, err
		}
		if c.Param == "" {
			return nil, errAt(path, "has_param requires param")
		}
		return &c, nil
	case "value_check":
		value, err := decodeNumber(child(path, "value"), m["value"])
		if err != nil {
			return nil, err
		}
		c := &loot.ValueCheck{Value: value}
		return c, leaf(path, m, &struct {
			Min **float64 `json:"min"`
			Max **float64 `json:"max"`
		}{&c.Min, &c.Max})
	case "expression":
		var cfg struct {
			Expr     string   `json:"expr"`
			Requires []string `json:"requires"`
		}
		if err := leaf(path, m, &cfg); err != nil {
			return nil, err
		}
		c, err := loot.NewExpression(cfg.Expr, cfg.Requires)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		return c, nil
	case "reference":
		name, err := refName(path, m)
		if err != nil {
			return nil, err
		}
		return &loot.ConditionRef{Name: name}, nil
	default:
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w: condition %q", domain.ErrUnknownType, typ)}
	}
}

func refName(path string, m map[string]any) (string, error) {
	name, _ := m["name"].(string)
	if name == "" {
		return "", errAt(path, "reference requires name")
	}
	return name, nil
}

func decodeConditional(path string, m map[string]any) (loot.Conditional, error) {
	conds, err := decodeList(path, "conditions", m["conditions"], decodeCondition)
	return loot.Conditional{Conditions: conds}, err
}

func decodeTransform(path string, v any) (loot.Transform, error) {
	m, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	typ := typeOf(m)
	if typ == "sequence" {
		steps, err := decodeList(path, "functions", m["functions"], decodeTransform)
		if err != nil {
			return nil, err
		}
		return &loot.Sequence{Steps: steps}, nil
	}

	cond, err := decodeConditional(path, m)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "set_count":
		count, err := decodeNumber(child(path, "count"), m["count"])
		if err != nil {
			return nil, err
		}
		t := &loot.SetCount{Conditional: cond, Count: count}
		return t, leaf(path, m, &struct {
			Add *bool `json:"add"`
		}{&t.Add})
	case "limit_count":
		t := &loot.LimitCount{Conditional: cond}
		if v, ok := m["min"]; ok {
			if t.Min, err = decodeNumber(child(path, "min"), v); err != nil {
				return nil, err
			}
		}
		if v, ok := m["max"]; ok {
			if t.Max, err = decodeNumber(child(path, "max"), v); err != nil {
				return nil, err
			}
		}
		return t, nil
	case "set_tag":
		key, _ := m["key"].(string)
		if key == "" {
			return nil, errAt(path, "set_tag requires key")
		}
		return &loot.SetTag{Conditional: cond, Key: key, Value: plain(m["value"])}, nil
	case "explosion_decay":
		return &loot.ExplosionDecay{Conditional: cond}, nil
	case "reference":
		name, err := refName(path, m)
		if err != nil {
			return nil, err
		}
		return &loot.TransformRef{Conditional: cond, Name: name}, nil
	default:
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w: function %q", domain.ErrUnknownType, typ)}
	}
}

// decodeNumber accepts a bare number or a provider object. An object without
// a type but with min and max is a uniform range.
func decodeNumber(path string, v any) (loot.NumberProvider, error) {
	switch t := v.(type) {
	case nil:
		return nil, errAt(path, "missing number")
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		return loot.Const(f), nil
	case float64:
		return loot.Const(t), nil
	}

	m, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	typ := typeOf(m)
	if typ == "" {
		if _, ok := m["min"]; ok {
			typ = "uniform"
		}
	}
	switch typ {
	case "constant":
		var c loot.Constant
		if err := leaf(path, m, &struct {
			Value *float64 `json:"value"`
		}{&c.Value}); err != nil {
			return nil, err
		}
		return c, nil
	case "uniform":
		lo, err := decodeNumber(child(path, "min"), m["min"])
		if err != nil {
			return nil, err
		}
		hi, err := decodeNumber(child(path, "max"), m["max"])
		if err != nil {
			return nil, err
		}
		return loot.Uniform{Min: lo, Max: hi}, nil
	case "binomial":
		n, err := decodeNumber(child(path, "n"), m["n"])
		if err != nil {
			return nil, err
		}
		p, err := decodeNumber(child(path, "p"), m["p"])
		if err != nil {
			return nil, err
		}
		return loot.Binomial{N: n, P: p}, nil
	case "param":
		var cfg struct {
			Key     string  `json:"key"`
			Default float64 `json:"default"`
		}
		if err := leaf(path, m, &cfg); err != nil {
			return nil, err
		}
		if cfg.Key == "" {
			return nil, errAt(path, "param number requires key")
		}
		return loot.ParamNumber{Key: cfg.Key, Default: cfg.Default}, nil
	default:
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w: number provider %q", domain.ErrUnknownType, typ)}
	}
}

type singletonFields struct {
	Weight  *int `json:"weight"`
	Quality int  `json:"quality"`
}

func decodeSingleton(path string, m map[string]any) (loot.Singleton, error) {
	var f singletonFields
	if err := leaf(path, m, &f); err != nil {
		return loot.Singleton{}, err
	}
	s := loot.Singleton{Weight: 1, Quality: f.Quality}
	if f.Weight != nil {
		s.Weight = *f.Weight
	}
	var err error
	if s.Conditions, err = decodeList(path, "conditions", m["conditions"], decodeCondition); err != nil {
		return s, err
	}
	s.Functions, err = decodeList(path, "functions", m["functions"], decodeTransform)
	return s, err
}

func decodeEntry(path string, v any) (loot.Entry, error) {
	m, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	typ := typeOf(m)
	if typ == "alternatives" || typ == "group" {
		conds, err := decodeList(path, "conditions", m["conditions"], decodeCondition)
		if err != nil {
			return nil, err
		}
		children, err := decodeList(path, "children", m["children"], decodeEntry)
		if err != nil {
			return nil, err
		}
		c := loot.Composite{Conditions: conds, Children: children}
		if typ == "group" {
			return &loot.Group{Composite: c}, nil
		}
		return &loot.Alternatives{Composite: c}, nil
	}

	base, err := decodeSingleton(path, m)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "item":
		e := &loot.ItemEntry{Singleton: base}
		if err := leaf(path, m, &struct {
			Name     *string `json:"name"`
			MaxStack *int    `json:"max_stack"`
		}{&e.Name, &e.MaxStack}); err != nil {
			return nil, err
		}
		if e.Name == "" {
			return nil, errAt(path, "item entry requires name")
		}
		if v, ok := m["count"]; ok {
			if e.Count, err = decodeNumber(child(path, "count"), v); err != nil {
				return nil, err
			}
		}
		return e, nil
	case "empty":
		return &loot.EmptyEntry{Singleton: base}, nil
	case "dynamic":
		name, err := refName(path, m)
		if err != nil {
			return nil, err
		}
		return &loot.DynamicEntry{Singleton: base, Name: name}, nil
	case "loot_table":
		name, err := refName(path, m)
		if err != nil {
			return nil, err
		}
		optional, _ := m["optional"].(bool)
		return &loot.TableEntry{Singleton: base, Name: name, Optional: optional}, nil
	default:
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w: entry %q", domain.ErrUnknownType, typ)}
	}
}

func decodePool(path string, v any) (*loot.Pool, error) {
	m, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	cfg := loot.PoolConfig{}
	cfg.Name, _ = m["name"].(string)
	if r, ok := m["rolls"]; ok {
		if cfg.Rolls, err = decodeNumber(child(path, "rolls"), r); err != nil {
			return nil, err
		}
	}
	if r, ok := m["bonus_rolls"]; ok {
		if cfg.BonusRolls, err = decodeNumber(child(path, "bonus_rolls"), r); err != nil {
			return nil, err
		}
	}
	if cfg.Conditions, err = decodeList(path, "conditions", m["conditions"], decodeCondition); err != nil {
		return nil, err
	}
	if cfg.Functions, err = decodeList(path, "functions", m["functions"], decodeTransform); err != nil {
		return nil, err
	}
	if cfg.Entries, err = decodeList(path, "entries", m["entries"], decodeEntry); err != nil {
		return nil, err
	}
	return loot.NewPool(cfg), nil
}

func decodeTable(name string, doc any) (*loot.Table, error) {
	m, err := asObject("", doc)
	if err != nil {
		return nil, err
	}
	cfg := loot.TableConfig{Params: domain.ParamSetAll}
	if set := typeOf(m); set != "" {
		if cfg.Params, err = domain.LookupParamSet(set); err != nil {
			return nil, &DecodeError{Path: "type", Err: err}
		}
	}
	cfg.RandomSequence, _ = m["random_sequence"].(string)
	if cfg.Pools, err = decodeList("", "pools", m["pools"], decodePool); err != nil {
		return nil, err
	}
	if cfg.Functions, err = decodeList("", "functions", m["functions"], decodeTransform); err != nil {
		return nil, err
	}
	return loot.NewTable(name, cfg), nil
}
