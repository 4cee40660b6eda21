package dsl

// Node is one document fragment: a condition, function, entry or number.
type Node map[string]any

func node(typ string, kv ...any) Node {
	n := Node{"type": typ}
	for i := 0; i+1 < len(kv); i += 2 {
		n[kv[i].(string)] = kv[i+1]
	}
	return n
}

func appendTo(n Node, key string, values ...Node) Node {
	list, _ := n[key].([]Node)
	n[key] = append(list, values...)
	return n
}

// When adds conditions to an entry, pool-level function or modifier.
func (n Node) When(conds ...Node) Node { return appendTo(n, "conditions", conds...) }

// Apply adds item functions to an entry.
func (n Node) Apply(fns ...Node) Node { return appendTo(n, "functions", fns...) }

// Weight sets the selection weight of an entry.
func (n Node) Weight(w int) Node { n["weight"] = w; return n }

// Quality sets how much luck shifts the weight of an entry.
func (n Node) Quality(q int) Node { n["quality"] = q; return n }

// Count sets the stack size of an item entry. It accepts a number or a number Node.
func (n Node) Count(count any) Node { n["count"] = count; return n }

// MaxStack overrides the stack limit of an item entry.
func (n Node) MaxStack(size int) Node { n["max_stack"] = size; return n }

// Optional silences the missing-target problem of a table reference.
func (n Node) Optional() Node { n["optional"] = true; return n }

// Entries

func Item(name string) Node              { return node("item", "name", name) }
func Empty() Node                        { return node("empty") }
func Dynamic(name string) Node           { return node("dynamic", "name", name) }
func TableRef(name string) Node          { return node("loot_table", "name", name) }
func Alternatives(children ...Node) Node { return node("alternatives", "children", children) }
func Group(children ...Node) Node        { return node("group", "children", children) }

// Conditions

func AllOf(terms ...Node) Node  { return node("all_of", "terms", terms) }
func AnyOf(terms ...Node) Node  { return node("any_of", "terms", terms) }
func Not(term Node) Node        { return node("inverted", "term", term) }
func Chance(p float64) Node     { return node("random_chance", "chance", p) }
func HasParam(name string) Node { return node("has_param", "param", name) }

// ChanceWithLuck passes with probability chance + luck*multiplier.
func ChanceWithLuck(chance, multiplier float64) Node {
	return node("random_chance_with_luck", "chance", chance, "luck_multiplier", multiplier)
}

// Between passes when value lies in [lo, hi].
func Between(value any, lo, hi float64) Node {
	return node("value_check", "value", value, "min", lo, "max", hi)
}

// Expr is an expression over the parameters and luck. requires names the
// parameters it reads.
func Expr(src string, requires ...string) Node {
	n := node("expression", "expr", src)
	if len(requires) > 0 {
		n["requires"] = requires
	}
	return n
}

// PredicateRef evaluates a published predicate.
func PredicateRef(name string) Node { return node("reference", "name", name) }

// Functions

func SetCount(count any) Node { return node("set_count", "count", count) }
func AddCount(count any) Node { return node("set_count", "count", count, "add", true) }
func ExplosionDecay() Node    { return node("explosion_decay") }
func Steps(fns ...Node) Node  { return node("sequence", "functions", fns) }

// SetTag stores value under key on every item.
func SetTag(key string, value any) Node {
	return node("set_tag", "key", key, "value", value)
}

// LimitCount clamps the stack. A nil bound is open.
func LimitCount(lo, hi any) Node {
	n := node("limit_count")
	if lo != nil {
		n["min"] = lo
	}
	if hi != nil {
		n["max"] = hi
	}
	return n
}

// ModifierRef applies a published item modifier.
func ModifierRef(name string) Node { return node("reference", "name", name) }

// Numbers

func Constant(v float64) Node { return node("constant", "value", v) }
func Uniform(lo, hi any) Node { return node("uniform", "min", lo, "max", hi) }
func Binomial(n, p any) Node  { return node("binomial", "n", n, "p", p) }
func FromParam(key string, def float64) Node {
	return node("param", "key", key, "default", def)
}
