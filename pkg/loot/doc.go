/*
Package loot is the evaluation core of Trove.

A loot table is an ordered list of pools. Each pool draws a number of rolls and,
per roll, picks one weighted candidate among its entries. Entries may be
terminal producers (items, dynamic drops, nothing) or references to other
tables, expanded against the currently published snapshot at selection time.
Conditions gate pools, entries and transforms; transforms post-process every
produced item.

# Evaluation

	params, err := loot.NewParamsBuilder().
		WithLuck(1.5).
		WithParam(domain.ParamOrigin.Name(), domain.Position{}).
		Create(table.Params())
	if err != nil {
		return err // programming error: a required parameter is missing
	}
	ctx := loot.NewContext(params, snapshot, loot.WithSeed(42))
	items := table.GenerateItems(ctx)

Every EvalContext owns its random stream and its visited set. Contexts must not
be shared between goroutines; everything reachable from a Resolver is immutable
and may be read concurrently.

# Validation

ValidationContext is a value. ForChild and EnterElement return extended copies
that share the problem sink, so sibling nodes never see each other's path.
*/
package loot
