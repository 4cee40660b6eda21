/*
Package trove is a declarative loot-generation engine.

Predicates, item modifiers and loot tables are plain data files. Trove parses
them concurrently, validates the whole graph (disallowed parameters, missing
and cyclic references) and publishes an immutable snapshot. Generation calls
evaluate a table against that snapshot with a seeded random stream, so equal
seeds and parameters always yield the same items.

# Layout

A data directory holds one folder per asset kind:

	data/
	  predicates/raining.yaml
	  item_modifiers/enchant.json
	  loot_tables/chests/village.json

# Usage

	eng, err := trove.New("./data")
	if err != nil {
		log.Fatal(err)
	}
	if report := eng.Report(); report.HasProblems() {
		for _, p := range report.Problems {
			log.Println(p)
		}
	}

	params := loot.NewParamsBuilder().WithParam("origin", domain.Position{})
	res, err := eng.Generate(ctx, "chests/village", params, trove.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}
	for _, item := range res.Items {
		fmt.Println(item.Name, item.Count)
	}

Tables that reference other tables see the snapshot published when the call
started. A reference to a table that does not exist yields nothing, and a
table reached from itself yields nothing for that nested call only.
*/
package trove
