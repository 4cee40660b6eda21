/*
Package dsl provides a Go DSL for programmatically constructing Trove assets.

It builds the same documents the data files hold, so everything written with
it goes through the regular parser and validation. This is useful for tests,
generated content and leveraging IDE autocompletion.

Example usage:

	b := dsl.New()

	b.Predicate("raining", dsl.HasParam("weather"))
	b.Modifier("stack", dsl.SetCount(dsl.Uniform(1, 4)))

	b.Table("chests/village").
		Type("chest").
		Pool(dsl.Pool().Rolls(2).Add(
			dsl.Item("gem").Weight(1),
			dsl.Item("bread").Weight(3).Apply(dsl.ModifierRef("stack")),
			dsl.TableRef("chests/bonus").When(dsl.Not(dsl.PredicateRef("raining"))),
		))

	src, err := b.Build()
	// ... pass src to trove.New("", trove.WithSource(src))
*/
package dsl
