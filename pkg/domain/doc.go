/*
Package domain contains the core vocabulary of the Trove loot engine.

It defines the identities, items and parameter sets that every other package
speaks in. This package is kept pure and free of external dependencies like
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Kind / Identity: the registry key of every loadable asset (predicate, item modifier, loot table).
  - Item: the opaque stack produced by a generation call.
  - ParamKey / ParamSet: typed evaluation parameters and the sets a table may depend on.
  - Problem: a single structural defect reported by validation.
  - LifecycleHooks: callbacks for reload and generation observability.
*/
package domain
