/*
Package ports defines the driven ports (interfaces) for the Trove engine.

These interfaces decouple the loot core from where asset documents live and
where random-sequence counters are kept.

# Key Interfaces

  - AssetSource: Lists and reads raw asset documents per kind (e.g., from Loam or Memory).
  - Watchable: Signals that the underlying documents changed and a reload is due.
  - SequenceStore: Hands out monotonically increasing counters for named random sequences.
*/
package ports
