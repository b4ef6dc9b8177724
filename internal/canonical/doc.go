// Package canonical normalizes structured spells into the single form used
// for storage and hashing, and encodes that form as deterministic JSON.
//
// Canonicalize is idempotent: running it on its own output changes nothing.
// Marshal emits every key (including provenance metadata) for the
// canonical_data column; HashInput drops spell.ExcludedFromHash first.
package canonical
