// Package spell defines the structured spell model shared by the parser,
// canonicalizer, hashing, and store layers.
//
// Every structured field is a kind-tagged variant: a closed string enum
// selects which of the optional properties are meaningful. Parsers that
// cannot understand their input return a fallback variant that carries the
// original text in RawLegacyValue, so nothing typed by an editor is lost.
// Canonical is the full record; LegacyRecord mirrors the flat string columns
// the structured form is derived from.
package spell
