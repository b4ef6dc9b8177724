// Package textutil holds the text helpers shared by the canonicalizer, the
// backup manager, and collision detection: NFC whitespace folding, filename
// tokens, and term-frequency fingerprints compared by cosine similarity.
package textutil
