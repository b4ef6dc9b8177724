// Package hashing validates canonical spells and derives their content hash.
//
// ComputeHash is pure: it validates, encodes the hash input with package
// canonical, and returns the lowercase hex SHA-256 of those bytes. Spells
// that fail validation never receive a hash.
package hashing
