package hashing

import (
	"crypto/sha256"
	"encoding/hex"

	"spellbook/internal/canonical"
	"spellbook/internal/spell"
)

// ComputeHash validates s and returns the hex SHA-256 of its hash input.
// s must already be canonicalized.
func ComputeHash(s *spell.Canonical) (string, error) {
	if err := Validate(s); err != nil {
		return "", err
	}
	input, err := canonical.HashInput(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:]), nil
}

// Prepare canonicalizes s in place, then hashes it and encodes the full
// canonical_data document.
func Prepare(s *spell.Canonical) (hash string, data []byte, err error) {
	canonical.Canonicalize(s)
	hash, err = ComputeHash(s)
	if err != nil {
		return "", nil, err
	}
	data, err = canonical.Marshal(s)
	if err != nil {
		return "", nil, err
	}
	return hash, data, nil
}
