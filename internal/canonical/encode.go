package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"

	"spellbook/internal/spell"
)

// Marshal encodes s as canonical JSON: object keys sorted, no HTML
// escaping, no insignificant whitespace, no trailing newline. s should
// already be canonicalized.
func Marshal(s *spell.Canonical) ([]byte, error) {
	doc, err := generic(s)
	if err != nil {
		return nil, err
	}
	return encode(doc)
}

// HashInput returns the canonical bytes with every hash-excluded key removed.
func HashInput(s *spell.Canonical) ([]byte, error) {
	doc, err := generic(s)
	if err != nil {
		return nil, err
	}
	for _, key := range spell.ExcludedFromHash {
		delete(doc, key)
	}
	return encode(doc)
}

// Unmarshal decodes stored canonical_data.
func Unmarshal(data []byte) (*spell.Canonical, error) {
	var s spell.Canonical
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode canonical data: %w", err)
	}
	return &s, nil
}

// generic round-trips s through a map so key order no longer depends on
// struct field order. UseNumber keeps numeric literals exact.
func generic(s *spell.Canonical) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode canonical spell: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode canonical spell: %w", err)
	}
	return doc, nil
}

func encode(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode canonical json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
