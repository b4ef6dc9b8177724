package migration

import (
	"context"
	"errors"
	"log/slog"

	"spellbook/internal/hashing"
	"spellbook/internal/logging"
	"spellbook/internal/parser"
	"spellbook/internal/spell"
	"spellbook/internal/store"
)

// Prepared is the canonical form derived from one legacy row. Err is a
// *hashing.ValidationError when the row cannot be hashed; Hash and Data are
// empty in that case.
type Prepared struct {
	Spell             spell.Canonical
	Hash              string
	Data              []byte
	Fallbacks         []parser.Fallback
	UnknownComponents []string
	Err               error
}

// Valid reports whether the row produced a hash.
func (p Prepared) Valid() bool { return p.Err == nil && p.Hash != "" }

// Prepare parses, canonicalizes, validates and hashes rec.
func Prepare(rec spell.LegacyRecord) Prepared {
	res := parser.ParseRecord(rec)
	out := Prepared{Spell: res.Spell, Fallbacks: res.Fallbacks, UnknownComponents: res.UnknownComponents}
	out.Hash, out.Data, out.Err = hashing.Prepare(&out.Spell)
	return out
}

// IsValidationError reports whether err rejects a single record rather than
// the whole run.
func IsValidationError(err error) bool {
	var verr *hashing.ValidationError
	return errors.As(err, &verr)
}

// LogFallbacks writes one field_fallback line per fallback.
func LogFallbacks(logger *slog.Logger, id int64, fallbacks []parser.Fallback) {
	for _, fb := range fallbacks {
		logger.Info("legacy field kept as fallback",
			logging.String(logging.FieldEventType, logging.EventFieldFallback),
			logging.SpellID(id),
			logging.Field(fb.Field),
			logging.String("raw_legacy_value", fb.Original),
		)
	}
}

// LogUnknownComponents warns once per component token the parser dropped.
func LogUnknownComponents(logger *slog.Logger, id int64, tokens []string) {
	for _, tok := range tokens {
		logging.WarnWithContext(logger, "unknown component token dropped", logging.EventUnknownComponent,
			logging.SpellID(id),
			logging.Field(spell.FieldComponents),
			logging.String("token", tok),
			logging.String(logging.FieldImpact, "token left out of the canonical components"),
		)
	}
}

// HashLookup finds the spells holding a content hash. *store.Tx satisfies it.
type HashLookup interface {
	SpellsByHash(ctx context.Context, hash string) ([]*store.SpellRow, error)
}

// NewHashCollision names the spell already holding hash. Lookup failures
// leave the other side blank rather than masking the collision.
func NewHashCollision(ctx context.Context, src HashLookup, id int64, name, hash string) *HashCollisionError {
	collision := &HashCollisionError{SpellID: id, Name: name, Hash: hash}
	holders, err := src.SpellsByHash(ctx, hash)
	if err != nil {
		return collision
	}
	for _, holder := range holders {
		if holder.ID != id {
			collision.OtherID = holder.ID
			collision.OtherName = holder.Name
			break
		}
	}
	return collision
}
