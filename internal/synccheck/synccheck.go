package synccheck

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"spellbook/internal/canonical"
	"spellbook/internal/logging"
	"spellbook/internal/parser"
	"spellbook/internal/spell"
	"spellbook/internal/store"
)

// RowSource loads spell rows. Both *store.Store and *store.Tx satisfy it.
type RowSource interface {
	GetSpell(ctx context.Context, id int64) (*store.SpellRow, error)
}

// Mismatch is one field whose legacy column no longer agrees with
// canonical_data.
type Mismatch struct {
	Field     string `json:"field"`
	Legacy    string `json:"legacy"`
	Canonical string `json:"canonical"`
}

// Result is the outcome of one check.
type Result struct {
	SpellID    int64      `json:"spell_id"`
	Skipped    bool       `json:"skipped,omitempty"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// InSync reports whether no drift was found.
func (r Result) InSync() bool { return len(r.Mismatches) == 0 }

// Fields returns the names of the drifted fields.
func (r Result) Fields() []string {
	out := make([]string, 0, len(r.Mismatches))
	for _, m := range r.Mismatches {
		out = append(out, m.Field)
	}
	return out
}

// Checker runs sync checks against a row source.
type Checker struct {
	src    RowSource
	logger *slog.Logger
}

// New builds a checker reading rows from src.
func New(src RowSource, logger *slog.Logger) *Checker {
	return &Checker{src: src, logger: logging.NewComponentLogger(logger, "synccheck")}
}

// comparedFields are checked in this order. Name and level are not parsed
// but drift there is just as real.
var comparedFields = append([]string{"name", "level"}, spell.ParsedFields...)

// Check compares row id's legacy columns with its canonical_data. Rows
// without canonical data are skipped. Errors only report a failure to load
// or decode the row.
func (c *Checker) Check(ctx context.Context, id int64) (Result, error) {
	result := Result{SpellID: id}
	row, err := c.src.GetSpell(ctx, id)
	if err != nil {
		return result, fmt.Errorf("sync check: %w", err)
	}
	if len(row.CanonicalData) == 0 {
		result.Skipped = true
		return result, nil
	}
	stored, err := canonical.Unmarshal(row.CanonicalData)
	if err != nil {
		return result, fmt.Errorf("sync check spell %d: %w", id, err)
	}
	canonical.Canonicalize(stored)

	derived := parser.ParseRecord(row.LegacyRecord).Spell
	canonical.Canonicalize(&derived)

	for _, field := range comparedFields {
		legacy, err := fieldJSON(&derived, field)
		if err != nil {
			return result, fmt.Errorf("sync check spell %d: %w", id, err)
		}
		current, err := fieldJSON(stored, field)
		if err != nil {
			return result, fmt.Errorf("sync check spell %d: %w", id, err)
		}
		if legacy != current {
			result.Mismatches = append(result.Mismatches, Mismatch{Field: field, Legacy: legacy, Canonical: current})
		}
	}

	if !result.InSync() {
		logging.WarnWithContext(c.logger, "legacy columns drifted from canonical data", logging.EventSyncMismatch,
			logging.SpellID(id),
			logging.String("spell_name", row.Name),
			logging.String("fields", strings.Join(result.Fields(), ",")),
			logging.Int("mismatch_count", len(result.Mismatches)),
			logging.String(logging.FieldErrorHint, "run --recompute-hashes after confirming the legacy columns are correct"),
			logging.String(logging.FieldImpact, "write kept; canonical data may not reflect the legacy row"),
		)
	}
	return result, nil
}

func fieldJSON(s *spell.Canonical, field string) (string, error) {
	var value any
	switch field {
	case "name":
		value = s.Name
	case "level":
		value = s.Level
	case spell.FieldRange:
		value = s.Range
	case spell.FieldDuration:
		value = s.Duration
	case spell.FieldCastingTime:
		value = s.CastingTime
	case spell.FieldArea:
		value = s.Area
	case spell.FieldComponents:
		value = s.Components
	case spell.FieldMaterialComponents:
		value = s.MaterialComponents
	case spell.FieldDamage:
		value = s.Damage
	case spell.FieldSavingThrow:
		value = s.SavingThrow
	case spell.FieldMagicResistance:
		value = s.MagicResistance
	default:
		return "", fmt.Errorf("unknown field %q", field)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", field, err)
	}
	return string(data), nil
}
