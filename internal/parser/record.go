package parser

import (
	"regexp"
	"strings"

	"spellbook/internal/spell"
)

// Fallback records a legacy field that could not be structured. Original
// is the verbatim column value, also kept as raw_legacy_value.
type Fallback struct {
	Field    string
	Original string
}

// Result is everything ParseRecord learned from one legacy row.
type Result struct {
	Spell             spell.Canonical
	Fallbacks         []Fallback
	UnknownComponents []string
}

var (
	listSplitRe   = regexp.MustCompile(`\s*[,;]\s*`)
	schoolParenRe = regexp.MustCompile(`^([^(]+?)\s*\(([^)]*)\)$`)
	sourcePageRe  = regexp.MustCompile(`(?i)^(.*?)[,\s]*\b(?:p|pg|page)\.?\s*(\d+(?:-\d+)?)$`)
)

// ParseRecord builds a canonical spell from every column of a legacy row.
// The result is not yet canonicalized or validated.
func ParseRecord(rec spell.LegacyRecord) Result {
	school, subschools := splitSchool(rec.School)
	sphere := strings.TrimSpace(rec.Sphere)

	out := spell.Canonical{
		SchemaVersion:      spell.SchemaVersion,
		Name:               strings.TrimSpace(rec.Name),
		Tradition:          spell.DeriveTradition(school, sphere),
		School:             school,
		Subschools:         subschools,
		Descriptors:        []string{},
		Sphere:             sphere,
		ClassList:          splitList(rec.ClassList),
		Level:              rec.Level,
		Range:              ParseRange(rec.Range),
		CastingTime:        ParseCastingTime(rec.CastingTime),
		Duration:           ParseDuration(rec.Duration),
		Area:               ParseArea(rec.Area),
		MaterialComponents: ParseMaterials(rec.MaterialComponents),
		Damage:             ParseDamage(rec.Damage),
		SavingThrow:        ParseSavingThrow(rec.SavingThrow),
		MagicResistance:    ParseMagicResistance(rec.MagicResistance),
		Reversible:         rec.Reversible,
		Description:        rec.Description,
		Tags:               splitList(rec.Tags),
		IsQuestSpell:       rec.IsQuestSpell,
		IsCantrip:          rec.IsCantrip,
		SourceRefs:         sourceRefs(rec.Source),
		Edition:            strings.TrimSpace(rec.Edition),
		Author:             strings.TrimSpace(rec.Author),
		License:            strings.TrimSpace(rec.License),
	}
	if rec.ID != 0 {
		id := rec.ID
		out.ID = &id
	}

	res := Result{}
	out.Components, res.UnknownComponents = ParseComponents(rec.Components)
	res.Spell = out
	for _, field := range spell.ParsedFields {
		if fellBack(&res.Spell, field) {
			res.Fallbacks = append(res.Fallbacks, Fallback{Field: field, Original: rec.Value(field)})
		}
	}
	return res
}

func fellBack(s *spell.Canonical, field string) bool {
	switch field {
	case spell.FieldRange:
		return s.Range.IsFallback()
	case spell.FieldDuration:
		return s.Duration.IsFallback()
	case spell.FieldCastingTime:
		return s.CastingTime.IsFallback()
	case spell.FieldArea:
		return s.Area.IsFallback()
	case spell.FieldDamage:
		return s.Damage.IsFallback()
	case spell.FieldSavingThrow:
		return s.SavingThrow.IsFallback()
	case spell.FieldMagicResistance:
		return s.MagicResistance.IsFallback()
	}
	return false
}

// splitSchool separates "Conjuration (Summoning)" into school and subschools.
func splitSchool(raw string) (string, []string) {
	school := strings.TrimSpace(raw)
	if m := schoolParenRe.FindStringSubmatch(school); m != nil {
		return m[1], splitList(m[2])
	}
	return school, []string{}
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range listSplitRe.Split(strings.TrimSpace(raw), -1) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func sourceRefs(raw string) []spell.SourceRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if m := sourcePageRe.FindStringSubmatch(raw); m != nil && strings.TrimSpace(m[1]) != "" {
		return []spell.SourceRef{{Book: strings.TrimSpace(m[1]), Page: m[2]}}
	}
	return []spell.SourceRef{{Book: raw}}
}
