package parser

import (
	"regexp"
	"strings"

	"spellbook/internal/spell"
)

var (
	durationUsageRe     = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(/level)?\s*(uses?|charges?|activations?|strikes?|discharges?)(\s*/level)?$`)
	durationPerLevelsRe = compile(numPattern, `\s*`, timeUnitPattern, perLevelsPattern)
	durationScaledRe    = compile(numPattern, `\s*`, timeUnitPattern, `?\s*\+\s*`, numPattern, `\s*`, timeUnitPattern, perLevelPattern)
	durationPerLevelRe  = compile(numPattern, `\s*`, timeUnitPattern, perLevelPattern)
	durationSimpleRe    = compile(numPattern, `\s*`, timeUnitPattern)
	castingBareRe       = compile(`(\d+)`)
)

var durationKeywords = map[string]spell.DurationKind{
	"instantaneous":   spell.DurationInstant,
	"instant":         spell.DurationInstant,
	"permanent":       spell.DurationPermanent,
	"concentration":   spell.DurationConcentration,
	"until dispelled": spell.DurationUntilDispelled,
	"special":         spell.DurationSpecial,
}

var durationRules = []rule[*spell.DurationSpec]{
	{name: "keyword", match: matchDurationKeyword},
	{name: "prefixed", match: matchDurationPrefixed},
	{name: "usage", match: matchDurationUsage},
	{name: "dual_condition", match: matchDurationDual},
	{name: "timed", match: matchDurationTimed},
}

// ParseDuration parses a legacy duration string. It returns nil for empty
// input.
func ParseDuration(raw string) *spell.DurationSpec {
	in := newInput(raw)
	if in.empty() {
		return nil
	}
	out, _, ok := cascade(durationRules, in)
	if !ok {
		return fallbackDuration(in)
	}
	return out
}

func matchDurationKeyword(in input) (*spell.DurationSpec, bool) {
	kind, ok := durationKeywords[in.lower]
	if !ok {
		return nil, false
	}
	out := &spell.DurationSpec{Kind: kind}
	if kind == spell.DurationSpecial {
		out.Notes = in.clean
	}
	return out, true
}

func matchDurationPrefixed(in input) (*spell.DurationSpec, bool) {
	switch {
	case strings.HasPrefix(in.lower, "until triggered"):
		return &spell.DurationSpec{
			Kind:      spell.DurationUntilTriggered,
			Condition: trimParens(in.tail(len("until triggered"))),
		}, true
	case strings.HasPrefix(in.lower, "planar"):
		return &spell.DurationSpec{
			Kind:  spell.DurationPlanar,
			Notes: trimParens(in.tail(len("planar"))),
		}, true
	case strings.HasPrefix(in.lower, "until "):
		return &spell.DurationSpec{
			Kind:      spell.DurationConditional,
			Condition: strings.TrimSpace(in.tail(len("until "))),
		}, true
	}
	return nil, false
}

func matchDurationUsage(in input) (*spell.DurationSpec, bool) {
	m := durationUsageRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	uses := spell.Fixed(number(m[1]))
	if m[2] != "" || m[4] != "" {
		uses = spell.PerLevel(number(m[1]))
	}
	return &spell.DurationSpec{Kind: spell.DurationUsageLimited, Uses: uses}, true
}

// matchDurationDual handles "<time> or until <condition>".
func matchDurationDual(in input) (*spell.DurationSpec, bool) {
	idx := strings.Index(in.lower, " or until ")
	sep := len(" or until ")
	if idx < 0 {
		idx = strings.Index(in.lower, " until ")
		sep = len(" until ")
	}
	if idx <= 0 {
		return nil, false
	}
	head := in.with(in.lower[:idx])
	out, ok := matchDurationTimed(head)
	if !ok {
		return nil, false
	}
	out.Condition = strings.TrimSpace(in.tail(idx + sep))
	return out, true
}

func matchDurationTimed(in input) (*spell.DurationSpec, bool) {
	unit, scalar, ok := matchTimed(in.lower)
	if !ok || !unit.ValidDuration() {
		return nil, false
	}
	return &spell.DurationSpec{Kind: spell.DurationTime, Unit: unit, Duration: scalar}, true
}

// matchTimed recognizes the per-levels, scaled, per-level, and fixed time
// shapes shared by durations and casting times.
func matchTimed(lower string) (spell.TimeUnit, *spell.Scalar, bool) {
	if m := durationPerLevelsRe.FindStringSubmatch(lower); m != nil {
		divisor := number(m[3])
		unit := parseTimeUnit(m[2])
		if unit == "" || divisor <= 0 {
			return "", nil, false
		}
		scalar := spell.PerLevel(number(m[1]) / divisor)
		scalar.Rounding = spell.RoundFloor
		return unit, scalar, true
	}
	if m := durationScaledRe.FindStringSubmatch(lower); m != nil {
		unit := parseTimeUnit(m[4])
		if base := parseTimeUnit(m[2]); base != "" && base != unit {
			return "", nil, false
		}
		if unit == "" {
			return "", nil, false
		}
		return unit, spell.Scaled(number(m[1]), number(m[3])), true
	}
	if m := durationPerLevelRe.FindStringSubmatch(lower); m != nil {
		unit := parseTimeUnit(m[2])
		if unit == "" {
			return "", nil, false
		}
		return unit, spell.PerLevel(number(m[1])), true
	}
	if m := durationSimpleRe.FindStringSubmatch(lower); m != nil {
		unit := parseTimeUnit(m[2])
		if unit == "" {
			return "", nil, false
		}
		return unit, spell.Fixed(number(m[1])), true
	}
	return "", nil, false
}

func trimParens(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	return strings.TrimSpace(s)
}

var castingRules = []rule[*spell.CastingTime]{
	{name: "keyword", match: matchCastingKeyword},
	{name: "bare", match: matchCastingBare},
	{name: "timed", match: matchCastingTimed},
}

// ParseCastingTime parses a legacy casting time. A bare integer is read as a
// count of segments. It returns nil for empty input.
func ParseCastingTime(raw string) *spell.CastingTime {
	in := newInput(raw)
	if in.empty() {
		return nil
	}
	out, _, ok := cascade(castingRules, in)
	if !ok {
		return fallbackCastingTime(in)
	}
	return out
}

func matchCastingKeyword(in input) (*spell.CastingTime, bool) {
	switch in.lower {
	case "bonus action":
		return &spell.CastingTime{Unit: spell.UnitBonusAction, BaseValue: 1}, true
	case "reaction":
		return &spell.CastingTime{Unit: spell.UnitReaction, BaseValue: 1}, true
	case "special":
		return &spell.CastingTime{Unit: spell.UnitSpecial, Text: in.clean}, true
	}
	return nil, false
}

func matchCastingBare(in input) (*spell.CastingTime, bool) {
	m := castingBareRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	return &spell.CastingTime{Unit: spell.UnitSegment, BaseValue: number(m[1])}, true
}

func matchCastingTimed(in input) (*spell.CastingTime, bool) {
	if m := durationPerLevelsRe.FindStringSubmatch(in.lower); m != nil {
		unit := parseTimeUnit(m[2])
		divisor := number(m[3])
		if unit == "" || !unit.ValidCasting() || divisor <= 0 {
			return nil, false
		}
		return &spell.CastingTime{Unit: unit, PerLevel: number(m[1]), LevelDivisor: divisor}, true
	}
	unit, scalar, ok := matchTimed(in.lower)
	if !ok || !unit.ValidCasting() {
		return nil, false
	}
	out := &spell.CastingTime{Unit: unit}
	if scalar.Value != nil {
		out.BaseValue = *scalar.Value
	}
	if scalar.PerLevel != nil {
		out.PerLevel = *scalar.PerLevel
	}
	return out, true
}
