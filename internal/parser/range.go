package parser

import (
	"regexp"
	"strings"

	"spellbook/internal/spell"
)

var (
	rangeAnchorRe = regexp.MustCompile(`\b(?:from|centered on)\s+(?:the\s+)?(caster|self|target|object|fixed point|point of impact)\b`)
	rangeRegionRe = regexp.MustCompile(`\((structure|building|bridge|ship|fortress|clearing|grove|field|courtyard|room|plane)\)`)

	rangeVariableRe  = compile(numPattern, `\s*`, linearUnitPattern, `?\s*\+\s*`, numPattern, `\s*`, linearUnitPattern, `?`, perLevelPattern, `(?:\s+`, linearUnitPattern, `)?`)
	rangePerLevelsRe = compile(numPattern, `\s*`, linearUnitPattern, perLevelsPattern)
	rangePerLevelRe  = compile(numPattern, `\s*`, linearUnitPattern, `?`, perLevelPattern, `(?:\s+`, linearUnitPattern, `)?`)
	rangeSimpleRe    = compile(numPattern, `\s*`, linearUnitPattern)
)

var rangeKeywords = map[string]spell.RangeKind{
	"personal":               spell.RangePersonal,
	"self":                   spell.RangePersonal,
	"0":                      spell.RangePersonal,
	"touch":                  spell.RangeTouch,
	"unlimited":              spell.RangeUnlimited,
	"sight":                  spell.RangeSight,
	"hearing":                spell.RangeHearing,
	"voice":                  spell.RangeVoice,
	"senses":                 spell.RangeSenses,
	"same room":              spell.RangeSameRoom,
	"same structure":         spell.RangeSameStructure,
	"same dungeon level":     spell.RangeSameDungeonLevel,
	"wilderness":             spell.RangeWilderness,
	"same plane":             spell.RangeSamePlane,
	"interplanar":            spell.RangeInterplanar,
	"anywhere on plane":      spell.RangeAnywhereOnPlane,
	"anywhere on the plane":  spell.RangeAnywhereOnPlane,
	"anywhere on same plane": spell.RangeAnywhereOnPlane,
	"domain":                 spell.RangeDomain,
	"special":                spell.RangeSpecial,
}

// rangeContext is what the prefix passes strip out before the cascade runs.
type rangeContext struct {
	requires   []string
	force      spell.RangeKind
	anchor     string
	regionUnit string
}

var rangeRules = []rule[*spell.RangeSpec]{
	{name: "keyword", match: matchRangeKeyword},
	{name: "variable", match: matchRangeVariable},
	{name: "per_levels", match: matchRangePerLevels},
	{name: "per_level", match: matchRangePerLevel},
	{name: "simple", match: matchRangeSimple},
}

// ParseRange parses a legacy range string. It returns nil for empty input.
func ParseRange(raw string) *spell.RangeSpec {
	in := newInput(raw)
	if in.empty() {
		return nil
	}

	ctx, stripped := extractRangeContext(in.lower)
	var out *spell.RangeSpec
	if stripped == "" {
		switch ctx.force {
		case spell.RangeDistanceLOS:
			out = &spell.RangeSpec{Kind: spell.RangeLOS}
		case spell.RangeDistanceLOE:
			out = &spell.RangeSpec{Kind: spell.RangeLOE}
		default:
			// Only an anchor or region marker was present.
			return fallbackRange(in)
		}
	} else {
		matched, _, ok := cascade(rangeRules, in.with(stripped))
		if !ok {
			return fallbackRange(in)
		}
		out = matched
	}
	if out.IsFallback() {
		return out
	}
	if ctx.force != "" && out.Kind == spell.RangeDistance {
		out.Kind = ctx.force
	}
	out.Requires = ctx.requires
	out.Anchor = ctx.anchor
	out.RegionUnit = ctx.regionUnit
	return out
}

func extractRangeContext(lower string) (rangeContext, string) {
	var ctx rangeContext
	if m := rangeAnchorRe.FindStringSubmatch(lower); m != nil {
		switch m[1] {
		case "caster", "self":
			ctx.anchor = "caster"
		case "fixed point":
			ctx.anchor = "fixed"
		case "point of impact":
			ctx.anchor = "point_of_impact"
		default:
			ctx.anchor = m[1]
		}
		lower = strings.Replace(lower, m[0], "", 1)
	}
	if m := rangeRegionRe.FindStringSubmatch(lower); m != nil {
		ctx.regionUnit = m[1]
		lower = strings.Replace(lower, m[0], "", 1)
	}
	switch {
	case strings.Contains(lower, "(los)") || strings.Contains(lower, "line of sight"):
		ctx.requires = []string{spell.RequiresLOS}
		ctx.force = spell.RangeDistanceLOS
		lower = strings.NewReplacer("(los)", "", "line of sight", "").Replace(lower)
	case strings.Contains(lower, "(loe)") || strings.Contains(lower, "line of effect"):
		ctx.requires = []string{spell.RequiresLOE}
		ctx.force = spell.RangeDistanceLOE
		lower = strings.NewReplacer("(loe)", "", "line of effect", "").Replace(lower)
	}
	return ctx, strings.Join(strings.Fields(lower), " ")
}

func matchRangeKeyword(in input) (*spell.RangeSpec, bool) {
	kind, ok := rangeKeywords[in.lower]
	if !ok {
		return nil, false
	}
	out := &spell.RangeSpec{Kind: kind}
	if kind == spell.RangeSpecial {
		out.Text = in.clean
	}
	return out, true
}

func matchRangeVariable(in input) (*spell.RangeSpec, bool) {
	m := rangeVariableRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	first := parseLinearUnit(m[2])
	second := parseLinearUnit(m[4])
	if second == unitNone {
		second = parseLinearUnit(m[5])
	}
	if first != unitNone && second != unitNone && first != second {
		return fallbackRange(in), true
	}
	unit := second
	if unit == unitNone {
		unit = first
	}
	if unit == unitNone {
		return nil, false
	}
	return &spell.RangeSpec{
		Kind:     spell.RangeDistance,
		Unit:     unit.rangeUnit(),
		Distance: spell.Scaled(number(m[1]), number(m[3])),
	}, true
}

func matchRangePerLevels(in input) (*spell.RangeSpec, bool) {
	m := rangePerLevelsRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	unit := parseLinearUnit(m[2])
	divisor := number(m[3])
	if unit == unitNone || divisor <= 0 {
		return nil, false
	}
	distance := spell.PerLevel(number(m[1]) / divisor)
	distance.Rounding = spell.RoundFloor
	return &spell.RangeSpec{Kind: spell.RangeDistance, Unit: unit.rangeUnit(), Distance: distance}, true
}

func matchRangePerLevel(in input) (*spell.RangeSpec, bool) {
	m := rangePerLevelRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	unit := parseLinearUnit(m[2])
	if unit == unitNone {
		unit = parseLinearUnit(m[3])
	}
	if unit == unitNone {
		return nil, false
	}
	return &spell.RangeSpec{Kind: spell.RangeDistance, Unit: unit.rangeUnit(), Distance: spell.PerLevel(number(m[1]))}, true
}

func matchRangeSimple(in input) (*spell.RangeSpec, bool) {
	m := rangeSimpleRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	unit := parseLinearUnit(m[2])
	if unit == unitNone {
		return nil, false
	}
	return &spell.RangeSpec{Kind: spell.RangeDistance, Unit: unit.rangeUnit(), Distance: spell.Fixed(number(m[1]))}, true
}
