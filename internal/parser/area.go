package parser

import (
	"regexp"
	"strings"

	"spellbook/internal/spell"
)

const (
	shapePattern   = `(radius|sphere|cube|cone|square|rectangle|rect|line|wall|cylinder|diameter|circle|hemisphere)`
	subjectPattern = `(creatures?|targets?|persons?|beings?|undead|objects?|structures?)`
	numberWords    = `(\d+|a|an|one|two|three|four|five|six|seven|eight|nine|ten|twelve)`
)

var (
	areaDimensionsRe = compile(numPattern, `\s*`, linearUnitPattern, `?\s*(?:x|by|×)\s*`, numPattern, `\s*`, linearUnitPattern, `?(?:\s*(?:x|by|×)\s*`, numPattern, `\s*`, linearUnitPattern, `?)?(?:\s+`, shapePattern, `)?`)
	areaCountRe      = compile(`(?:up to\s+)?`, numberWords, `(\s*(?:/|per)\s*level)?\s+`, subjectPattern, `(` + perLevelPattern + `)?`)
	areaVolumeRe     = compile(numPattern, `\s*(?:cubic|cu\.?)\s*`, linearUnitPattern)
	areaSurfaceRe    = compile(numPattern, `\s*(?:square|sq\.?)\s*`, linearUnitPattern)
	areaTilesRe      = compile(numPattern, `(\s*(?:/|per)\s*level)?\s*(squares?|hex(?:es)?|rooms?|floors?)(` + perLevelPattern + `)?`)
	areaVariableRe   = compile(numPattern, `\s*`, linearUnitPattern, `?\s*\+\s*`, numPattern, `\s*`, linearUnitPattern, `?`, perLevelPattern, `\s*`, linearUnitPattern, `?\s*-?\s*`, shapePattern)
	areaPerLevelRe   = compile(numPattern, `\s*`, linearUnitPattern, `?`, perLevelPattern, `\s*`, linearUnitPattern, `?\s*-?\s*`, shapePattern)
	areaSimpleRe     = compile(numPattern, `\s*-?\s*`, linearUnitPattern, `?\s*-?\s*`, shapePattern)
	areaTrailingRe   = regexp.MustCompile(`^(.*?)\s+(?:area|burst|spread|emanation)$`)
)

var areaKeywords = map[string]*spell.AreaSpec{
	"point":    {Kind: spell.AreaPoint},
	"caster":   {Kind: spell.AreaScope, Notes: "caster"},
	"self":     {Kind: spell.AreaScope, Notes: "caster"},
	"personal": {Kind: spell.AreaScope, Notes: "caster"},
}

var areaRules = []rule[*spell.AreaSpec]{
	{name: "keyword", match: matchAreaKeyword},
	{name: "dimensions", match: matchAreaDimensions},
	{name: "count", match: matchAreaCount},
	{name: "volume", match: matchAreaVolume},
	{name: "surface", match: matchAreaSurface},
	{name: "tiles", match: matchAreaTiles},
	{name: "variable", match: matchAreaVariable},
	{name: "per_level", match: matchAreaPerLevel},
	{name: "simple", match: matchAreaSimple},
}

// ParseArea parses a legacy area of effect. It returns nil for empty input
// and for the literal "none".
func ParseArea(raw string) *spell.AreaSpec {
	in := newInput(raw)
	if in.empty() || in.lower == "none" {
		return nil
	}
	if m := areaTrailingRe.FindStringSubmatch(in.lower); m != nil {
		in = in.with(m[1])
	}
	out, _, ok := cascade(areaRules, in)
	if !ok {
		return fallbackArea(in)
	}
	return out
}

func matchAreaKeyword(in input) (*spell.AreaSpec, bool) {
	if in.lower == "special" {
		return &spell.AreaSpec{Kind: spell.AreaSpecial, Notes: in.clean}, true
	}
	tmpl, ok := areaKeywords[in.lower]
	if !ok {
		return nil, false
	}
	out := *tmpl
	return &out, true
}

func matchAreaDimensions(in input) (*spell.AreaSpec, bool) {
	m := areaDimensionsRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	unit := lastUnit(m[2], m[4], m[6])
	out := &spell.AreaSpec{Unit: unit.areaUnit()}
	first, second := spell.Fixed(number(m[1])), spell.Fixed(number(m[3]))
	switch {
	case m[5] != "":
		out.Kind = spell.AreaRectPrism
		out.Length, out.Width, out.Height = first, second, spell.Fixed(number(m[5]))
	case m[7] == "wall":
		out.Kind = spell.AreaWall
		out.Length, out.Height = first, second
	case m[7] == "cylinder":
		out.Kind = spell.AreaCylinder
		out.Radius, out.Height = first, second
	default:
		out.Kind = spell.AreaRect
		out.Length, out.Width = first, second
	}
	return out, true
}

// lastUnit returns the right-most unit token given, defaulting to feet.
func lastUnit(tokens ...string) linearUnit {
	unit := unitFeet
	for _, tok := range tokens {
		if u := parseLinearUnit(tok); u != unitNone {
			unit = u
		}
	}
	return unit
}

func matchAreaCount(in input) (*spell.AreaSpec, bool) {
	m := areaCountRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	n := count(m[1])
	if n <= 0 {
		return nil, false
	}
	amount := spell.Fixed(n)
	if m[2] != "" || m[4] != "" {
		amount = spell.PerLevel(n)
	}
	subject := singular(m[3])
	kind := spell.AreaCreatures
	if subject == "object" || subject == "structure" {
		kind = spell.AreaObjects
	}
	return &spell.AreaSpec{Kind: kind, Count: amount, CountSubject: subject}, true
}

func singular(word string) string {
	switch word {
	case "undead":
		return word
	case "persons":
		return "person"
	}
	return strings.TrimSuffix(word, "s")
}

func matchAreaVolume(in input) (*spell.AreaSpec, bool) {
	m := areaVolumeRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	unit := spell.AreaCubicFeet
	if parseLinearUnit(m[2]) == unitYards {
		unit = spell.AreaCubicYards
	} else if parseLinearUnit(m[2]) != unitFeet {
		return nil, false
	}
	return &spell.AreaSpec{Kind: spell.AreaVolume, Unit: unit, Volume: spell.Fixed(number(m[1]))}, true
}

func matchAreaSurface(in input) (*spell.AreaSpec, bool) {
	m := areaSurfaceRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	unit := spell.AreaSquareFeet
	if parseLinearUnit(m[2]) == unitYards {
		unit = spell.AreaSquareYards
	} else if parseLinearUnit(m[2]) != unitFeet {
		return nil, false
	}
	return &spell.AreaSpec{Kind: spell.AreaSurface, Unit: unit, Surface: spell.Fixed(number(m[1]))}, true
}

func matchAreaTiles(in input) (*spell.AreaSpec, bool) {
	m := areaTilesRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	var unit spell.AreaUnit
	switch tile := m[3]; {
	case strings.HasPrefix(tile, "square"):
		unit = spell.AreaSquares
	case strings.HasPrefix(tile, "hex"):
		unit = spell.AreaHexes
	case strings.HasPrefix(tile, "room"):
		unit = spell.AreaRooms
	default:
		unit = spell.AreaFloors
	}
	amount := spell.Fixed(number(m[1]))
	if m[2] != "" || m[4] != "" {
		amount = spell.PerLevel(number(m[1]))
	}
	return &spell.AreaSpec{Kind: spell.AreaTiles, Unit: unit, Count: amount}, true
}

func matchAreaVariable(in input) (*spell.AreaSpec, bool) {
	m := areaVariableRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	first := parseLinearUnit(m[2])
	second := parseLinearUnit(m[4])
	if second == unitNone {
		second = parseLinearUnit(m[5])
	}
	if first != unitNone && second != unitNone && first != second {
		return fallbackArea(in), true
	}
	return shapedArea(m[6], lastUnit(m[2], m[4], m[5]), spell.Scaled(number(m[1]), number(m[3]))), true
}

func matchAreaPerLevel(in input) (*spell.AreaSpec, bool) {
	m := areaPerLevelRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	return shapedArea(m[4], lastUnit(m[2], m[3]), spell.PerLevel(number(m[1]))), true
}

func matchAreaSimple(in input) (*spell.AreaSpec, bool) {
	m := areaSimpleRe.FindStringSubmatch(in.lower)
	if m == nil {
		return nil, false
	}
	size := number(m[1])
	if m[3] == "diameter" {
		size /= 2
	}
	return shapedArea(m[3], lastUnit(m[2]), spell.Fixed(size)), true
}

// shapedArea maps a shape word onto the dimension it measures.
func shapedArea(shape string, unit linearUnit, size *spell.Scalar) *spell.AreaSpec {
	out := &spell.AreaSpec{Unit: unit.areaUnit()}
	switch shape {
	case "radius", "circle", "diameter":
		out.Kind, out.Radius = spell.AreaRadiusCircle, size
	case "sphere", "hemisphere":
		out.Kind, out.Radius = spell.AreaRadiusSphere, size
	case "cube":
		out.Kind, out.Edge = spell.AreaCube, size
	case "cone":
		out.Kind, out.Length = spell.AreaCone, size
	case "square":
		width := *size
		out.Kind, out.Length, out.Width = spell.AreaRect, size, &width
	case "rect", "rectangle":
		out.Kind, out.Length = spell.AreaRect, size
	case "line":
		out.Kind, out.Length = spell.AreaLine, size
	case "wall":
		out.Kind, out.Length = spell.AreaWall, size
	case "cylinder":
		out.Kind, out.Radius = spell.AreaCylinder, size
	default:
		out.Kind = spell.AreaSpecial
	}
	return out
}
