package parser

import (
	"regexp"
	"strings"

	"spellbook/internal/spell"
)

var (
	materialGpRe       = regexp.MustCompile(`(?i)(?:worth\s+)?(\d+(?:\.\d+)?)\s*gp\b`)
	materialConsumedRe = regexp.MustCompile(`(?i)\b(?:consumed|expended|destroyed)\b`)
	materialQuantityRe = regexp.MustCompile(`^(\d+)\s+(.+)$`)
	materialParensRe   = regexp.MustCompile(`\(([^)]*)\)`)
	materialClauseRe   = regexp.MustCompile(`^(?:which|that)\b`)
)

// ParseMaterials splits a legacy material component list into entries in
// their written order. "None" and empty input give an empty list.
func ParseMaterials(raw string) []spell.MaterialComponent {
	in := newInput(raw)
	if in.empty() || in.lower == "none" {
		return []spell.MaterialComponent{}
	}
	out := make([]spell.MaterialComponent, 0, 4)
	for _, piece := range splitOutsideParens(in.clean, ",;") {
		lower := strings.ToLower(piece)
		// "..., which is consumed" qualifies the previous item.
		if materialClauseRe.MatchString(lower) && len(out) > 0 {
			prev := &out[len(out)-1]
			if materialConsumedRe.MatchString(lower) {
				prev.IsConsumed = true
			}
			if prev.GpValue == nil {
				if m := materialGpRe.FindStringSubmatch(lower); m != nil {
					prev.GpValue = spell.Float(number(m[1]))
				}
			}
			continue
		}
		out = append(out, parseMaterial(piece))
	}
	return out
}

func parseMaterial(piece string) spell.MaterialComponent {
	lower := strings.ToLower(piece)
	item := spell.MaterialComponent{IsConsumed: materialConsumedRe.MatchString(lower)}
	if m := materialGpRe.FindStringSubmatch(lower); m != nil {
		item.GpValue = spell.Float(number(m[1]))
	}

	var notes []string
	for _, m := range materialParensRe.FindAllStringSubmatch(piece, -1) {
		inner := strings.TrimSpace(m[1])
		rest := materialGpRe.ReplaceAllString(inner, "")
		rest = materialConsumedRe.ReplaceAllString(rest, "")
		if strings.Trim(rest, " ,;.") != "" {
			notes = append(notes, inner)
		}
	}
	item.Description = strings.Join(notes, "; ")

	name := materialParensRe.ReplaceAllString(piece, " ")
	name = materialGpRe.ReplaceAllString(name, " ")
	name = strings.Trim(strings.Join(strings.Fields(name), " "), " ,;.")
	if m := materialQuantityRe.FindStringSubmatch(name); m != nil {
		if q := number(m[1]); q != 1 {
			item.Quantity = spell.Float(q)
		}
		name = m[2]
	}
	item.Name = name
	return item
}

// splitOutsideParens splits s on any of seps that is not inside parentheses.
func splitOutsideParens(s, seps string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && strings.ContainsRune(seps, r):
			parts = appendTrimmed(parts, s[start:i])
			start = i + 1
		}
	}
	return appendTrimmed(parts, s[start:])
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}
