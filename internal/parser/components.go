package parser

import (
	"regexp"
	"strings"

	"spellbook/internal/spell"
)

var (
	componentParensRe  = regexp.MustCompile(`\([^)]*\)`)
	componentSplitRe   = regexp.MustCompile(`[,;+/\s]+`)
	componentLettersRe = regexp.MustCompile(`^[vsm]+$`)
)

// ParseComponents parses a legacy component string such as "V, S, M" or
// "VSM". Tokens it does not recognize are returned so the caller can log
// them; they never set a flag.
func ParseComponents(raw string) (*spell.Components, []string) {
	in := newInput(raw)
	if in.empty() {
		return nil, nil
	}
	text := componentParensRe.ReplaceAllString(in.lower, " ")
	text = strings.ReplaceAll(text, "divine focus", "df")

	out := &spell.Components{}
	var unknown []string
	for _, tok := range componentSplitRe.Split(text, -1) {
		tok = strings.Trim(tok, ".")
		if tok == "" {
			continue
		}
		if setComponent(out, tok) {
			continue
		}
		if componentLettersRe.MatchString(tok) {
			for _, r := range tok {
				setComponent(out, string(r))
			}
			continue
		}
		unknown = append(unknown, tok)
	}
	return out, unknown
}

func setComponent(c *spell.Components, tok string) bool {
	switch tok {
	case "v", "verbal":
		c.Verbal = true
	case "s", "somatic":
		c.Somatic = true
	case "m", "material":
		c.Material = true
	case "f", "focus":
		c.Focus = true
	case "df", "divine-focus":
		c.DivineFocus = true
	case "xp", "x", "experience":
		c.Experience = true
	default:
		return false
	}
	return true
}
