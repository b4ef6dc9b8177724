package parser

import (
	"strings"

	"spellbook/internal/spell"
)

// ParseMagicResistance parses a legacy magic resistance value. Values other
// than the recognized yes/no/partial/special forms fall back.
func ParseMagicResistance(raw string) *spell.MagicResistanceSpec {
	in := newInput(raw)
	if in.empty() {
		return &spell.MagicResistanceSpec{Kind: spell.MRUnknown}
	}
	l := strings.TrimSuffix(in.lower, ".")

	out := &spell.MagicResistanceSpec{AppliesTo: spell.MRWholeSpell}
	switch {
	case l == "yes" || strings.HasPrefix(l, "yes "), strings.HasPrefix(l, "yes("):
		out.Kind = spell.MRNormal
	case l == "no" || l == "none" || l == "0" || strings.HasPrefix(l, "no "):
		out.Kind = spell.MRIgnores
	case strings.Contains(l, "partial") || strings.Contains(l, "applies only to"):
		out.Kind = spell.MRPartial
		out.Partial = &spell.MRPartialRule{Scope: spell.MRByPartID}
		switch {
		case strings.Contains(l, "non-damage") || strings.Contains(l, "nondamage"):
			out.Partial.Scope = spell.MRNonDamageOnly
		case strings.Contains(l, "damage"):
			out.Partial.Scope = spell.MRDamageOnly
		case strings.Contains(l, "primary"):
			out.Partial.Scope = spell.MRPrimaryEffectOnly
		case strings.Contains(l, "secondary"):
			out.Partial.Scope = spell.MRSecondaryEffectsOnly
		}
		out.Notes = in.clean
	case strings.HasPrefix(l, "special"):
		out.Kind = spell.MRSpecial
		out.SpecialRule = in.clean
	default:
		return fallbackMagicResistance(in)
	}

	switch {
	case strings.Contains(l, "harmful"):
		out.AppliesTo = spell.MRHarmfulEffectsOnly
	case strings.Contains(l, "beneficial"):
		out.AppliesTo = spell.MRBeneficialEffectsOnly
	}
	if out.Kind != spell.MRPartial && out.Kind != spell.MRSpecial && l != strings.Fields(l)[0] {
		out.Notes = in.clean
	}
	return out
}
