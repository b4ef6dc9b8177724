package parser

import (
	"fmt"
	"regexp"
	"strings"

	"spellbook/internal/spell"
)

var (
	diceTermRe       = regexp.MustCompile(`\b(\d*)d(\d+)\b(?:\s*([+-])\s*(\d+)\b)?`)
	negativeDiceRe   = regexp.MustCompile(`-\s*\d*d\d+\b`)
	damageMaxRe      = regexp.MustCompile(`\(\s*max(?:imum)?\.?\s*(?:of\s+)?(\d+)d(\d+)\s*\)`)
	damageScalingRe  = regexp.MustCompile(`\b(\d*)d(\d+)\b(?:\s*([+-])\s*(\d+)\b)?\s*(?:/|per)\s*(?:(\d+)\s*)?(?:caster\s+)?levels?\b`)
	damageTicksRe    = regexp.MustCompile(`\bfor\s+(\d+)\s+rounds?\b`)
	damagePerRoundRe = regexp.MustCompile(`(?:\bper\s+round\b|/\s*round\b)`)
	damageSumRe      = regexp.MustCompile(`\s*;\s*|\s+and\s+`)
	damageChoiceRe   = regexp.MustCompile(`\s+or\s+`)
	damageSequenceRe = regexp.MustCompile(`\s*[;,]?\s*\bthen\b\s*`)
)

var damageTypeKeywords = []struct {
	keyword string
	kind    spell.DamageType
}{
	{"fire", spell.DamageFire},
	{"cold", spell.DamageCold},
	{"acid", spell.DamageAcid},
	{"elec", spell.DamageElectricity},
	{"lightning", spell.DamageElectricity},
	{"sonic", spell.DamageSonic},
	{"force", spell.DamageForce},
}

// ParseDamage parses a legacy damage string into modeled parts. Dice that
// are not valid polyhedral notation make the whole field fall back.
func ParseDamage(raw string) *spell.DamageSpec {
	in := newInput(raw)
	if in.empty() {
		return nil
	}
	switch {
	case in.lower == "none":
		return &spell.DamageSpec{Kind: spell.DamageNone}
	case in.lower == "special" || strings.Contains(in.lower, "see description"):
		return &spell.DamageSpec{Kind: spell.DamageDMAdjudicated, DMGuidance: in.clean}
	}
	// A die count is always positive; a signed term is not dice notation.
	if negativeDiceRe.MatchString(in.lower) {
		return fallbackDamage(in)
	}

	mode, pieces := splitDamage(in.lower)
	parts := make([]spell.DamagePart, 0, len(pieces))
	for i, piece := range pieces {
		part, ok := parseDamagePart(piece)
		if !ok {
			return fallbackDamage(in)
		}
		part.ID = fmt.Sprintf("part_%d", i+1)
		parts = append(parts, part)
	}
	return &spell.DamageSpec{Kind: spell.DamageModeled, CombineMode: mode, Parts: parts}
}

// splitDamage picks the combine mode from the connective words present.
// "or" only splits when every alternative carries dice of its own.
func splitDamage(lower string) (spell.CombineMode, []string) {
	if damageSequenceRe.MatchString(lower) {
		return spell.CombineSequence, nonEmpty(damageSequenceRe.Split(lower, -1))
	}
	if alts := nonEmpty(damageChoiceRe.Split(lower, -1)); len(alts) > 1 {
		withDice := true
		for _, alt := range alts {
			if !diceTermRe.MatchString(alt) {
				withDice = false
				break
			}
		}
		if withDice {
			return spell.CombineChooseOne, alts
		}
	}
	return spell.CombineSum, nonEmpty(damageSumRe.Split(lower, -1))
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDamagePart(piece string) (spell.DamagePart, bool) {
	part := spell.DamagePart{
		DamageType:    spell.DamageUntyped,
		Base:          spell.DicePool{Terms: []spell.DiceTerm{}},
		Application:   spell.Application{Scope: spell.ApplyPerTarget, Ticks: 1, TickDriver: spell.TickFixed},
		Save:          spell.DamageSave{Kind: spell.DamageSaveNone},
		MRInteraction: spell.MRInteractNormal,
		Notes:         piece,
	}

	var maxDice *spell.DiceTerm
	rest := piece
	if m := damageMaxRe.FindStringSubmatch(rest); m != nil {
		maxDice = &spell.DiceTerm{Count: integer(m[1]), Sides: integer(m[2])}
		rest = damageMaxRe.ReplaceAllString(rest, " ")
	}

	if m := damageScalingRe.FindStringSubmatchIndex(rest); m != nil {
		inc, ok := diceFromMatch(rest, m[2:10])
		if !ok {
			return part, false
		}
		step := 1
		if m[10] >= 0 {
			step = integer(rest[m[10]:m[11]])
		}
		rule := spell.ScalingRule{
			Kind:          spell.ScaleAddDicePerStep,
			Driver:        spell.DriverCasterLevel,
			Step:          max(step, 1),
			DiceIncrement: &spell.DiceTerm{Count: inc.term.Count, Sides: inc.term.Sides},
		}
		if inc.flat != 0 {
			flat := inc.flat
			rule.FlatIncrement = &flat
		}
		if maxDice != nil {
			if !maxDice.Valid() {
				return part, false
			}
			steps := maxDice.Count / inc.term.Count
			rule.MaxSteps = &steps
		}
		part.Scaling = []spell.ScalingRule{rule}
		rest = rest[:m[0]] + " " + rest[m[1]:]
	} else if maxDice != nil && !maxDice.Valid() {
		return part, false
	}

	for _, m := range diceTermRe.FindAllStringSubmatchIndex(rest, -1) {
		d, ok := diceFromMatch(rest, m[2:10])
		if !ok {
			return part, false
		}
		part.Base.Terms = append(part.Base.Terms, d.term)
		part.Base.FlatModifier += d.flat
	}
	if len(part.Base.Terms) == 0 && len(part.Scaling) == 0 {
		return part, false
	}

	for _, kw := range damageTypeKeywords {
		if strings.Contains(piece, kw.keyword) {
			part.DamageType = kw.kind
			break
		}
	}
	switch {
	case strings.Contains(piece, "half"):
		part.Save.Kind = spell.DamageSaveHalf
	case strings.Contains(piece, "neg"):
		part.Save.Kind = spell.DamageSaveNegates
	}
	if m := damageTicksRe.FindStringSubmatch(piece); m != nil {
		part.Application.Scope = spell.ApplyPerRound
		part.Application.Ticks = max(integer(m[1]), 1)
	} else if damagePerRoundRe.MatchString(piece) {
		part.Application.Scope = spell.ApplyPerRound
	}
	return part, true
}

type parsedDice struct {
	term spell.DiceTerm
	flat int
}

// diceFromMatch reads count, sides, sign and modifier submatch offsets.
func diceFromMatch(s string, idx []int) (parsedDice, bool) {
	group := func(i int) string {
		if idx[2*i] < 0 {
			return ""
		}
		return s[idx[2*i]:idx[2*i+1]]
	}
	n := 1
	if c := group(0); c != "" {
		n = integer(c)
	}
	out := parsedDice{term: spell.DiceTerm{Count: n, Sides: integer(group(1))}}
	if !out.term.Valid() {
		return out, false
	}
	if mod := group(3); mod != "" {
		out.flat = integer(mod)
		if group(2) == "-" {
			out.flat = -out.flat
		}
	}
	return out, true
}
