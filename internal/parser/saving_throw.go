package parser

import (
	"fmt"
	"regexp"
	"strings"

	"spellbook/internal/spell"
)

var (
	saveSplitRe    = regexp.MustCompile(`\s*;\s*|\s+and\s+|\s+or\s+`)
	saveSemiRe     = regexp.MustCompile(`\s*;\s*`)
	saveModifierRe = regexp.MustCompile(`(?:^|[\s(])([+-]\s?\d+)\b`)
	saveCategoryRe = regexp.MustCompile(`\b(?:rod|staff|wand|poison|death|paraly\w*|poly\w*|petri\w*)\b`)
	saveMarkerRe   = regexp.MustCompile(`\b(?:neg\w*|half|partial|special|spell|breath|save|rod|staff|wand|poison|death|paraly\w*|poly\w*|petri\w*)\b|½|1/2`)
)

const (
	saveAppliesEachTarget = "each_target"
	saveTimingOnEffect    = "on_effect"
)

// ParseSavingThrow parses a legacy saving throw. Several saves joined by
// ";", "and" or "or" become a multiple save in written order, unless the
// text names a standard save category whose own name contains those words.
func ParseSavingThrow(raw string) *spell.SavingThrowSpec {
	in := newInput(raw)
	if in.empty() {
		return nil
	}
	switch {
	case in.lower == "none":
		return &spell.SavingThrowSpec{Kind: spell.SaveNone}
	case in.lower == "special" || strings.Contains(in.lower, "see description"):
		return &spell.SavingThrowSpec{Kind: spell.SaveDMAdjudicated, DMGuidance: in.clean}
	}

	split := saveSplitRe
	if saveCategoryRe.MatchString(in.lower) {
		split = saveSemiRe
	}
	pieces := nonEmpty(split.Split(in.lower, -1))
	saves := make([]spell.SingleSave, 0, len(pieces))
	for _, piece := range pieces {
		save, ok := parseSingleSave(piece)
		if !ok {
			return fallbackSavingThrow(in)
		}
		saves = append(saves, save)
	}
	if len(saves) == 1 {
		return &spell.SavingThrowSpec{Kind: spell.SaveSingle, Single: &saves[0]}
	}
	for i := range saves {
		saves[i].ID = fmt.Sprintf("save_%d", i+1)
	}
	return &spell.SavingThrowSpec{Kind: spell.SaveMultiple, Multiple: saves}
}

func parseSingleSave(piece string) (spell.SingleSave, bool) {
	mod := saveModifierRe.FindStringSubmatch(piece)
	if !saveMarkerRe.MatchString(piece) && mod == nil {
		return spell.SingleSave{}, false
	}
	save := spell.SingleSave{
		SaveType:  spell.SaveSpell,
		SaveVs:    spell.VsSpell,
		AppliesTo: saveAppliesEachTarget,
		Timing:    saveTimingOnEffect,
		OnSuccess: spell.ResultNoEffect,
		OnFailure: spell.ResultFullEffect,
	}
	if mod != nil {
		save.Modifier = integer(strings.ReplaceAll(mod[1], " ", ""))
	}

	switch {
	case strings.Contains(piece, "neg"):
		save.OnSuccess = spell.ResultNoEffect
	case strings.Contains(piece, "half"), strings.Contains(piece, "partial"),
		strings.Contains(piece, "½"), strings.Contains(piece, "1/2"):
		save.OnSuccess = spell.ResultReducedEffect
	case strings.Contains(piece, "special"):
		save.OnSuccess = spell.ResultSpecial
	}

	switch {
	case strings.Contains(piece, "poison"):
		save.SaveType, save.SaveVs = spell.SaveParalyzationPoisonDeath, spell.VsPoison
	case strings.Contains(piece, "death"), strings.Contains(piece, "paraly"):
		save.SaveType, save.SaveVs = spell.SaveParalyzationPoisonDeath, spell.VsDeathMagic
	case strings.Contains(piece, "breath"):
		save.SaveType, save.SaveVs = spell.SaveBreathWeapon, spell.VsBreath
	case strings.Contains(piece, "rod"), strings.Contains(piece, "staff"), strings.Contains(piece, "wand"):
		save.SaveType, save.SaveVs = spell.SaveRodStaffWand, spell.VsOther
	case strings.Contains(piece, "poly"):
		save.SaveType, save.SaveVs = spell.SavePetrificationPolymorph, spell.VsPolymorph
	case strings.Contains(piece, "petri"):
		save.SaveType, save.SaveVs = spell.SavePetrificationPolymorph, spell.VsPetrification
	case strings.Contains(piece, "special"):
		save.SaveType = spell.SaveSpecial
	}
	return save, true
}
