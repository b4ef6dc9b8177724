package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/spell"
)

func TestParseDamageScalingWithCap(t *testing.T) {
	got := ParseDamage("1d6/level (max 10d6)")
	require.NotNil(t, got)
	assert.Equal(t, spell.DamageModeled, got.Kind)
	assert.Equal(t, spell.CombineSum, got.CombineMode)
	require.Len(t, got.Parts, 1)

	part := got.Parts[0]
	assert.Equal(t, "part_1", part.ID)
	assert.Empty(t, part.Base.Terms)
	assert.NotNil(t, part.Base.Terms)
	require.Len(t, part.Scaling, 1)
	rule := part.Scaling[0]
	assert.Equal(t, spell.ScaleAddDicePerStep, rule.Kind)
	assert.Equal(t, spell.DriverCasterLevel, rule.Driver)
	assert.Equal(t, 1, rule.Step)
	assert.Equal(t, &spell.DiceTerm{Count: 1, Sides: 6}, rule.DiceIncrement)
	require.NotNil(t, rule.MaxSteps)
	assert.Equal(t, 10, *rule.MaxSteps)
}

func TestParseDamageParts(t *testing.T) {
	got := ParseDamage("2d4 fire; 1d6 cold")
	require.NotNil(t, got)
	require.Len(t, got.Parts, 2)
	assert.Equal(t, "part_1", got.Parts[0].ID)
	assert.Equal(t, spell.DamageFire, got.Parts[0].DamageType)
	assert.Equal(t, []spell.DiceTerm{{Count: 2, Sides: 4}}, got.Parts[0].Base.Terms)
	assert.Equal(t, "part_2", got.Parts[1].ID)
	assert.Equal(t, spell.DamageCold, got.Parts[1].DamageType)
}

func TestParseDamageModifierAndSave(t *testing.T) {
	got := ParseDamage("3d6+2, save for half")
	require.NotNil(t, got)
	require.Len(t, got.Parts, 1)
	part := got.Parts[0]
	assert.Equal(t, 2, part.Base.FlatModifier)
	assert.Equal(t, spell.DamageSaveHalf, part.Save.Kind)
	assert.Equal(t, spell.DamageUntyped, part.DamageType)
	assert.Equal(t, spell.MRInteractNormal, part.MRInteraction)
}

func TestParseDamageTicks(t *testing.T) {
	got := ParseDamage("1d4 acid per round for 3 rounds")
	require.NotNil(t, got)
	require.Len(t, got.Parts, 1)
	assert.Equal(t, spell.Application{Scope: spell.ApplyPerRound, Ticks: 3, TickDriver: spell.TickFixed}, got.Parts[0].Application)
	assert.Equal(t, spell.DamageAcid, got.Parts[0].DamageType)
}

func TestParseDamageCombineModes(t *testing.T) {
	choice := ParseDamage("1d6 fire or 1d6 cold")
	require.NotNil(t, choice)
	assert.Equal(t, spell.CombineChooseOne, choice.CombineMode)
	assert.Len(t, choice.Parts, 2)

	seq := ParseDamage("1d6 then 2d6")
	require.NotNil(t, seq)
	assert.Equal(t, spell.CombineSequence, seq.CombineMode)
	assert.Len(t, seq.Parts, 2)
}

func TestParseDamageInvalidDiceFallsBack(t *testing.T) {
	for _, raw := range []string{"1d7", "0d6", "-1d6", "2d6 and lots of pain"} {
		got := ParseDamage(raw)
		require.NotNil(t, got, raw)
		assert.True(t, got.IsFallback(), raw)
		assert.Equal(t, spell.DamageDMAdjudicated, got.Kind)
		assert.Equal(t, raw, got.RawLegacyValue)
		assert.Equal(t, raw, got.DMGuidance)
	}
}

func TestParseDamageKeywords(t *testing.T) {
	assert.Nil(t, ParseDamage(""))
	assert.Equal(t, &spell.DamageSpec{Kind: spell.DamageNone}, ParseDamage("None"))

	special := ParseDamage("Special, see description")
	require.NotNil(t, special)
	assert.Equal(t, spell.DamageDMAdjudicated, special.Kind)
	assert.False(t, special.IsFallback())
	assert.Equal(t, "Special, see description", special.DMGuidance)
}
