package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/spell"
)

func fireball() spell.LegacyRecord {
	return spell.LegacyRecord{
		ID:                 7,
		Name:               "Fireball",
		Level:              3,
		School:             "Evocation",
		ClassList:          "Mage, Wizard",
		Range:              "10 yds + 1 yd/level",
		Components:         "V, S, M",
		MaterialComponents: "A tiny ball of bat guano and sulfur",
		CastingTime:        "3",
		Duration:           "Instantaneous",
		Area:               "20' radius",
		SavingThrow:        "½",
		Damage:             "1d6/level (max 10d6)",
		MagicResistance:    "Yes",
		Description:        "A burst of flame.",
		Tags:               "Fire; Damage",
		Source:             "PHB p. 241",
	}
}

func TestParseRecord(t *testing.T) {
	res := ParseRecord(fireball())
	assert.Empty(t, res.Fallbacks)
	assert.Empty(t, res.UnknownComponents)

	s := res.Spell
	require.NotNil(t, s.ID)
	assert.Equal(t, int64(7), *s.ID)
	assert.Equal(t, spell.SchemaVersion, s.SchemaVersion)
	assert.Equal(t, spell.TraditionArcane, s.Tradition)
	assert.Equal(t, []string{"Mage", "Wizard"}, s.ClassList)
	assert.Equal(t, []string{"Fire", "Damage"}, s.Tags)
	assert.Equal(t, []string{}, s.Subschools)
	assert.Equal(t, []string{}, s.Descriptors)
	assert.Equal(t, []spell.SourceRef{{Book: "PHB", Page: "241"}}, s.SourceRefs)

	require.NotNil(t, s.Range)
	assert.Equal(t, spell.Scaled(10, 1), s.Range.Distance)
	require.NotNil(t, s.Components)
	assert.True(t, s.Components.Material)
	require.Len(t, s.MaterialComponents, 1)
	require.NotNil(t, s.Damage)
	assert.Equal(t, spell.DamageModeled, s.Damage.Kind)
	require.NotNil(t, s.SavingThrow)
	assert.Equal(t, spell.SaveSingle, s.SavingThrow.Kind)
}

func TestParseRecordReportsFallbacks(t *testing.T) {
	rec := fireball()
	rec.Range = "Special (see description)"
	rec.Damage = "1d7"
	rec.Components = "V, S, Q"

	res := ParseRecord(rec)
	assert.Equal(t, []Fallback{
		{Field: spell.FieldRange, Original: "Special (see description)"},
		{Field: spell.FieldDamage, Original: "1d7"},
	}, res.Fallbacks)
	assert.Equal(t, []string{"q"}, res.UnknownComponents)
}

func TestParseRecordTradition(t *testing.T) {
	rec := fireball()
	rec.School = "Conjuration (Summoning)"
	rec.Sphere = "Summoning"

	res := ParseRecord(rec)
	assert.Equal(t, spell.TraditionBoth, res.Spell.Tradition)
	assert.Equal(t, "Conjuration", res.Spell.School)
	assert.Equal(t, []string{"Summoning"}, res.Spell.Subschools)

	rec.School = ""
	assert.Equal(t, spell.TraditionDivine, ParseRecord(rec).Spell.Tradition)
}

func TestParseRecordWithoutIDLeavesItUnset(t *testing.T) {
	rec := fireball()
	rec.ID = 0
	assert.Nil(t, ParseRecord(rec).Spell.ID)
}
