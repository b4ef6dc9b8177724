package canonical

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/spell"
)

func sample() *spell.Canonical {
	return &spell.Canonical{
		SchemaVersion: spell.SchemaVersion,
		Name:          "  Fire   Ball ",
		Tradition:     "arcane",
		School:        "evocation",
		ClassList:     []string{"Wizard", "Mage", "Wizard"},
		Level:         3,
		Range: &spell.RangeSpec{
			Kind:     "Distance",
			Unit:     "YD",
			Distance: spell.Scaled(10.0000004, 1),
		},
		MaterialComponents: []spell.MaterialComponent{
			{Name: "sulfur", Quantity: spell.Float(1)},
			{Name: "bat  guano", Quantity: spell.Float(2)},
		},
		Damage: &spell.DamageSpec{
			Kind:        spell.DamageModeled,
			CombineMode: spell.CombineSum,
			Parts: []spell.DamagePart{
				{ID: "part_2", DamageType: "FIRE"},
				{ID: "part_1", DamageType: "fire"},
			},
		},
		SavingThrow: &spell.SavingThrowSpec{
			Kind: spell.SaveMultiple,
			Multiple: []spell.SingleSave{
				{ID: "save_2", SaveType: spell.SaveSpell},
				{ID: "save_1", SaveType: spell.SaveBreathWeapon},
			},
		},
		Description: "Line one.  \r\n\r\nLine   two.",
		Tags:        []string{"Fire", "Fire", "Damage"},
	}
}

func TestCanonicalizeArrays(t *testing.T) {
	s := sample()
	Canonicalize(s)

	assert.Equal(t, []string{"Damage", "Fire"}, s.Tags)
	assert.Equal(t, []string{"Mage", "Wizard"}, s.ClassList)
	assert.Equal(t, []string{}, s.Subschools)
	assert.Equal(t, []string{}, s.Descriptors)
}

func TestCanonicalizeScalarsAndEnums(t *testing.T) {
	s := sample()
	Canonicalize(s)

	assert.Equal(t, "Fire Ball", s.Name)
	assert.Equal(t, spell.TraditionArcane, s.Tradition)
	assert.Equal(t, "Evocation", s.School)
	assert.Equal(t, spell.RangeDistance, s.Range.Kind)
	assert.Equal(t, spell.RangeYards, s.Range.Unit)
	assert.Equal(t, 10.0, *s.Range.Distance.Value)
	assert.Equal(t, "Line one.\n\nLine   two.", s.Description)
}

func TestCanonicalizeOrdering(t *testing.T) {
	s := sample()
	Canonicalize(s)

	// Materials and multiple saves keep entered order; damage parts sort.
	require.Len(t, s.MaterialComponents, 2)
	assert.Equal(t, "sulfur", s.MaterialComponents[0].Name)
	assert.Nil(t, s.MaterialComponents[0].Quantity)
	assert.Equal(t, "bat guano", s.MaterialComponents[1].Name)
	assert.Equal(t, "save_2", s.SavingThrow.Multiple[0].ID)
	assert.Equal(t, "part_1", s.Damage.Parts[0].ID)
	assert.Equal(t, spell.DamageFire, s.Damage.Parts[1].DamageType)
}

func TestCanonicalizeSequencePartsKeepOrder(t *testing.T) {
	s := sample()
	s.Damage.CombineMode = spell.CombineSequence
	Canonicalize(s)
	assert.Equal(t, "part_2", s.Damage.Parts[0].ID)
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	s := sample()
	Canonicalize(s)
	first, err := Marshal(s)
	require.NoError(t, err)

	Canonicalize(s)
	second, err := Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMarshalSortsKeysWithoutHTMLEscaping(t *testing.T) {
	s := sample()
	s.Description = "<b>bold</b> & more"
	Canonicalize(s)

	out, err := Marshal(s)
	require.NoError(t, err)
	text := string(out)
	assert.False(t, strings.HasSuffix(text, "\n"))
	assert.Contains(t, text, "<b>bold</b> & more")
	assert.Less(t, strings.Index(text, `"class_list"`), strings.Index(text, `"description"`))
	assert.Less(t, strings.Index(text, `"description"`), strings.Index(text, `"name"`))
	assert.True(t, json.Valid(out))
}

func TestHashInputDropsExcludedKeys(t *testing.T) {
	s := sample()
	id := int64(42)
	s.ID = &id
	s.SourceRefs = []spell.SourceRef{{Book: "PHB", Page: "241"}}
	s.Author = "someone"
	Canonicalize(s)

	full, err := Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(full), `"source_refs"`)

	hashed, err := HashInput(s)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(hashed, &doc))
	for _, key := range spell.ExcludedFromHash {
		assert.NotContains(t, doc, key)
	}
	assert.Contains(t, doc, "name")
	assert.Contains(t, doc, "tags")
}

func TestUnmarshalRoundTrip(t *testing.T) {
	s := sample()
	Canonicalize(s)
	out, err := Marshal(s)
	require.NoError(t, err)

	back, err := Unmarshal(out)
	require.NoError(t, err)
	again, err := Marshal(back)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.333333, Round(1.0/3))
	assert.Equal(t, 2.5, Round(2.5000000001))
	assert.Equal(t, 0.0, Round(-0.0000001))
}
