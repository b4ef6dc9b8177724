package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/spell"
)

func TestParseComponents(t *testing.T) {
	tests := []struct {
		raw  string
		want spell.Components
	}{
		{"V, S, M", spell.Components{Verbal: true, Somatic: true, Material: true}},
		{"VSM", spell.Components{Verbal: true, Somatic: true, Material: true}},
		{"V,S", spell.Components{Verbal: true, Somatic: true}},
		{"V, S, M (a pinch of sulfur)", spell.Components{Verbal: true, Somatic: true, Material: true}},
		{"V, S, DF", spell.Components{Verbal: true, Somatic: true, DivineFocus: true}},
		{"Verbal, divine focus", spell.Components{Verbal: true, DivineFocus: true}},
		{"V, F, XP", spell.Components{Verbal: true, Focus: true, Experience: true}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, unknown := ParseComponents(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
			assert.Empty(t, unknown)
		})
	}
}

func TestParseComponentsReportsUnknownTokens(t *testing.T) {
	got, unknown := ParseComponents("V, S, Q")
	require.NotNil(t, got)
	assert.Equal(t, spell.Components{Verbal: true, Somatic: true}, *got)
	assert.Equal(t, []string{"q"}, unknown)
}

func TestParseMaterials(t *testing.T) {
	t.Run("valued and consumed", func(t *testing.T) {
		got := ParseMaterials("ruby (worth 1000 gp, consumed)")
		require.Len(t, got, 1)
		assert.Equal(t, "ruby", got[0].Name)
		assert.Equal(t, spell.Float(1000), got[0].GpValue)
		assert.True(t, got[0].IsConsumed)
		assert.Empty(t, got[0].Description)
	})

	t.Run("keeps order", func(t *testing.T) {
		got := ParseMaterials("bat guano, sulfur")
		require.Len(t, got, 2)
		assert.Equal(t, "bat guano", got[0].Name)
		assert.Equal(t, "sulfur", got[1].Name)
		assert.Nil(t, got[0].GpValue)
	})

	t.Run("commas inside parentheses do not split", func(t *testing.T) {
		got := ParseMaterials("ruby (500 gp), diamond (1000 gp, consumed)")
		require.Len(t, got, 2)
		assert.False(t, got[0].IsConsumed)
		assert.True(t, got[1].IsConsumed)
		assert.Equal(t, spell.Float(1000), got[1].GpValue)
	})

	t.Run("quantity", func(t *testing.T) {
		got := ParseMaterials("3 pearls (100 gp each)")
		require.Len(t, got, 1)
		assert.Equal(t, "pearls", got[0].Name)
		assert.Equal(t, spell.Float(3), got[0].Quantity)
		assert.Equal(t, "100 gp each", got[0].Description)
	})

	t.Run("quantity of one is omitted", func(t *testing.T) {
		got := ParseMaterials("1 feather")
		require.Len(t, got, 1)
		assert.Nil(t, got[0].Quantity)
		assert.Equal(t, "feather", got[0].Name)
	})

	t.Run("trailing clause qualifies previous item", func(t *testing.T) {
		got := ParseMaterials("diamond dust (100 gp), which is consumed")
		require.Len(t, got, 1)
		assert.True(t, got[0].IsConsumed)
	})

	t.Run("none", func(t *testing.T) {
		assert.Empty(t, ParseMaterials("None"))
		assert.NotNil(t, ParseMaterials(""))
	})
}
