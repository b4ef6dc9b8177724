package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/spell"
)

func TestParseRangeKinds(t *testing.T) {
	tests := []struct {
		raw  string
		kind spell.RangeKind
	}{
		{"Touch", spell.RangeTouch},
		{"0", spell.RangePersonal},
		{"Personal", spell.RangePersonal},
		{"Unlimited", spell.RangeUnlimited},
		{"Same plane", spell.RangeSamePlane},
		{"Line of sight", spell.RangeLOS},
		{"Special", spell.RangeSpecial},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseRange(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.False(t, got.IsFallback())
		})
	}
}

func TestParseRangeDistances(t *testing.T) {
	t.Run("fixed yards", func(t *testing.T) {
		got := ParseRange("10 yards")
		require.NotNil(t, got)
		assert.Equal(t, spell.RangeDistance, got.Kind)
		assert.Equal(t, spell.RangeYards, got.Unit)
		assert.Equal(t, spell.Fixed(10), got.Distance)
	})

	t.Run("fractional feet", func(t *testing.T) {
		got := ParseRange("100.5 feet")
		require.NotNil(t, got)
		assert.Equal(t, spell.RangeFeet, got.Unit)
		assert.Equal(t, 100.5, got.Distance.Magnitude())
	})

	t.Run("per level", func(t *testing.T) {
		got := ParseRange("10 yds/level")
		require.NotNil(t, got)
		assert.Equal(t, spell.PerLevel(10), got.Distance)
		assert.Equal(t, spell.RangeYards, got.Unit)
	})

	t.Run("base plus per level", func(t *testing.T) {
		got := ParseRange("10 yds + 5 yds/level")
		require.NotNil(t, got)
		assert.Equal(t, spell.Scaled(10, 5), got.Distance)
	})

	t.Run("per two levels rounds down", func(t *testing.T) {
		got := ParseRange("10 yards/2 levels")
		require.NotNil(t, got)
		assert.Equal(t, spell.ScalarPerLevel, got.Distance.Mode)
		assert.Equal(t, 5.0, *got.Distance.PerLevel)
		assert.Equal(t, spell.RoundFloor, got.Distance.Rounding)
	})

	t.Run("line of sight marker", func(t *testing.T) {
		got := ParseRange("60 yards (LOS)")
		require.NotNil(t, got)
		assert.Equal(t, spell.RangeDistanceLOS, got.Kind)
		assert.Equal(t, []string{spell.RequiresLOS}, got.Requires)
		assert.Equal(t, spell.Fixed(60), got.Distance)
	})
}

func TestParseRangeFallback(t *testing.T) {
	raw := "Special (see description)"
	got := ParseRange(raw)
	require.NotNil(t, got)
	assert.True(t, got.IsFallback())
	assert.Equal(t, spell.RangeSpecial, got.Kind)
	assert.Equal(t, spell.RangeUnitAny, got.Unit)
	assert.Equal(t, spell.Fixed(0), got.Distance)
	assert.Equal(t, raw, got.RawLegacyValue)
	assert.Equal(t, raw, got.Text)
}

func TestParseRangeOnlyQualifiersFallBack(t *testing.T) {
	for _, raw := range []string{"(room)", "from the caster"} {
		got := ParseRange(raw)
		require.NotNil(t, got, raw)
		assert.True(t, got.IsFallback(), raw)
		assert.Equal(t, spell.RangeSpecial, got.Kind)
		assert.Equal(t, raw, got.RawLegacyValue)
		assert.Empty(t, got.RegionUnit, raw)
	}
}

func TestParseRangeMixedUnitsFallBack(t *testing.T) {
	got := ParseRange("30 ft + 10 yd/level")
	require.NotNil(t, got)
	assert.True(t, got.IsFallback())
}

func TestParseRangeEmptyIsAbsent(t *testing.T) {
	assert.Nil(t, ParseRange(""))
	assert.Nil(t, ParseRange("   "))
}
