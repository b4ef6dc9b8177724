package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/spell"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *spell.DurationSpec
	}{
		{
			name: "instant",
			raw:  "Instantaneous",
			want: &spell.DurationSpec{Kind: spell.DurationInstant},
		},
		{
			name: "permanent",
			raw:  "Permanent",
			want: &spell.DurationSpec{Kind: spell.DurationPermanent},
		},
		{
			name: "fixed turns",
			raw:  "3 turns",
			want: &spell.DurationSpec{Kind: spell.DurationTime, Unit: spell.UnitTurn, Duration: spell.Fixed(3)},
		},
		{
			name: "per level",
			raw:  "1 round/level",
			want: &spell.DurationSpec{Kind: spell.DurationTime, Unit: spell.UnitRound, Duration: spell.PerLevel(1)},
		},
		{
			name: "base plus per level",
			raw:  "2 rounds + 1 round/level",
			want: &spell.DurationSpec{Kind: spell.DurationTime, Unit: spell.UnitRound, Duration: spell.Scaled(2, 1)},
		},
		{
			name: "usage limited",
			raw:  "3 uses",
			want: &spell.DurationSpec{Kind: spell.DurationUsageLimited, Uses: spell.Fixed(3)},
		},
		{
			name: "dual condition",
			raw:  "1 round/level or until discharged",
			want: &spell.DurationSpec{
				Kind:      spell.DurationTime,
				Unit:      spell.UnitRound,
				Duration:  spell.PerLevel(1),
				Condition: "discharged",
			},
		},
		{
			name: "until triggered",
			raw:  "Until triggered (see text)",
			want: &spell.DurationSpec{Kind: spell.DurationUntilTriggered, Condition: "see text"},
		},
		{
			name: "special keyword",
			raw:  "Special",
			want: &spell.DurationSpec{Kind: spell.DurationSpecial, Notes: "Special"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.raw))
		})
	}
}

func TestParseDurationPerTwoLevels(t *testing.T) {
	got := ParseDuration("1 hour/2 levels")
	require.NotNil(t, got)
	assert.Equal(t, spell.UnitHour, got.Unit)
	assert.Equal(t, 0.5, *got.Duration.PerLevel)
	assert.Equal(t, spell.RoundFloor, got.Duration.Rounding)
}

func TestParseDurationFallback(t *testing.T) {
	for _, raw := range []string{"Varies", "1 turn + 1 round/level"} {
		got := ParseDuration(raw)
		require.NotNil(t, got, raw)
		assert.True(t, got.IsFallback(), raw)
		assert.Equal(t, spell.UnitSpecial, got.Unit)
		assert.Equal(t, spell.Fixed(0), got.Duration)
		assert.Equal(t, raw, got.RawLegacyValue)
	}
}

func TestParseCastingTime(t *testing.T) {
	tests := []struct {
		raw  string
		want *spell.CastingTime
	}{
		{"3", &spell.CastingTime{Unit: spell.UnitSegment, BaseValue: 3}},
		{"1 round", &spell.CastingTime{Unit: spell.UnitRound, BaseValue: 1}},
		{"1 action", &spell.CastingTime{Unit: spell.UnitAction, BaseValue: 1}},
		{"Bonus action", &spell.CastingTime{Unit: spell.UnitBonusAction, BaseValue: 1}},
		{"1 segment/level", &spell.CastingTime{Unit: spell.UnitSegment, PerLevel: 1}},
		{"1 turn/2 levels", &spell.CastingTime{Unit: spell.UnitTurn, PerLevel: 1, LevelDivisor: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCastingTime(tt.raw))
		})
	}
}

func TestParseCastingTimeFallback(t *testing.T) {
	got := ParseCastingTime("See below")
	require.NotNil(t, got)
	assert.True(t, got.IsFallback())
	assert.Equal(t, spell.UnitSpecial, got.Unit)
	assert.Equal(t, "See below", got.Text)
	assert.Nil(t, ParseCastingTime(""))
}
