package parser

import "spellbook/internal/spell"

func fallbackRange(in input) *spell.RangeSpec {
	return &spell.RangeSpec{
		Kind:           spell.RangeSpecial,
		Text:           in.clean,
		Unit:           spell.RangeUnitAny,
		Distance:       spell.Fixed(0),
		RawLegacyValue: in.raw,
	}
}

func fallbackDuration(in input) *spell.DurationSpec {
	return &spell.DurationSpec{
		Kind:           spell.DurationSpecial,
		Unit:           spell.UnitSpecial,
		Duration:       spell.Fixed(0),
		Notes:          in.clean,
		RawLegacyValue: in.raw,
	}
}

func fallbackCastingTime(in input) *spell.CastingTime {
	return &spell.CastingTime{
		Text:           in.clean,
		Unit:           spell.UnitSpecial,
		RawLegacyValue: in.raw,
	}
}

func fallbackArea(in input) *spell.AreaSpec {
	return &spell.AreaSpec{
		Kind:           spell.AreaSpecial,
		Unit:           spell.AreaUnitAny,
		Notes:          in.clean,
		RawLegacyValue: in.raw,
	}
}

func fallbackDamage(in input) *spell.DamageSpec {
	return &spell.DamageSpec{
		Kind:           spell.DamageDMAdjudicated,
		CombineMode:    spell.CombineSum,
		DMGuidance:     in.clean,
		RawLegacyValue: in.raw,
	}
}

func fallbackSavingThrow(in input) *spell.SavingThrowSpec {
	return &spell.SavingThrowSpec{
		Kind:           spell.SaveDMAdjudicated,
		DMGuidance:     in.clean,
		RawLegacyValue: in.raw,
	}
}

func fallbackMagicResistance(in input) *spell.MagicResistanceSpec {
	return &spell.MagicResistanceSpec{
		Kind:           spell.MRUnknown,
		Notes:          in.clean,
		RawLegacyValue: in.raw,
	}
}
