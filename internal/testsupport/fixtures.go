package testsupport

import "spellbook/internal/spell"

// Fireball is a fully parseable legacy record.
func Fireball() spell.LegacyRecord {
	return spell.LegacyRecord{
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
		Description:        "A burst of flame detonates with a low roar.",
		Source:             "PHB p. 241",
		Edition:            "2e",
	}
}

// MagicMissile is a second distinct parseable record.
func MagicMissile() spell.LegacyRecord {
	return spell.LegacyRecord{
		Name:            "Magic Missile",
		Level:           1,
		School:          "Evocation",
		ClassList:       "Wizard",
		Range:           "60 yds + 10 yds/level",
		Components:      "V, S",
		CastingTime:     "1",
		Duration:        "Instantaneous",
		Area:            "One creature",
		SavingThrow:     "None",
		Damage:          "1d4+1",
		MagicResistance: "Yes",
		Description:     "A missile of magical energy darts forth.",
		Source:          "PHB p. 176",
		Edition:         "2e",
	}
}

// CureLightWounds is a priest spell with a sphere and no school.
func CureLightWounds() spell.LegacyRecord {
	return spell.LegacyRecord{
		Name:            "Cure Light Wounds",
		Level:           1,
		Sphere:          "Healing",
		ClassList:       "Cleric, Druid",
		Range:           "Touch",
		Components:      "V, S",
		CastingTime:     "5",
		Duration:        "Permanent",
		Area:            "One creature",
		SavingThrow:     "None",
		MagicResistance: "No",
		Description:     "The caster heals 1d8 points of damage.",
		Source:          "PHB p. 257",
		Edition:         "2e",
	}
}

// OddlyWorded carries legacy text the field parsers cannot model.
func OddlyWorded() spell.LegacyRecord {
	return spell.LegacyRecord{
		Name:            "Whispering Wind",
		Level:           2,
		School:          "Alteration",
		ClassList:       "Wizard",
		Range:           "Special (see description)",
		Components:      "V, S",
		CastingTime:     "1",
		Duration:        "Varies",
		Area:            "Special",
		SavingThrow:     "None",
		Damage:          "1d7",
		MagicResistance: "No",
		Description:     "A message is carried on the wind.",
		Source:          "PHB p. 183",
		Edition:         "2e",
	}
}
