package spell

// SavingThrowKind discriminates SavingThrowSpec variants.
type SavingThrowKind string

const (
	SaveNone          SavingThrowKind = "none"
	SaveSingle        SavingThrowKind = "single"
	SaveMultiple      SavingThrowKind = "multiple"
	SaveDMAdjudicated SavingThrowKind = "dm_adjudicated"
)

// Valid reports whether k is a known saving throw kind.
func (k SavingThrowKind) Valid() bool {
	switch k {
	case SaveNone, SaveSingle, SaveMultiple, SaveDMAdjudicated:
		return true
	}
	return false
}

// SaveType is the saving throw category rolled against.
type SaveType string

const (
	SaveParalyzationPoisonDeath SaveType = "paralyzation_poison_death"
	SaveRodStaffWand            SaveType = "rod_staff_wand"
	SavePetrificationPolymorph  SaveType = "petrification_polymorph"
	SaveBreathWeapon            SaveType = "breath_weapon"
	SaveSpell                   SaveType = "spell"
	SaveSpecial                 SaveType = "special"
)

// Valid reports whether t is a known save type.
func (t SaveType) Valid() bool {
	switch t {
	case SaveParalyzationPoisonDeath, SaveRodStaffWand, SavePetrificationPolymorph,
		SaveBreathWeapon, SaveSpell, SaveSpecial:
		return true
	}
	return false
}

// SaveVs narrows what the save protects against.
type SaveVs string

const (
	VsSpell         SaveVs = "spell"
	VsPoison        SaveVs = "poison"
	VsDeathMagic    SaveVs = "death_magic"
	VsPolymorph     SaveVs = "polymorph"
	VsPetrification SaveVs = "petrification"
	VsBreath        SaveVs = "breath"
	VsWeapon        SaveVs = "weapon"
	VsOther         SaveVs = "other"
)

// Valid reports whether v is a known save target.
func (v SaveVs) Valid() bool {
	switch v {
	case VsSpell, VsPoison, VsDeathMagic, VsPolymorph, VsPetrification, VsBreath, VsWeapon, VsOther:
		return true
	}
	return false
}

// SaveResult is the effect applied on success or failure.
type SaveResult string

const (
	ResultNoEffect             SaveResult = "no_effect"
	ResultReducedEffect        SaveResult = "reduced_effect"
	ResultFullEffect           SaveResult = "full_effect"
	ResultPartialDamageOnly    SaveResult = "partial_damage_only"
	ResultPartialNonDamageOnly SaveResult = "partial_non_damage_only"
	ResultSpecial              SaveResult = "special"
)

// Valid reports whether r is a known save result.
func (r SaveResult) Valid() bool {
	switch r {
	case ResultNoEffect, ResultReducedEffect, ResultFullEffect,
		ResultPartialDamageOnly, ResultPartialNonDamageOnly, ResultSpecial:
		return true
	}
	return false
}

// SingleSave describes one saving throw roll.
type SingleSave struct {
	ID        string     `json:"id,omitempty"`
	SaveType  SaveType   `json:"save_type"`
	SaveVs    SaveVs     `json:"save_vs"`
	Modifier  int        `json:"modifier"`
	AppliesTo string     `json:"applies_to"`
	Timing    string     `json:"timing"`
	OnSuccess SaveResult `json:"on_success"`
	OnFailure SaveResult `json:"on_failure"`
}

// SavingThrowSpec is the structured form of a spell's saving throw.
type SavingThrowSpec struct {
	Kind           SavingThrowKind `json:"kind"`
	Single         *SingleSave     `json:"single,omitempty"`
	Multiple       []SingleSave    `json:"multiple,omitempty"`
	DMGuidance     string          `json:"dm_guidance,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	RawLegacyValue string          `json:"raw_legacy_value,omitempty"`
}

// IsFallback reports whether the saving throw could not be parsed.
func (s *SavingThrowSpec) IsFallback() bool { return s != nil && s.RawLegacyValue != "" }
