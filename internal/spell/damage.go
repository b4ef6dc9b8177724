package spell

// DamageKind discriminates DamageSpec variants.
type DamageKind string

const (
	DamageNone          DamageKind = "none"
	DamageModeled       DamageKind = "modeled"
	DamageDMAdjudicated DamageKind = "dm_adjudicated"
)

// Valid reports whether k is a known damage kind.
func (k DamageKind) Valid() bool {
	switch k {
	case DamageNone, DamageModeled, DamageDMAdjudicated:
		return true
	}
	return false
}

// CombineMode states how multiple damage parts add up.
type CombineMode string

const (
	CombineSum       CombineMode = "sum"
	CombineMax       CombineMode = "max"
	CombineChooseOne CombineMode = "choose_one"
	CombineSequence  CombineMode = "sequence"
)

// Valid reports whether m is a known combine mode.
func (m CombineMode) Valid() bool {
	switch m {
	case CombineSum, CombineMax, CombineChooseOne, CombineSequence:
		return true
	}
	return false
}

// DamageType is the energy or physical type of a damage part.
type DamageType string

const (
	DamageAcid                DamageType = "acid"
	DamageCold                DamageType = "cold"
	DamageElectricity         DamageType = "electricity"
	DamageFire                DamageType = "fire"
	DamageSonic               DamageType = "sonic"
	DamageForce               DamageType = "force"
	DamageMagic               DamageType = "magic"
	DamageNegativeEnergy      DamageType = "negative_energy"
	DamagePositiveEnergy      DamageType = "positive_energy"
	DamagePoison              DamageType = "poison"
	DamagePsychic             DamageType = "psychic"
	DamagePhysicalBludgeoning DamageType = "physical_bludgeoning"
	DamagePhysicalPiercing    DamageType = "physical_piercing"
	DamagePhysicalSlashing    DamageType = "physical_slashing"
	DamageUntyped             DamageType = "untyped"
	DamageSpecialType         DamageType = "special"
)

// Valid reports whether t is a known damage type.
func (t DamageType) Valid() bool {
	switch t {
	case DamageAcid, DamageCold, DamageElectricity, DamageFire, DamageSonic,
		DamageForce, DamageMagic, DamageNegativeEnergy, DamagePositiveEnergy,
		DamagePoison, DamagePsychic, DamagePhysicalBludgeoning,
		DamagePhysicalPiercing, DamagePhysicalSlashing, DamageUntyped,
		DamageSpecialType:
		return true
	}
	return false
}

var standardDieSides = map[int]struct{}{2: {}, 3: {}, 4: {}, 6: {}, 8: {}, 10: {}, 12: {}, 20: {}, 100: {}}

// ValidDieSides reports whether sides names a standard polyhedral die.
func ValidDieSides(sides int) bool {
	_, ok := standardDieSides[sides]
	return ok
}

// DiceTerm is NdS with an optional per-die modifier.
type DiceTerm struct {
	Count          int `json:"count"`
	Sides          int `json:"sides"`
	PerDieModifier int `json:"per_die_modifier,omitempty"`
}

// Valid reports whether the term uses a positive count and a standard die.
func (d DiceTerm) Valid() bool { return d.Count >= 1 && ValidDieSides(d.Sides) }

// DicePool is a sum of dice terms plus a flat modifier.
type DicePool struct {
	Terms        []DiceTerm `json:"terms"`
	FlatModifier int        `json:"flat_modifier,omitempty"`
}

// ScalingKind selects how a ScalingRule grows damage.
type ScalingKind string

const (
	ScaleAddDicePerStep     ScalingKind = "add_dice_per_step"
	ScaleAddFlatPerStep     ScalingKind = "add_flat_per_step"
	ScaleSetBaseByLevelBand ScalingKind = "set_base_by_level_band"
)

// ScalingDriver is the quantity a scaling rule steps over.
type ScalingDriver string

const (
	DriverCasterLevel ScalingDriver = "caster_level"
	DriverSpellLevel  ScalingDriver = "spell_level"
	DriverTargetHD    ScalingDriver = "target_hd"
	DriverTargetLevel ScalingDriver = "target_level"
	DriverChoice      ScalingDriver = "choice"
	DriverOther       ScalingDriver = "other"
)

// ScalingRule grows a damage part as its driver increases.
type ScalingRule struct {
	Kind          ScalingKind   `json:"kind"`
	Driver        ScalingDriver `json:"driver"`
	Step          int           `json:"step"`
	MaxSteps      *int          `json:"max_steps,omitempty"`
	DiceIncrement *DiceTerm     `json:"dice_increment,omitempty"`
	FlatIncrement *int          `json:"flat_increment,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// ApplicationScope states what each damage application hits.
type ApplicationScope string

const (
	ApplyPerTarget     ApplicationScope = "per_target"
	ApplyPerAreaTarget ApplicationScope = "per_area_target"
	ApplyPerMissile    ApplicationScope = "per_missile"
	ApplyPerRay        ApplicationScope = "per_ray"
	ApplyPerRound      ApplicationScope = "per_round"
	ApplyPerTurn       ApplicationScope = "per_turn"
	ApplyPerHit        ApplicationScope = "per_hit"
	ApplySpecial       ApplicationScope = "special"
)

// TickDriver selects what determines the number of applications.
type TickDriver string

const (
	TickFixed       TickDriver = "fixed"
	TickCasterLevel TickDriver = "caster_level"
	TickSpellLevel  TickDriver = "spell_level"
	TickDuration    TickDriver = "duration"
	TickChoice      TickDriver = "choice"
	TickDM          TickDriver = "dm"
)

// Application describes how often a damage part is applied.
type Application struct {
	Scope      ApplicationScope `json:"scope"`
	Ticks      int              `json:"ticks"`
	TickDriver TickDriver       `json:"tick_driver"`
}

// DamageSaveKind is the save outcome for a damage part.
type DamageSaveKind string

const (
	DamageSaveNone    DamageSaveKind = "none"
	DamageSaveHalf    DamageSaveKind = "half"
	DamageSaveNegates DamageSaveKind = "negates"
	DamageSavePartial DamageSaveKind = "partial"
	DamageSaveSpecial DamageSaveKind = "special"
)

// Fraction is a partial save multiplier.
type Fraction struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// DamageSave is the save rule attached to a damage part.
type DamageSave struct {
	Kind    DamageSaveKind `json:"kind"`
	Partial *Fraction      `json:"partial,omitempty"`
}

// MRInteraction records whether magic resistance blocks a damage part.
type MRInteraction string

const (
	MRInteractNormal  MRInteraction = "normal"
	MRInteractIgnores MRInteraction = "ignores_mr"
	MRInteractSpecial MRInteraction = "special"
	MRInteractUnknown MRInteraction = "unknown"
)

// DamagePart is one independently rolled component of a spell's damage.
type DamagePart struct {
	ID            string        `json:"id"`
	Label         string        `json:"label,omitempty"`
	DamageType    DamageType    `json:"damage_type"`
	Base          DicePool      `json:"base"`
	Scaling       []ScalingRule `json:"scaling,omitempty"`
	Application   Application   `json:"application"`
	Save          DamageSave    `json:"save"`
	MRInteraction MRInteraction `json:"mr_interaction"`
	Notes         string        `json:"notes,omitempty"`
}

// DamageSpec is the structured form of a spell's damage.
type DamageSpec struct {
	Kind           DamageKind   `json:"kind"`
	CombineMode    CombineMode  `json:"combine_mode,omitempty"`
	Parts          []DamagePart `json:"parts,omitempty"`
	DMGuidance     string       `json:"dm_guidance,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	RawLegacyValue string       `json:"raw_legacy_value,omitempty"`
}

// IsFallback reports whether the damage field could not be parsed.
func (d *DamageSpec) IsFallback() bool { return d != nil && d.RawLegacyValue != "" }
