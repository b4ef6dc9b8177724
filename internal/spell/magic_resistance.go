package spell

// MagicResistanceKind discriminates MagicResistanceSpec variants.
type MagicResistanceKind string

const (
	MRUnknown MagicResistanceKind = "unknown"
	MRNormal  MagicResistanceKind = "normal"
	MRIgnores MagicResistanceKind = "ignores_mr"
	MRPartial MagicResistanceKind = "partial"
	MRSpecial MagicResistanceKind = "special"
)

// Valid reports whether k is a known magic resistance kind.
func (k MagicResistanceKind) Valid() bool {
	switch k {
	case MRUnknown, MRNormal, MRIgnores, MRPartial, MRSpecial:
		return true
	}
	return false
}

// MRAppliesTo scopes which effects magic resistance is checked against.
type MRAppliesTo string

const (
	MRWholeSpell            MRAppliesTo = "whole_spell"
	MRHarmfulEffectsOnly    MRAppliesTo = "harmful_effects_only"
	MRBeneficialEffectsOnly MRAppliesTo = "beneficial_effects_only"
	MRDM                    MRAppliesTo = "dm"
)

// Valid reports whether a is empty or a known scope.
func (a MRAppliesTo) Valid() bool {
	switch a {
	case "", MRWholeSpell, MRHarmfulEffectsOnly, MRBeneficialEffectsOnly, MRDM:
		return true
	}
	return false
}

// MRPartialScope names the portion of a spell that magic resistance blocks.
type MRPartialScope string

const (
	MRDamageOnly           MRPartialScope = "damage_only"
	MRNonDamageOnly        MRPartialScope = "non_damage_only"
	MRPrimaryEffectOnly    MRPartialScope = "primary_effect_only"
	MRSecondaryEffectsOnly MRPartialScope = "secondary_effects_only"
	MRByPartID             MRPartialScope = "by_part_id"
)

// Valid reports whether s is a known partial scope.
func (s MRPartialScope) Valid() bool {
	switch s {
	case MRDamageOnly, MRNonDamageOnly, MRPrimaryEffectOnly, MRSecondaryEffectsOnly, MRByPartID:
		return true
	}
	return false
}

// MRPartialRule narrows a partial magic resistance rule.
type MRPartialRule struct {
	Scope   MRPartialScope `json:"scope"`
	PartIDs []string       `json:"part_ids,omitempty"`
}

// MagicResistanceSpec is the structured form of a spell's magic resistance.
type MagicResistanceSpec struct {
	Kind           MagicResistanceKind `json:"kind"`
	AppliesTo      MRAppliesTo         `json:"applies_to,omitempty"`
	Partial        *MRPartialRule      `json:"partial,omitempty"`
	SpecialRule    string              `json:"special_rule,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	RawLegacyValue string              `json:"raw_legacy_value,omitempty"`
}

// IsFallback reports whether the magic resistance field could not be parsed.
func (m *MagicResistanceSpec) IsFallback() bool { return m != nil && m.RawLegacyValue != "" }
