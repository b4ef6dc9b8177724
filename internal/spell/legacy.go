package spell

// Legacy column names, also used as the field label when a parse falls back.
const (
	FieldRange              = "range"
	FieldDuration           = "duration"
	FieldCastingTime        = "casting_time"
	FieldArea               = "area"
	FieldComponents         = "components"
	FieldMaterialComponents = "material_components"
	FieldDamage             = "damage"
	FieldSavingThrow        = "saving_throw"
	FieldMagicResistance    = "magic_resistance"
)

// ParsedFields lists every legacy column that goes through a field parser,
// in the order they are parsed.
var ParsedFields = []string{
	FieldRange,
	FieldDuration,
	FieldCastingTime,
	FieldArea,
	FieldComponents,
	FieldMaterialComponents,
	FieldDamage,
	FieldSavingThrow,
	FieldMagicResistance,
}

// LegacyRecord mirrors the flat string columns of the spell table.
type LegacyRecord struct {
	ID                 int64  `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Level              int    `json:"level" yaml:"level"`
	School             string `json:"school,omitempty" yaml:"school,omitempty"`
	Sphere             string `json:"sphere,omitempty" yaml:"sphere,omitempty"`
	ClassList          string `json:"class_list,omitempty" yaml:"class_list,omitempty"`
	Range              string `json:"range,omitempty" yaml:"range,omitempty"`
	Components         string `json:"components,omitempty" yaml:"components,omitempty"`
	MaterialComponents string `json:"material_components,omitempty" yaml:"material_components,omitempty"`
	CastingTime        string `json:"casting_time,omitempty" yaml:"casting_time,omitempty"`
	Duration           string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Area               string `json:"area,omitempty" yaml:"area,omitempty"`
	SavingThrow        string `json:"saving_throw,omitempty" yaml:"saving_throw,omitempty"`
	Damage             string `json:"damage,omitempty" yaml:"damage,omitempty"`
	MagicResistance    string `json:"magic_resistance,omitempty" yaml:"magic_resistance,omitempty"`
	Reversible         bool   `json:"reversible,omitempty" yaml:"reversible,omitempty"`
	Description        string `json:"description" yaml:"description"`
	Tags               string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Source             string `json:"source,omitempty" yaml:"source,omitempty"`
	Edition            string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Author             string `json:"author,omitempty" yaml:"author,omitempty"`
	License            string `json:"license,omitempty" yaml:"license,omitempty"`
	IsQuestSpell       bool   `json:"is_quest_spell,omitempty" yaml:"is_quest_spell,omitempty"`
	IsCantrip          bool   `json:"is_cantrip,omitempty" yaml:"is_cantrip,omitempty"`
}

// Value returns the raw legacy text for a parsed field name.
func (r *LegacyRecord) Value(field string) string {
	switch field {
	case FieldRange:
		return r.Range
	case FieldDuration:
		return r.Duration
	case FieldCastingTime:
		return r.CastingTime
	case FieldArea:
		return r.Area
	case FieldComponents:
		return r.Components
	case FieldMaterialComponents:
		return r.MaterialComponents
	case FieldDamage:
		return r.Damage
	case FieldSavingThrow:
		return r.SavingThrow
	case FieldMagicResistance:
		return r.MagicResistance
	}
	return ""
}
