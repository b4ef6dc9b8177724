package spell

// Tradition is the magical tradition a spell belongs to.
type Tradition string

const (
	TraditionArcane Tradition = "ARCANE"
	TraditionDivine Tradition = "DIVINE"
	TraditionBoth   Tradition = "BOTH"
)

// Valid reports whether t is a known tradition.
func (t Tradition) Valid() bool {
	switch t {
	case TraditionArcane, TraditionDivine, TraditionBoth:
		return true
	}
	return false
}

// DeriveTradition infers the tradition from which of school and sphere are
// set. It returns "" when neither is present.
func DeriveTradition(school, sphere string) Tradition {
	hasSchool := school != ""
	hasSphere := sphere != ""
	switch {
	case hasSchool && hasSphere:
		return TraditionBoth
	case hasSchool:
		return TraditionArcane
	case hasSphere:
		return TraditionDivine
	default:
		return ""
	}
}

// SchemaVersion is the canonical_data schema version written by this build.
const SchemaVersion = 1

// MaxLevel is the highest spell level accepted (quest spells sit above 9).
const MaxLevel = 12

// SourceRef points at the publication a spell was transcribed from.
type SourceRef struct {
	System string `json:"system,omitempty"`
	Book   string `json:"book"`
	Page   string `json:"page,omitempty"`
	Note   string `json:"note,omitempty"`
}

// Canonical is the fully structured spell. Provenance and bookkeeping fields
// (ID, SchemaVersion, SourceRefs, Edition, Author, License, Version,
// CreatedAt, UpdatedAt) are stored but never hashed.
type Canonical struct {
	ID            *int64 `json:"id,omitempty"`
	SchemaVersion int    `json:"schema_version"`

	Name        string    `json:"name"`
	Tradition   Tradition `json:"tradition"`
	School      string    `json:"school,omitempty"`
	Subschools  []string  `json:"subschools"`
	Descriptors []string  `json:"descriptors"`
	Sphere      string    `json:"sphere,omitempty"`
	ClassList   []string  `json:"class_list"`
	Level       int       `json:"level"`

	Range              *RangeSpec           `json:"range,omitempty"`
	Components         *Components          `json:"components,omitempty"`
	MaterialComponents []MaterialComponent  `json:"material_components"`
	CastingTime        *CastingTime         `json:"casting_time,omitempty"`
	Duration           *DurationSpec        `json:"duration,omitempty"`
	Area               *AreaSpec            `json:"area,omitempty"`
	Damage             *DamageSpec          `json:"damage,omitempty"`
	SavingThrow        *SavingThrowSpec     `json:"saving_throw,omitempty"`
	MagicResistance    *MagicResistanceSpec `json:"magic_resistance,omitempty"`

	Reversible   bool     `json:"reversible"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	IsQuestSpell bool     `json:"is_quest_spell"`
	IsCantrip    bool     `json:"is_cantrip"`

	SourceRefs []SourceRef `json:"source_refs,omitempty"`
	Edition    string      `json:"edition,omitempty"`
	Author     string      `json:"author,omitempty"`
	License    string      `json:"license,omitempty"`
	Version    string      `json:"version,omitempty"`
	CreatedAt  string      `json:"created_at,omitempty"`
	UpdatedAt  string      `json:"updated_at,omitempty"`
}

// ExcludedFromHash lists the top-level canonical keys dropped before hashing.
var ExcludedFromHash = []string{
	"id",
	"schema_version",
	"source_refs",
	"edition",
	"author",
	"license",
	"version",
	"created_at",
	"updated_at",
	"artifacts",
}
