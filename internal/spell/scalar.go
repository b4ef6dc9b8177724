package spell

// ScalarMode selects how a Scalar is interpreted.
type ScalarMode string

const (
	ScalarFixed    ScalarMode = "fixed"
	ScalarPerLevel ScalarMode = "per_level"
)

// Valid reports whether m is a known mode.
func (m ScalarMode) Valid() bool {
	switch m {
	case ScalarFixed, ScalarPerLevel:
		return true
	}
	return false
}

// Rounding controls how fractional per-level results are rounded.
type Rounding string

const (
	RoundNone    Rounding = "none"
	RoundFloor   Rounding = "floor"
	RoundCeil    Rounding = "ceil"
	RoundNearest Rounding = "nearest"
)

// Valid reports whether r is empty or a known rounding rule.
func (r Rounding) Valid() bool {
	switch r {
	case "", RoundNone, RoundFloor, RoundCeil, RoundNearest:
		return true
	}
	return false
}

// Scalar is a magnitude that is either fixed or scales with caster level.
type Scalar struct {
	Mode     ScalarMode `json:"mode"`
	Value    *float64   `json:"value,omitempty"`
	PerLevel *float64   `json:"per_level,omitempty"`
	MinLevel *int       `json:"min_level,omitempty"`
	MaxLevel *int       `json:"max_level,omitempty"`
	CapValue *float64   `json:"cap_value,omitempty"`
	CapLevel *int       `json:"cap_level,omitempty"`
	Rounding Rounding   `json:"rounding,omitempty"`
}

// Fixed returns a fixed scalar.
func Fixed(v float64) *Scalar {
	return &Scalar{Mode: ScalarFixed, Value: Float(v)}
}

// PerLevel returns a scalar that grows by per for each caster level.
func PerLevel(per float64) *Scalar {
	return &Scalar{Mode: ScalarPerLevel, PerLevel: Float(per)}
}

// Scaled returns a scalar with a base value plus a per-level increment. A
// zero increment collapses to a fixed scalar.
func Scaled(base, per float64) *Scalar {
	if per == 0 {
		return Fixed(base)
	}
	return &Scalar{Mode: ScalarPerLevel, Value: Float(base), PerLevel: Float(per)}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Magnitude returns the fixed value or zero.
func (s *Scalar) Magnitude() float64 {
	if s == nil || s.Value == nil {
		return 0
	}
	return *s.Value
}

// Problems lists the structural errors of s using path as the field prefix.
func (s *Scalar) Problems(path string) []string {
	if s == nil {
		return nil
	}
	var out []string
	if !s.Mode.Valid() {
		out = append(out, path+".mode: unknown value "+quote(string(s.Mode)))
	}
	switch s.Mode {
	case ScalarFixed:
		if s.Value == nil {
			out = append(out, path+".value: required when mode is fixed")
		}
	case ScalarPerLevel:
		if s.PerLevel == nil {
			out = append(out, path+".per_level: required when mode is per_level")
		}
	}
	if !s.Rounding.Valid() {
		out = append(out, path+".rounding: unknown value "+quote(string(s.Rounding)))
	}
	return out
}

func quote(s string) string { return "\"" + s + "\"" }
