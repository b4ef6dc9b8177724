package hashing

import (
	"fmt"
	"strings"

	"spellbook/internal/spell"
)

// ValidationError lists every rule a candidate canonical spell violates.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid canonical spell: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid canonical spell (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// ErrorKind classifies the error for callers that map kinds to outcomes.
func (e *ValidationError) ErrorKind() string { return "validation" }

type checker struct {
	problems []string
}

func (c *checker) addf(format string, args ...any) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *checker) add(problems ...string) {
	c.problems = append(c.problems, problems...)
}

// Validate checks s against the canonical schema rules. It returns nil or a
// *ValidationError.
func Validate(s *spell.Canonical) error {
	if s == nil {
		return &ValidationError{Problems: []string{"spell is nil"}}
	}
	c := &checker{}
	if strings.TrimSpace(s.Name) == "" {
		c.addf("name: required")
	}
	if s.Level < 0 || s.Level > spell.MaxLevel {
		c.addf("level: %d outside 0..%d", s.Level, spell.MaxLevel)
	}
	if s.IsCantrip && s.Level != 0 {
		c.addf("is_cantrip: cantrips must be level 0, got %d", s.Level)
	}
	if s.SchemaVersion > spell.SchemaVersion {
		c.addf("schema_version: %d is newer than supported version %d", s.SchemaVersion, spell.SchemaVersion)
	}
	c.tradition(s)
	c.rangeSpec(s.Range)
	c.castingTime(s.CastingTime)
	c.duration(s.Duration)
	c.area(s.Area)
	c.materials(s.MaterialComponents)
	c.damage(s.Damage)
	c.savingThrow(s.SavingThrow)
	c.magicResistance(s.MagicResistance)

	if len(c.problems) > 0 {
		return &ValidationError{Problems: c.problems}
	}
	return nil
}

func (c *checker) tradition(s *spell.Canonical) {
	hasSchool := strings.TrimSpace(s.School) != ""
	hasSphere := strings.TrimSpace(s.Sphere) != ""
	switch s.Tradition {
	case spell.TraditionArcane:
		if !hasSchool {
			c.addf("school: required for ARCANE spells")
		}
	case spell.TraditionDivine:
		if !hasSphere {
			c.addf("sphere: required for DIVINE spells")
		}
	case spell.TraditionBoth:
		if !hasSchool || !hasSphere {
			c.addf("tradition: BOTH requires both school and sphere")
		}
	case "":
		c.addf("tradition: required (set a school, a sphere, or both)")
	default:
		c.addf("tradition: unknown value %q", s.Tradition)
	}
}

func (c *checker) rangeSpec(r *spell.RangeSpec) {
	if r == nil {
		return
	}
	if !r.Kind.Valid() {
		c.addf("range.kind: unknown value %q", r.Kind)
	}
	if !r.Unit.Valid() {
		c.addf("range.unit: unknown value %q", r.Unit)
	}
	if r.Kind.IsDistance() {
		if r.Unit == "" {
			c.addf("range.unit: required for kind %s", r.Kind)
		}
		if r.Distance == nil {
			c.addf("range.distance: required for kind %s", r.Kind)
		}
	}
	for _, req := range r.Requires {
		if req != spell.RequiresLOS && req != spell.RequiresLOE {
			c.addf("range.requires: unknown value %q", req)
		}
	}
	c.add(r.Distance.Problems("range.distance")...)
}

func (c *checker) castingTime(ct *spell.CastingTime) {
	if ct == nil {
		return
	}
	if ct.Unit == "" {
		c.addf("casting_time.unit: required")
	} else if !ct.Unit.ValidCasting() {
		c.addf("casting_time.unit: unknown value %q", ct.Unit)
	}
	if ct.LevelDivisor < 0 {
		c.addf("casting_time.level_divisor: must not be negative")
	}
}

func (c *checker) duration(d *spell.DurationSpec) {
	if d == nil {
		return
	}
	if !d.Kind.Valid() {
		c.addf("duration.kind: unknown value %q", d.Kind)
	}
	if !d.Unit.ValidDuration() {
		c.addf("duration.unit: unknown value %q", d.Unit)
	}
	switch d.Kind {
	case spell.DurationTime:
		if d.Unit == "" {
			c.addf("duration.unit: required for kind time")
		}
		if d.Duration == nil {
			c.addf("duration.duration: required for kind time")
		}
	case spell.DurationUsageLimited:
		if d.Uses == nil {
			c.addf("duration.uses: required for kind usage_limited")
		}
	}
	c.add(d.Duration.Problems("duration.duration")...)
	c.add(d.Uses.Problems("duration.uses")...)
}

func (c *checker) area(a *spell.AreaSpec) {
	if a == nil {
		return
	}
	if !a.Kind.Valid() {
		c.addf("area.kind: unknown value %q", a.Kind)
	}
	if !a.Unit.Valid() {
		c.addf("area.unit: unknown value %q", a.Unit)
	}
	dims := []struct {
		name string
		s    *spell.Scalar
	}{
		{"radius", a.Radius}, {"length", a.Length}, {"width", a.Width}, {"height", a.Height},
		{"edge", a.Edge}, {"surface", a.Surface}, {"volume", a.Volume}, {"count", a.Count},
	}
	for _, d := range dims {
		c.add(d.s.Problems("area." + d.name)...)
	}
}

func (c *checker) materials(items []spell.MaterialComponent) {
	for i, m := range items {
		if strings.TrimSpace(m.Name) == "" {
			c.addf("material_components[%d].name: required", i)
		}
		if m.Quantity != nil && *m.Quantity <= 0 {
			c.addf("material_components[%d].quantity: must be positive", i)
		}
		if m.GpValue != nil && *m.GpValue < 0 {
			c.addf("material_components[%d].gp_value: must not be negative", i)
		}
	}
}

func (c *checker) damage(d *spell.DamageSpec) {
	if d == nil {
		return
	}
	if !d.Kind.Valid() {
		c.addf("damage.kind: unknown value %q", d.Kind)
	}
	if d.CombineMode != "" && !d.CombineMode.Valid() {
		c.addf("damage.combine_mode: unknown value %q", d.CombineMode)
	}
	if d.Kind == spell.DamageModeled && len(d.Parts) == 0 {
		c.addf("damage.parts: required for kind modeled")
	}
	for i, p := range d.Parts {
		path := fmt.Sprintf("damage.parts[%d]", i)
		if p.ID == "" {
			c.addf("%s.id: required", path)
		}
		if !p.DamageType.Valid() {
			c.addf("%s.damage_type: unknown value %q", path, p.DamageType)
		}
		for j, term := range p.Base.Terms {
			if !term.Valid() {
				c.addf("%s.base.terms[%d]: invalid dice %dd%d", path, j, term.Count, term.Sides)
			}
		}
		for j, rule := range p.Scaling {
			if rule.Step < 1 {
				c.addf("%s.scaling[%d].step: must be at least 1", path, j)
			}
			if rule.DiceIncrement != nil && !rule.DiceIncrement.Valid() {
				c.addf("%s.scaling[%d].dice_increment: invalid dice", path, j)
			}
		}
	}
}

func (c *checker) savingThrow(s *spell.SavingThrowSpec) {
	if s == nil {
		return
	}
	switch s.Kind {
	case spell.SaveNone, spell.SaveDMAdjudicated:
	case spell.SaveSingle:
		if s.Single == nil {
			c.addf("saving_throw.single: required for kind single")
		} else {
			c.singleSave("saving_throw.single", s.Single)
		}
	case spell.SaveMultiple:
		if len(s.Multiple) < 2 {
			c.addf("saving_throw.multiple: kind multiple needs at least two saves")
		}
		for i := range s.Multiple {
			c.singleSave(fmt.Sprintf("saving_throw.multiple[%d]", i), &s.Multiple[i])
		}
	default:
		c.addf("saving_throw.kind: unknown value %q", s.Kind)
	}
}

func (c *checker) singleSave(path string, s *spell.SingleSave) {
	if !s.SaveType.Valid() {
		c.addf("%s.save_type: unknown value %q", path, s.SaveType)
	}
	if !s.SaveVs.Valid() {
		c.addf("%s.save_vs: unknown value %q", path, s.SaveVs)
	}
	if !s.OnSuccess.Valid() {
		c.addf("%s.on_success: unknown value %q", path, s.OnSuccess)
	}
	if !s.OnFailure.Valid() {
		c.addf("%s.on_failure: unknown value %q", path, s.OnFailure)
	}
}

func (c *checker) magicResistance(m *spell.MagicResistanceSpec) {
	if m == nil {
		return
	}
	if !m.Kind.Valid() {
		c.addf("magic_resistance.kind: unknown value %q", m.Kind)
	}
	if !m.AppliesTo.Valid() {
		c.addf("magic_resistance.applies_to: unknown value %q", m.AppliesTo)
	}
	if m.Kind == spell.MRPartial {
		switch {
		case m.Partial == nil:
			c.addf("magic_resistance.partial: required for kind partial")
		case !m.Partial.Scope.Valid():
			c.addf("magic_resistance.partial.scope: unknown value %q", m.Partial.Scope)
		}
	}
}
