package canonical

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"spellbook/internal/spell"
	"spellbook/internal/textutil"
)

var titleCaser = cases.Title(language.English)

// Canonicalize normalizes s in place.
func Canonicalize(s *spell.Canonical) {
	if s == nil {
		return
	}
	s.Name = textutil.Collapse(s.Name)
	s.Tradition = spell.Tradition(strings.ToUpper(textutil.Collapse(string(s.Tradition))))
	s.School = title(s.School)
	s.Sphere = title(s.Sphere)
	s.Subschools = list(s.Subschools)
	s.Descriptors = list(s.Descriptors)
	s.ClassList = list(s.ClassList)
	s.Tags = list(s.Tags)
	s.Description = textutil.Narrative(s.Description)

	canonicalRange(s.Range)
	canonicalCastingTime(s.CastingTime)
	canonicalDuration(s.Duration)
	canonicalArea(s.Area)
	s.MaterialComponents = materials(s.MaterialComponents)
	canonicalDamage(s.Damage)
	canonicalSavingThrow(s.SavingThrow)
	canonicalMagicResistance(s.MagicResistance)

	for i := range s.SourceRefs {
		ref := &s.SourceRefs[i]
		ref.System = textutil.Collapse(ref.System)
		ref.Book = textutil.Collapse(ref.Book)
		ref.Page = textutil.Collapse(ref.Page)
		ref.Note = textutil.Collapse(ref.Note)
	}
	s.Edition = textutil.Collapse(s.Edition)
	s.Author = textutil.Collapse(s.Author)
	s.License = textutil.Collapse(s.License)
	s.Version = textutil.Collapse(s.Version)
}

// Round rounds v to six decimal places.
func Round(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		// Avoid emitting "-0".
		return 0
	}
	return r
}

func roundPtr(v *float64) {
	if v != nil {
		*v = Round(*v)
	}
}

// enum lower-cases an enum value and turns spaces and hyphens into
// underscores, so "Radius Circle" and "radius-circle" both read radius_circle.
func enum[T ~string](v T) T {
	s := strings.ToLower(textutil.Collapse(string(v)))
	return T(strings.NewReplacer(" ", "_", "-", "_").Replace(s))
}

func title(s string) string {
	s = textutil.Collapse(s)
	if s == "" {
		return ""
	}
	return titleCaser.String(s)
}

// list collapses, deduplicates and sorts a string set. It never returns nil.
func list(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		if item = textutil.Collapse(item); item != "" {
			out = append(out, item)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func scalar(s *spell.Scalar) {
	if s == nil {
		return
	}
	s.Mode = enum(s.Mode)
	s.Rounding = enum(s.Rounding)
	roundPtr(s.Value)
	roundPtr(s.PerLevel)
	roundPtr(s.CapValue)
}

func canonicalRange(r *spell.RangeSpec) {
	if r == nil {
		return
	}
	r.Kind = enum(r.Kind)
	r.Unit = enum(r.Unit)
	r.Text = textutil.Collapse(r.Text)
	r.Anchor = enum(r.Anchor)
	r.RegionUnit = enum(r.RegionUnit)
	r.Notes = textutil.Collapse(r.Notes)
	scalar(r.Distance)
	if len(r.Requires) > 0 {
		for i := range r.Requires {
			r.Requires[i] = enum(r.Requires[i])
		}
		r.Requires = list(r.Requires)
	}
}

func canonicalCastingTime(c *spell.CastingTime) {
	if c == nil {
		return
	}
	c.Text = textutil.Collapse(c.Text)
	c.Unit = enum(c.Unit)
	c.BaseValue = Round(c.BaseValue)
	c.PerLevel = Round(c.PerLevel)
	c.LevelDivisor = Round(c.LevelDivisor)
}

func canonicalDuration(d *spell.DurationSpec) {
	if d == nil {
		return
	}
	d.Kind = enum(d.Kind)
	d.Unit = enum(d.Unit)
	d.Condition = textutil.Collapse(d.Condition)
	d.Notes = textutil.Collapse(d.Notes)
	scalar(d.Duration)
	scalar(d.Uses)
}

func canonicalArea(a *spell.AreaSpec) {
	if a == nil {
		return
	}
	a.Kind = enum(a.Kind)
	a.Unit = enum(a.Unit)
	a.CountSubject = textutil.Collapse(a.CountSubject)
	a.Notes = textutil.Collapse(a.Notes)
	for _, s := range []*spell.Scalar{a.Radius, a.Length, a.Width, a.Height, a.Edge, a.Surface, a.Volume, a.Count} {
		scalar(s)
	}
}

// materials keeps entry order. Quantity 1 is the default and is dropped.
func materials(in []spell.MaterialComponent) []spell.MaterialComponent {
	out := make([]spell.MaterialComponent, 0, len(in))
	for _, m := range in {
		m.Name = textutil.Collapse(m.Name)
		m.Unit = textutil.Collapse(m.Unit)
		m.Description = textutil.Collapse(m.Description)
		roundPtr(m.Quantity)
		roundPtr(m.GpValue)
		if m.Quantity != nil && *m.Quantity == 1 {
			m.Quantity = nil
		}
		out = append(out, m)
	}
	return out
}

func canonicalDamage(d *spell.DamageSpec) {
	if d == nil {
		return
	}
	d.Kind = enum(d.Kind)
	d.CombineMode = enum(d.CombineMode)
	d.DMGuidance = textutil.Narrative(d.DMGuidance)
	d.Notes = textutil.Collapse(d.Notes)
	for i := range d.Parts {
		p := &d.Parts[i]
		p.ID = textutil.Collapse(p.ID)
		p.Label = textutil.Collapse(p.Label)
		p.DamageType = enum(p.DamageType)
		p.Notes = textutil.Collapse(p.Notes)
		p.MRInteraction = enum(p.MRInteraction)
		p.Application.Scope = enum(p.Application.Scope)
		p.Application.TickDriver = enum(p.Application.TickDriver)
		p.Save.Kind = enum(p.Save.Kind)
		if p.Base.Terms == nil {
			p.Base.Terms = []spell.DiceTerm{}
		}
		for j := range p.Scaling {
			rule := &p.Scaling[j]
			rule.Kind = enum(rule.Kind)
			rule.Driver = enum(rule.Driver)
			rule.Notes = textutil.Collapse(rule.Notes)
		}
	}
	if d.CombineMode != spell.CombineSequence {
		slices.SortStableFunc(d.Parts, func(a, b spell.DamagePart) int {
			return strings.Compare(a.ID, b.ID)
		})
	}
}

// canonicalSavingThrow keeps the order of multiple saves.
func canonicalSavingThrow(s *spell.SavingThrowSpec) {
	if s == nil {
		return
	}
	s.Kind = enum(s.Kind)
	s.DMGuidance = textutil.Narrative(s.DMGuidance)
	s.Notes = textutil.Collapse(s.Notes)
	if s.Single != nil {
		singleSave(s.Single)
	}
	for i := range s.Multiple {
		singleSave(&s.Multiple[i])
	}
}

func singleSave(s *spell.SingleSave) {
	s.ID = textutil.Collapse(s.ID)
	s.SaveType = enum(s.SaveType)
	s.SaveVs = enum(s.SaveVs)
	s.AppliesTo = enum(s.AppliesTo)
	s.Timing = enum(s.Timing)
	s.OnSuccess = enum(s.OnSuccess)
	s.OnFailure = enum(s.OnFailure)
}

func canonicalMagicResistance(m *spell.MagicResistanceSpec) {
	if m == nil {
		return
	}
	m.Kind = enum(m.Kind)
	m.AppliesTo = enum(m.AppliesTo)
	m.SpecialRule = textutil.Narrative(m.SpecialRule)
	m.Notes = textutil.Collapse(m.Notes)
	if m.Partial != nil {
		m.Partial.Scope = enum(m.Partial.Scope)
		if len(m.Partial.PartIDs) > 0 {
			m.Partial.PartIDs = list(m.Partial.PartIDs)
		}
	}
}
