package spell

// DurationKind discriminates DurationSpec variants.
type DurationKind string

const (
	DurationInstant        DurationKind = "instant"
	DurationTime           DurationKind = "time"
	DurationConcentration  DurationKind = "concentration"
	DurationConditional    DurationKind = "conditional"
	DurationPermanent      DurationKind = "permanent"
	DurationUntilDispelled DurationKind = "until_dispelled"
	DurationUntilTriggered DurationKind = "until_triggered"
	DurationUsageLimited   DurationKind = "usage_limited"
	DurationPlanar         DurationKind = "planar"
	DurationSpecial        DurationKind = "special"
)

// Valid reports whether k is a known duration kind.
func (k DurationKind) Valid() bool {
	switch k {
	case DurationInstant, DurationTime, DurationConcentration, DurationConditional,
		DurationPermanent, DurationUntilDispelled, DurationUntilTriggered,
		DurationUsageLimited, DurationPlanar, DurationSpecial:
		return true
	}
	return false
}

// TimeUnit is shared by durations and casting times.
type TimeUnit string

const (
	UnitSegment     TimeUnit = "segment"
	UnitRound       TimeUnit = "round"
	UnitTurn        TimeUnit = "turn"
	UnitMinute      TimeUnit = "minute"
	UnitHour        TimeUnit = "hour"
	UnitDay         TimeUnit = "day"
	UnitWeek        TimeUnit = "week"
	UnitMonth       TimeUnit = "month"
	UnitYear        TimeUnit = "year"
	UnitAction      TimeUnit = "action"
	UnitBonusAction TimeUnit = "bonus_action"
	UnitReaction    TimeUnit = "reaction"
	UnitSpecial     TimeUnit = "special"
)

// ValidDuration reports whether u is empty or usable as a duration unit.
func (u TimeUnit) ValidDuration() bool {
	switch u {
	case "", UnitSegment, UnitRound, UnitTurn, UnitMinute, UnitHour, UnitDay,
		UnitWeek, UnitMonth, UnitYear, UnitSpecial:
		return true
	}
	return false
}

// ValidCasting reports whether u is empty or usable as a casting time unit.
func (u TimeUnit) ValidCasting() bool {
	switch u {
	case "", UnitSegment, UnitRound, UnitTurn, UnitMinute, UnitHour, UnitDay,
		UnitAction, UnitBonusAction, UnitReaction, UnitSpecial:
		return true
	}
	return false
}

// DurationSpec is the structured form of a spell's duration.
type DurationSpec struct {
	Kind           DurationKind `json:"kind"`
	Unit           TimeUnit     `json:"unit,omitempty"`
	Duration       *Scalar      `json:"duration,omitempty"`
	Condition      string       `json:"condition,omitempty"`
	Uses           *Scalar      `json:"uses,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	RawLegacyValue string       `json:"raw_legacy_value,omitempty"`
}

// IsFallback reports whether the duration could not be parsed.
func (d *DurationSpec) IsFallback() bool { return d != nil && d.RawLegacyValue != "" }

// CastingTime is the structured form of a spell's casting time.
type CastingTime struct {
	Text           string   `json:"text,omitempty"`
	Unit           TimeUnit `json:"unit"`
	BaseValue      float64  `json:"base_value"`
	PerLevel       float64  `json:"per_level,omitempty"`
	LevelDivisor   float64  `json:"level_divisor,omitempty"`
	RawLegacyValue string   `json:"raw_legacy_value,omitempty"`
}

// IsFallback reports whether the casting time could not be parsed.
func (c *CastingTime) IsFallback() bool { return c != nil && c.RawLegacyValue != "" }
