package spell

// RangeKind discriminates RangeSpec variants.
type RangeKind string

const (
	RangePersonal         RangeKind = "personal"
	RangeTouch            RangeKind = "touch"
	RangeDistance         RangeKind = "distance"
	RangeDistanceLOS      RangeKind = "distance_los"
	RangeDistanceLOE      RangeKind = "distance_loe"
	RangeLOS              RangeKind = "los"
	RangeLOE              RangeKind = "loe"
	RangeSight            RangeKind = "sight"
	RangeHearing          RangeKind = "hearing"
	RangeVoice            RangeKind = "voice"
	RangeSenses           RangeKind = "senses"
	RangeSameRoom         RangeKind = "same_room"
	RangeSameStructure    RangeKind = "same_structure"
	RangeSameDungeonLevel RangeKind = "same_dungeon_level"
	RangeWilderness       RangeKind = "wilderness"
	RangeSamePlane        RangeKind = "same_plane"
	RangeInterplanar      RangeKind = "interplanar"
	RangeAnywhereOnPlane  RangeKind = "anywhere_on_plane"
	RangeDomain           RangeKind = "domain"
	RangeUnlimited        RangeKind = "unlimited"
	RangeSpecial          RangeKind = "special"
)

// Valid reports whether k is a known range kind.
func (k RangeKind) Valid() bool {
	switch k {
	case RangePersonal, RangeTouch, RangeDistance, RangeDistanceLOS, RangeDistanceLOE,
		RangeLOS, RangeLOE, RangeSight, RangeHearing, RangeVoice, RangeSenses,
		RangeSameRoom, RangeSameStructure, RangeSameDungeonLevel, RangeWilderness,
		RangeSamePlane, RangeInterplanar, RangeAnywhereOnPlane, RangeDomain,
		RangeUnlimited, RangeSpecial:
		return true
	}
	return false
}

// IsDistance reports whether the kind carries a measured distance.
func (k RangeKind) IsDistance() bool {
	switch k {
	case RangeDistance, RangeDistanceLOS, RangeDistanceLOE:
		return true
	}
	return false
}

// RangeUnit is the measurement unit of a distance range.
type RangeUnit string

const (
	RangeFeet    RangeUnit = "ft"
	RangeYards   RangeUnit = "yd"
	RangeMiles   RangeUnit = "mi"
	RangeInches  RangeUnit = "inch"
	RangeUnitAny RangeUnit = "special"
)

// Valid reports whether u is empty or a known unit.
func (u RangeUnit) Valid() bool {
	switch u {
	case "", RangeFeet, RangeYards, RangeMiles, RangeInches, RangeUnitAny:
		return true
	}
	return false
}

// Range requirement markers.
const (
	RequiresLOS = "los"
	RequiresLOE = "loe"
)

// RangeSpec is the structured form of a spell's range.
type RangeSpec struct {
	Kind           RangeKind `json:"kind"`
	Text           string    `json:"text,omitempty"`
	Unit           RangeUnit `json:"unit,omitempty"`
	Distance       *Scalar   `json:"distance,omitempty"`
	Requires       []string  `json:"requires,omitempty"`
	Anchor         string    `json:"anchor,omitempty"`
	RegionUnit     string    `json:"region_unit,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	RawLegacyValue string    `json:"raw_legacy_value,omitempty"`
}

// IsFallback reports whether the range could not be parsed.
func (r *RangeSpec) IsFallback() bool { return r != nil && r.RawLegacyValue != "" }
