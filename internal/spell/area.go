package spell

// AreaKind discriminates AreaSpec variants.
type AreaKind string

const (
	AreaRadiusCircle AreaKind = "radius_circle"
	AreaRadiusSphere AreaKind = "radius_sphere"
	AreaCone         AreaKind = "cone"
	AreaLine         AreaKind = "line"
	AreaRect         AreaKind = "rect"
	AreaRectPrism    AreaKind = "rect_prism"
	AreaCylinder     AreaKind = "cylinder"
	AreaWall         AreaKind = "wall"
	AreaCube         AreaKind = "cube"
	AreaVolume       AreaKind = "volume"
	AreaSurface      AreaKind = "surface"
	AreaTiles        AreaKind = "tiles"
	AreaCreatures    AreaKind = "creatures"
	AreaObjects      AreaKind = "objects"
	AreaRegion       AreaKind = "region"
	AreaScope        AreaKind = "scope"
	AreaPoint        AreaKind = "point"
	AreaSpecial      AreaKind = "special"
)

// Valid reports whether k is a known area kind.
func (k AreaKind) Valid() bool {
	switch k {
	case AreaRadiusCircle, AreaRadiusSphere, AreaCone, AreaLine, AreaRect,
		AreaRectPrism, AreaCylinder, AreaWall, AreaCube, AreaVolume, AreaSurface,
		AreaTiles, AreaCreatures, AreaObjects, AreaRegion, AreaScope, AreaPoint,
		AreaSpecial:
		return true
	}
	return false
}

// AreaUnit is a linear, square, cubic, or tile unit.
type AreaUnit string

const (
	AreaFeet        AreaUnit = "ft"
	AreaYards       AreaUnit = "yd"
	AreaMiles       AreaUnit = "mi"
	AreaInches      AreaUnit = "inch"
	AreaSquareFeet  AreaUnit = "ft2"
	AreaSquareYards AreaUnit = "yd2"
	AreaCubicFeet   AreaUnit = "ft3"
	AreaCubicYards  AreaUnit = "yd3"
	AreaSquares     AreaUnit = "square"
	AreaHexes       AreaUnit = "hex"
	AreaRooms       AreaUnit = "room"
	AreaFloors      AreaUnit = "floor"
	AreaUnitAny     AreaUnit = "special"
)

// Valid reports whether u is empty or a known unit.
func (u AreaUnit) Valid() bool {
	switch u {
	case "", AreaFeet, AreaYards, AreaMiles, AreaInches, AreaSquareFeet,
		AreaSquareYards, AreaCubicFeet, AreaCubicYards, AreaSquares, AreaHexes,
		AreaRooms, AreaFloors, AreaUnitAny:
		return true
	}
	return false
}

// AreaSpec is the structured form of a spell's area of effect.
type AreaSpec struct {
	Kind           AreaKind `json:"kind"`
	Unit           AreaUnit `json:"unit,omitempty"`
	Radius         *Scalar  `json:"radius,omitempty"`
	Length         *Scalar  `json:"length,omitempty"`
	Width          *Scalar  `json:"width,omitempty"`
	Height         *Scalar  `json:"height,omitempty"`
	Edge           *Scalar  `json:"edge,omitempty"`
	Surface        *Scalar  `json:"surface,omitempty"`
	Volume         *Scalar  `json:"volume,omitempty"`
	Count          *Scalar  `json:"count,omitempty"`
	CountSubject   string   `json:"count_subject,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	RawLegacyValue string   `json:"raw_legacy_value,omitempty"`
}

// IsFallback reports whether the area could not be parsed.
func (a *AreaSpec) IsFallback() bool { return a != nil && a.RawLegacyValue != "" }
