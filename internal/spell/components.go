package spell

// Components records which casting components a spell requires. Every flag
// is always serialized.
type Components struct {
	Verbal      bool `json:"verbal"`
	Somatic     bool `json:"somatic"`
	Material    bool `json:"material"`
	Focus       bool `json:"focus"`
	DivineFocus bool `json:"divine_focus"`
	Experience  bool `json:"experience"`
}

// MaterialComponent is one entry of a spell's material component list.
type MaterialComponent struct {
	Name        string   `json:"name"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	GpValue     *float64 `json:"gp_value,omitempty"`
	IsConsumed  bool     `json:"is_consumed,omitempty"`
	Description string   `json:"description,omitempty"`
}
