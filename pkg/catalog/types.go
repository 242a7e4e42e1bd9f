package catalog

// SeriesKey identifies a product series. The values match the keys of the
// published catalogue document.
type SeriesKey string

// Known series.
const (
	SeriesBolt      SeriesKey = "boltSeries"
	SeriesPitPro111 SeriesKey = "pitPro111"
	SeriesPitPro211 SeriesKey = "pitPro211"
	SeriesElite     SeriesKey = "eliteSeries"
	SeriesPuzzle    SeriesKey = "puzzleParking"
)

// SeriesKind describes the structural family of a series.
type SeriesKind string

const (
	KindDoubleStacker SeriesKind = "double-stacker"
	KindThreeLevelPit SeriesKind = "three-level-pit"
	KindMultiLevelPit SeriesKind = "multi-level-pit"
	KindFourPost      SeriesKind = "four-post"
	KindMatrix        SeriesKind = "matrix"
)

type seriesMeta struct {
	kind        SeriesKind
	description string
}

var knownSeries = map[SeriesKey]seriesMeta{
	SeriesBolt:      {KindDoubleStacker, "Double stacker parking system with 2 levels"},
	SeriesPitPro111: {KindThreeLevelPit, "Three-level parking system with pit"},
	SeriesPitPro211: {KindMultiLevelPit, "Multi-level pit parking with wider platform"},
	SeriesElite:     {KindFourPost, "Four-post heavy-duty stacker"},
	SeriesPuzzle:    {KindMatrix, "Independent matrix parking system"},
}

// Valid reports whether k is one of the known series.
func (k SeriesKey) Valid() bool {
	_, ok := knownSeries[k]
	return ok
}

// Kind returns the structural family of the series, or "" if unknown.
func (k SeriesKey) Kind() SeriesKind {
	return knownSeries[k].kind
}

// Description returns a short human-readable summary of the series.
func (k SeriesKey) Description() string {
	if m, ok := knownSeries[k]; ok {
		return m.description
	}
	return "Advanced parking system"
}

// IsMatrix reports whether the series is a matrix (puzzle) system, whose
// models are sized by car height rather than car length.
func (k SeriesKey) IsMatrix() bool {
	return k.Kind() == KindMatrix
}

// Dimensions holds the clearances a model needs, in millimeters. A zero
// value means the model does not declare that dimension.
type Dimensions struct {
	RequiredHeight int `yaml:"requiredHeight" json:"requiredHeight"`
	RequiredWidth  int `yaml:"requiredWidth,omitempty" json:"requiredWidth,omitempty"`
	RequiredLength int `yaml:"requiredLength,omitempty" json:"requiredLength,omitempty"`
	PlatformLength int `yaml:"platformLength,omitempty" json:"platformLength,omitempty"`
	TotalLength    int `yaml:"totalLength,omitempty" json:"totalLength,omitempty"`
	PitDepth       int `yaml:"pitDepth,omitempty" json:"pitDepth,omitempty"`
}

// Configuration is the slot layout of a matrix system.
type Configuration struct {
	Rows    int `yaml:"rows" json:"rows"`
	Columns int `yaml:"columns" json:"columns"`
	Levels  int `yaml:"levels" json:"levels"`
}

// ProductSpec is one parking-system model.
//
// ModelID and SeriesKey are the map keys of the catalogue document, so they
// are not part of the serialized spec itself.
type ProductSpec struct {
	ModelID       string         `yaml:"-" json:"-"`
	SeriesKey     SeriesKey      `yaml:"-" json:"-"`
	Name          string         `yaml:"name" json:"name"`
	CarHeights    map[string]int `yaml:"carHeights,omitempty" json:"carHeights,omitempty"`
	CarHeight     int            `yaml:"carHeight,omitempty" json:"carHeight,omitempty"`
	Capacity      int            `yaml:"capacity,omitempty" json:"capacity,omitempty"`
	Configuration *Configuration `yaml:"configuration,omitempty" json:"configuration,omitempty"`
	Dimensions    Dimensions     `yaml:"dimensions" json:"dimensions"`
}

// HasPit reports whether the model is a below-grade system.
func (p ProductSpec) HasPit() bool {
	return p.Dimensions.PitDepth > 0
}

// LengthClearance returns the length the model occupies: total length when
// declared, otherwise the matrix-style required length, otherwise the
// platform length.
func (p ProductSpec) LengthClearance() int {
	d := p.Dimensions
	switch {
	case d.TotalLength > 0:
		return d.TotalLength
	case d.RequiredLength > 0:
		return d.RequiredLength
	default:
		return d.PlatformLength
	}
}

// TotalCapacity returns the declared capacity, or the slot count of the
// configuration when no capacity is declared.
func (p ProductSpec) TotalCapacity() int {
	if p.Capacity > 0 {
		return p.Capacity
	}
	if p.Configuration == nil {
		return 0
	}
	levels := p.Configuration.Levels
	if levels < 1 {
		levels = 1
	}
	return p.Configuration.Rows * p.Configuration.Columns * levels
}

// Clone returns a deep copy so callers can never alias catalogue storage.
func (p ProductSpec) Clone() ProductSpec {
	cp := p
	if p.CarHeights != nil {
		cp.CarHeights = make(map[string]int, len(p.CarHeights))
		for k, v := range p.CarHeights {
			cp.CarHeights[k] = v
		}
	}
	if p.Configuration != nil {
		c := *p.Configuration
		cp.Configuration = &c
	}
	return cp
}

// Entry is one flattened (series, model, spec) triple.
type Entry struct {
	SeriesKey SeriesKey   `json:"series_key"`
	ModelID   string      `json:"model_id"`
	Spec      ProductSpec `json:"spec"`
}

// Series summarizes one series and the ids of its models in catalogue order.
type Series struct {
	Key         SeriesKey  `json:"key"`
	Kind        SeriesKind `json:"kind"`
	Description string     `json:"description"`
	ModelIDs    []string   `json:"model_ids"`
}
