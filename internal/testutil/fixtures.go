package testutil

import (
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

// NewSpec returns a ProductSpec shaped like a Bolt double stacker, suitable
// for test fixtures. Override individual fields with options.
func NewSpec(opts ...func(*pkgcatalog.ProductSpec)) pkgcatalog.ProductSpec {
	p := pkgcatalog.ProductSpec{
		ModelID:    "TEST-01",
		SeriesKey:  pkgcatalog.SeriesBolt,
		Name:       "Sedan + Sedan",
		CarHeights: map[string]int{"entry": 1500, "upper": 1500},
		Dimensions: pkgcatalog.Dimensions{
			RequiredHeight: 3200,
			RequiredWidth:  2400,
			PlatformLength: 5000,
			TotalLength:    5300,
		},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithModel sets the series and model id.
func WithModel(series pkgcatalog.SeriesKey, id string) func(*pkgcatalog.ProductSpec) {
	return func(p *pkgcatalog.ProductSpec) {
		p.SeriesKey = series
		p.ModelID = id
	}
}

// WithDimensions replaces all dimensions.
func WithDimensions(d pkgcatalog.Dimensions) func(*pkgcatalog.ProductSpec) {
	return func(p *pkgcatalog.ProductSpec) { p.Dimensions = d }
}

// WithPit sets the required pit depth.
func WithPit(depth int) func(*pkgcatalog.ProductSpec) {
	return func(p *pkgcatalog.ProductSpec) { p.Dimensions.PitDepth = depth }
}

// WithMatrix turns the spec into a matrix-series model with the given layout.
func WithMatrix(rows, columns int) func(*pkgcatalog.ProductSpec) {
	return func(p *pkgcatalog.ProductSpec) {
		p.SeriesKey = pkgcatalog.SeriesPuzzle
		p.CarHeights = nil
		p.CarHeight = 1550
		p.Configuration = &pkgcatalog.Configuration{Rows: rows, Columns: columns, Levels: 1}
		p.Dimensions = pkgcatalog.Dimensions{
			RequiredHeight: 2000,
			RequiredWidth:  2500 * columns,
			RequiredLength: 5000*rows + 500,
		}
	}
}

// CatalogDoc is a small catalogue document covering an above-ground, a pit
// and a matrix model, for tests that need a non-embedded catalogue.
const CatalogDoc = `
boltSeries:
  T-ABOVE:
    name: Sedan + Sedan
    carHeights: { entry: 1500, upper: 1500 }
    dimensions: { requiredHeight: 3200, requiredWidth: 2400, platformLength: 5000, totalLength: 5300 }
  T-ABOVE-2:
    name: Sedan + Sedan
    carHeights: { entry: 1500, upper: 1500 }
    dimensions: { requiredHeight: 3200, requiredWidth: 2400, platformLength: 5000, totalLength: 5300 }
pitPro111:
  T-PIT:
    name: Sedan + Sedan + Sedan
    carHeights: { top: 1550, ground: 1550, pit: 1550 }
    dimensions: { requiredHeight: 3600, pitDepth: 1800, requiredWidth: 2400, platformLength: 5000, totalLength: 5300 }
puzzleParking:
  T-MATRIX:
    name: 2 Rows x 3 Columns
    configuration: { rows: 2, columns: 3, levels: 1 }
    carHeight: 1550
    dimensions: { requiredHeight: 2000, requiredWidth: 7500, requiredLength: 10500 }
`
