package catalog

import (
	"errors"
	"strings"

	"github.com/HerbHall/harpcalc/internal/compat"
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

// Catalogue dimensions assume these reference vehicles.
const (
	BaselineCarLength = 5000
	BaselineCarHeight = 1550
)

// Accepted vehicle sizes for a lookup.
const (
	MinCarLength = 3000
	MaxCarLength = 6000
	MinCarHeight = 1400
	MaxCarHeight = 2000
)

// LookupRequest selects one model and the vehicle it must hold. Zero
// CarLength or CarHeight means the baseline vehicle.
type LookupRequest struct {
	SeriesKey pkgcatalog.SeriesKey
	ModelID   string
	CarLength int
	CarHeight int
}

// LookupResult is a model's requirements adjusted for the caller's vehicle.
type LookupResult struct {
	SeriesKey   pkgcatalog.SeriesKey   `json:"series_key"`
	ModelID     string                 `json:"model_id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	CarLength   int                    `json:"car_length,omitempty"`
	CarHeight   int                    `json:"car_height,omitempty"`
	Adjustment  int                    `json:"adjustment"`
	Capacity    int                    `json:"capacity,omitempty"`
	Spec        pkgcatalog.ProductSpec `json:"spec"`
}

// Lookup resolves one model directly, without scanning, and shifts its
// dimensions for the requested vehicle. Matrix series are sized by car
// height; every other series by car length.
func (e *Engine) Lookup(req LookupRequest) (*LookupResult, error) {
	if err := validateLookup(req); err != nil {
		return nil, err
	}

	spec, err := e.cat.Lookup(req.SeriesKey, req.ModelID)
	if err != nil {
		return nil, err
	}

	res := &LookupResult{
		SeriesKey:   req.SeriesKey,
		ModelID:     req.ModelID,
		Name:        spec.Name,
		Description: req.SeriesKey.Description(),
	}
	if req.SeriesKey.IsMatrix() {
		res.CarHeight = valueOr(req.CarHeight, BaselineCarHeight)
		res.Adjustment = res.CarHeight - BaselineCarHeight
		res.Spec = AdjustHeight(spec, res.Adjustment)
		res.Capacity = res.Spec.TotalCapacity()
	} else {
		res.CarLength = valueOr(req.CarLength, BaselineCarLength)
		res.Adjustment = res.CarLength - BaselineCarLength
		res.Spec = AdjustLength(spec, res.Adjustment)
	}
	return res, nil
}

// AdjustLength adds delta to every length-bearing dimension the spec
// declares. It is a plain offset, not a geometric recomputation.
func AdjustLength(spec pkgcatalog.ProductSpec, delta int) pkgcatalog.ProductSpec {
	out := spec.Clone()
	d := &out.Dimensions
	if d.PlatformLength > 0 {
		d.PlatformLength += delta
	}
	if d.TotalLength > 0 {
		d.TotalLength += delta
	}
	return out
}

// AdjustHeight adds delta to the required height of a matrix model and
// records the vehicle height it was sized for.
func AdjustHeight(spec pkgcatalog.ProductSpec, delta int) pkgcatalog.ProductSpec {
	out := spec.Clone()
	out.Dimensions.RequiredHeight += delta
	if out.CarHeight > 0 {
		out.CarHeight += delta
	}
	return out
}

func validateLookup(req LookupRequest) error {
	var errs []error
	if strings.TrimSpace(string(req.SeriesKey)) == "" {
		errs = append(errs, compat.Invalid("series", "is required"))
	}
	if strings.TrimSpace(req.ModelID) == "" {
		errs = append(errs, compat.Invalid("model", "is required"))
	}
	if req.SeriesKey.IsMatrix() {
		if req.CarHeight != 0 && (req.CarHeight < MinCarHeight || req.CarHeight > MaxCarHeight) {
			errs = append(errs, compat.Invalid("car_height", "must be between %dmm and %dmm, got %d",
				MinCarHeight, MaxCarHeight, req.CarHeight))
		}
	} else if req.CarLength != 0 && (req.CarLength < MinCarLength || req.CarLength > MaxCarLength) {
		errs = append(errs, compat.Invalid("car_length", "must be between %dmm and %dmm, got %d",
			MinCarLength, MaxCarLength, req.CarLength))
	}
	return errors.Join(errs...)
}

func valueOr(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
