// Package catalog provides the scanning engine that matches the product
// catalogue against a customer's space, and single-model dimension lookup.
package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/HerbHall/harpcalc/internal/compat"
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

// ParkingType restricts a scan to pit or above-ground systems.
type ParkingType string

const (
	ParkingAny         ParkingType = "any"
	ParkingPit         ParkingType = "pit"
	ParkingAboveGround ParkingType = "above-ground"
)

// ParseParkingType accepts "", "any", "pit", "above-ground" and "above".
func ParseParkingType(s string) (ParkingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ParkingAny):
		return ParkingAny, nil
	case string(ParkingPit):
		return ParkingPit, nil
	case string(ParkingAboveGround), "above":
		return ParkingAboveGround, nil
	default:
		return "", compat.Invalid("parking_type", "unknown parking type %q", s)
	}
}

// Allows reports whether spec passes the filter. Pit systems are those that
// declare a pit depth.
func (t ParkingType) Allows(spec pkgcatalog.ProductSpec) bool {
	switch t {
	case ParkingPit:
		return spec.HasPit()
	case ParkingAboveGround:
		return !spec.HasPit()
	default:
		return true
	}
}

// ScanRequest is one catalogue scan.
type ScanRequest struct {
	Envelope compat.SpaceEnvelope
	Policy   compat.Policy
	Parking  ParkingType
}

// Match is the evaluation of one catalogue model.
type Match struct {
	SeriesKey pkgcatalog.SeriesKey   `json:"series_key"`
	ModelID   string                 `json:"model_id"`
	Name      string                 `json:"name"`
	Spec      pkgcatalog.ProductSpec `json:"spec"`
	compat.Result
}

// ScanResult partitions the scanned models. Compatible is sorted by
// descending fit score when the policy ranks; otherwise both lists keep
// catalogue order.
type ScanResult struct {
	Policy       string               `json:"policy"`
	ParkingType  ParkingType          `json:"parking_type"`
	Envelope     compat.SpaceEnvelope `json:"envelope"`
	Evaluated    int                  `json:"evaluated"`
	Compatible   []Match              `json:"compatible"`
	Incompatible []Match              `json:"incompatible"`
}

// Engine scans the catalogue with a compatibility policy.
type Engine struct {
	cat *pkgcatalog.Catalog
}

// NewEngine creates a new scanning engine backed by the given catalogue.
func NewEngine(cat *pkgcatalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Catalog returns the catalogue the engine scans.
func (e *Engine) Catalog() *pkgcatalog.Catalog {
	return e.cat
}

// Scan validates the request, then evaluates every catalogue model allowed
// by the parking filter. Nothing is evaluated when validation fails.
func (e *Engine) Scan(req ScanRequest) (*ScanResult, error) {
	if err := validateScan(req); err != nil {
		return nil, err
	}
	parking := req.Parking
	if parking == "" {
		parking = ParkingAny
	}

	entries, err := e.cat.Entries()
	if err != nil {
		return nil, err
	}

	res := &ScanResult{
		Policy:       req.Policy.Name(),
		ParkingType:  parking,
		Envelope:     req.Envelope,
		Compatible:   []Match{},
		Incompatible: []Match{},
	}
	for i := range entries {
		spec := entries[i].Spec
		if !parking.Allows(spec) {
			continue
		}
		res.Evaluated++

		m := Match{
			SeriesKey: entries[i].SeriesKey,
			ModelID:   entries[i].ModelID,
			Name:      spec.Name,
			Spec:      spec,
			Result:    req.Policy.Evaluate(spec, req.Envelope),
		}
		if m.Compatible {
			res.Compatible = append(res.Compatible, m)
		} else {
			res.Incompatible = append(res.Incompatible, m)
		}
	}

	if compat.IsRanked(req.Policy) {
		sort.SliceStable(res.Compatible, func(a, b int) bool {
			return res.Compatible[a].FitScore > res.Compatible[b].FitScore
		})
	}

	return res, nil
}

func validateScan(req ScanRequest) error {
	var errs []error
	if err := req.Envelope.Validate(); err != nil {
		errs = append(errs, err)
	}
	if req.Policy == nil {
		errs = append(errs, compat.Invalid("policy", "is required"))
	}
	switch req.Parking {
	case "", ParkingAny, ParkingAboveGround:
	case ParkingPit:
		if req.Envelope.PitDepth == 0 {
			errs = append(errs, compat.Invalid("pit_depth", "is required for pit parking"))
		}
	default:
		errs = append(errs, compat.Invalid("parking_type", "unknown parking type %q", req.Parking))
	}
	return errors.Join(errs...)
}
