package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/HerbHall/harpcalc/internal/compat"
	"github.com/HerbHall/harpcalc/internal/testutil"
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := pkgcatalog.Parse([]byte(testutil.CatalogDoc))
	if err != nil {
		t.Fatalf("Parse(CatalogDoc) error = %v", err)
	}
	return NewEngine(cat)
}

func modelIDs(ms []Match) []string {
	out := make([]string, len(ms))
	for i := range ms {
		out[i] = ms[i].ModelID
	}
	return out
}

func TestEngine_Scan_ExactMatchBS32(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())
	res, err := engine.Scan(ScanRequest{
		Envelope: compat.SpaceEnvelope{Height: 3200, Width: 2400, Length: 5300},
		Policy:   compat.ExactMatch{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Compatible) != 1 || res.Compatible[0].ModelID != "BS-32" {
		t.Fatalf("compatible = %v, want [BS-32]", modelIDs(res.Compatible))
	}
	if len(res.Compatible[0].Reasons) != 0 {
		t.Errorf("BS-32 reasons = %v, want none", res.Compatible[0].Reasons)
	}
	if res.Evaluated != pkgcatalog.NewCatalog().Len() {
		t.Errorf("evaluated = %d, want whole catalogue", res.Evaluated)
	}
	if len(res.Compatible)+len(res.Incompatible) != res.Evaluated {
		t.Errorf("partition sizes %d+%d != evaluated %d", len(res.Compatible), len(res.Incompatible), res.Evaluated)
	}
}

func TestEngine_Scan_ExactMatchKeepsCatalogueOrder(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.Scan(ScanRequest{
		Envelope: compat.SpaceEnvelope{Height: 3200, Width: 2400, Length: 5000},
		Policy:   compat.ExactMatch{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := strings.Join(modelIDs(res.Compatible), ",")
	if got != "T-ABOVE,T-ABOVE-2" {
		t.Errorf("compatible = %s, want T-ABOVE,T-ABOVE-2", got)
	}
	got = strings.Join(modelIDs(res.Incompatible), ",")
	if got != "T-PIT,T-MATRIX" {
		t.Errorf("incompatible = %s, want T-PIT,T-MATRIX", got)
	}
}

func TestEngine_Scan_ClearanceSortedByScore(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())
	res, err := engine.Scan(ScanRequest{
		Envelope: compat.SpaceEnvelope{Height: 4200, Width: 2700, Length: 5400, PitDepth: 2050},
		Policy:   compat.MinimumClearance{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Compatible) == 0 {
		t.Fatal("expected compatible models")
	}

	for i := 1; i < len(res.Compatible); i++ {
		if res.Compatible[i].FitScore > res.Compatible[i-1].FitScore {
			t.Errorf("not sorted: %s (%.2f) before %s (%.2f)",
				res.Compatible[i-1].ModelID, res.Compatible[i-1].FitScore,
				res.Compatible[i].ModelID, res.Compatible[i].FitScore)
		}
	}
	for _, m := range res.Incompatible {
		if len(m.Reasons) == 0 {
			t.Errorf("%s incompatible without reasons", m.ModelID)
		}
		if m.FitScore != 0 {
			t.Errorf("%s incompatible with score %.2f", m.ModelID, m.FitScore)
		}
	}
}

func TestEngine_Scan_StableForEqualScores(t *testing.T) {
	engine := newTestEngine(t)
	res, err := engine.Scan(ScanRequest{
		Envelope: compat.SpaceEnvelope{Height: 4000, Width: 3000, Length: 6000},
		Policy:   compat.MinimumClearance{},
		Parking:  ParkingAboveGround,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := modelIDs(res.Compatible)
	if len(ids) != 2 || ids[0] != "T-ABOVE" || ids[1] != "T-ABOVE-2" {
		t.Errorf("compatible = %v, want [T-ABOVE T-ABOVE-2] in catalogue order", ids)
	}
	if res.Compatible[0].FitScore != res.Compatible[1].FitScore {
		t.Errorf("fixture models should tie: %.4f vs %.4f", res.Compatible[0].FitScore, res.Compatible[1].FitScore)
	}
}

func TestEngine_Scan_ParkingFilter(t *testing.T) {
	engine := newTestEngine(t)
	space := compat.SpaceEnvelope{Height: 4000, Width: 8000, Length: 11000, PitDepth: 2000}

	tests := []struct {
		name    string
		parking ParkingType
		want    string
	}{
		{name: "any", parking: ParkingAny, want: "T-ABOVE,T-ABOVE-2,T-PIT,T-MATRIX"},
		{name: "pit only", parking: ParkingPit, want: "T-PIT"},
		// The matrix model has no pit depth, so it counts as above ground.
		{name: "above ground", parking: ParkingAboveGround, want: "T-ABOVE,T-ABOVE-2,T-MATRIX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Scan(ScanRequest{Envelope: space, Policy: compat.ExactMatch{}, Parking: tt.parking})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			all := append(append([]Match{}, res.Compatible...), res.Incompatible...)
			got := strings.Join(modelIDs(all), ",")
			if got != tt.want {
				t.Errorf("scanned = %s, want %s", got, tt.want)
			}
			if res.Evaluated != len(all) {
				t.Errorf("evaluated = %d, want %d", res.Evaluated, len(all))
			}
		})
	}
}

func TestEngine_Scan_AboveGroundModelIgnoresPit(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())
	res, err := engine.Scan(ScanRequest{
		Envelope: compat.SpaceEnvelope{Height: 3200, Width: 2400, Length: 5300, PitDepth: 1800},
		Policy:   compat.MinimumClearance{},
		Parking:  ParkingAboveGround,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Compatible) == 0 || res.Compatible[0].ModelID != "BS-32" {
		t.Fatalf("compatible = %v, want BS-32 first", modelIDs(res.Compatible))
	}
}

func TestEngine_Scan_PitRequiredNoneAvailable(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())
	res, err := engine.Scan(ScanRequest{
		Envelope: compat.SpaceEnvelope{Height: 3600, Width: 2400, Length: 5300},
		Policy:   compat.MinimumClearance{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, m := range res.Compatible {
		if m.Spec.HasPit() {
			t.Errorf("pit model %s compatible with a space without a pit", m.ModelID)
		}
	}
	var found bool
	for _, m := range res.Incompatible {
		if m.ModelID != "PP111-01" {
			continue
		}
		found = true
		if len(m.Reasons) != 1 || !strings.Contains(m.Reasons[0], "pit required but none available") {
			t.Errorf("PP111-01 reasons = %v", m.Reasons)
		}
	}
	if !found {
		t.Error("PP111-01 missing from incompatible results")
	}
}

func TestEngine_Scan_NoCompatibleIsNotAnError(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())
	res, err := engine.Scan(ScanRequest{
		Envelope: compat.SpaceEnvelope{Height: 100, Width: 100, Length: 100},
		Policy:   compat.MinimumClearance{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Compatible == nil || len(res.Compatible) != 0 {
		t.Errorf("compatible = %v, want empty non-nil slice", res.Compatible)
	}
}

func TestEngine_Scan_Validation(t *testing.T) {
	engine := NewEngine(pkgcatalog.NewCatalog())

	tests := []struct {
		name   string
		req    ScanRequest
		fields []string
	}{
		{
			name:   "missing dimensions",
			req:    ScanRequest{Envelope: compat.SpaceEnvelope{Height: 3200}, Policy: compat.ExactMatch{}},
			fields: []string{"width", "length"},
		},
		{
			name:   "no policy",
			req:    ScanRequest{Envelope: compat.SpaceEnvelope{Height: 1, Width: 1, Length: 1}},
			fields: []string{"policy"},
		},
		{
			name: "pit parking without pit depth",
			req: ScanRequest{
				Envelope: compat.SpaceEnvelope{Height: 3600, Width: 2400, Length: 5300},
				Policy:   compat.MinimumClearance{},
				Parking:  ParkingPit,
			},
			fields: []string{"pit_depth"},
		},
		{
			name: "unknown parking type",
			req: ScanRequest{
				Envelope: compat.SpaceEnvelope{Height: 1, Width: 1, Length: 1},
				Policy:   compat.ExactMatch{},
				Parking:  "rooftop",
			},
			fields: []string{"parking_type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Scan(tt.req)
			if res != nil {
				t.Errorf("expected no result on invalid input, got %+v", res)
			}
			if !errors.Is(err, compat.ErrValidation) {
				t.Fatalf("error = %v, want validation error", err)
			}
			var got []string
			for _, ve := range compat.ValidationErrors(err) {
				got = append(got, ve.Field)
			}
			if strings.Join(got, ",") != strings.Join(tt.fields, ",") {
				t.Errorf("fields = %v, want %v", got, tt.fields)
			}
		})
	}
}

func TestEngine_Scan_DoesNotMutateCatalogue(t *testing.T) {
	cat := pkgcatalog.NewCatalog()
	engine := NewEngine(cat)
	res, err := engine.Scan(ScanRequest{
		Envelope: compat.SpaceEnvelope{Height: 3200, Width: 2400, Length: 5300},
		Policy:   compat.ExactMatch{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res.Compatible[0].Spec.Dimensions.RequiredHeight = 1

	spec, _ := cat.Lookup(pkgcatalog.SeriesBolt, "BS-32")
	if spec.Dimensions.RequiredHeight != 3200 {
		t.Errorf("catalogue mutated: height = %d", spec.Dimensions.RequiredHeight)
	}
}

func TestParseParkingType(t *testing.T) {
	tests := []struct {
		in      string
		want    ParkingType
		wantErr bool
	}{
		{in: "", want: ParkingAny},
		{in: "any", want: ParkingAny},
		{in: "PIT", want: ParkingPit},
		{in: "above", want: ParkingAboveGround},
		{in: "above-ground", want: ParkingAboveGround},
		{in: "basement", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseParkingType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, compat.ErrValidation) {
					t.Errorf("ParseParkingType(%q) error = %v, want validation error", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseParkingType(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}
