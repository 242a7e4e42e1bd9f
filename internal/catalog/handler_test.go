package catalog_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/harpcalc/internal/catalog"
	"github.com/HerbHall/harpcalc/internal/metrics"
	"github.com/HerbHall/harpcalc/internal/server"
	"github.com/HerbHall/harpcalc/internal/testutil"
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

func setupHandler(t *testing.T) *http.ServeMux {
	t.Helper()

	engine := catalog.NewEngine(pkgcatalog.NewCatalog())
	handler := catalog.NewHandler(engine, metrics.New(prometheus.NewRegistry()), testutil.TestLogger(t))

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) server.Problem {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content-type = %q, want application/problem+json", ct)
	}
	var p server.Problem
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	return p
}

func TestHandleListSeries(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "GET", "/api/v1/catalog/series", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var series []catalog.SeriesResponse
	if err := json.NewDecoder(w.Body).Decode(&series); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(series) != 5 {
		t.Fatalf("len(series) = %d, want 5", len(series))
	}
	if series[0].Key != pkgcatalog.SeriesBolt || len(series[0].Models) != 11 {
		t.Errorf("first series = %s with %d models, want boltSeries with 11", series[0].Key, len(series[0].Models))
	}
	last := series[len(series)-1]
	if last.Kind != "matrix" || last.Models[0].Capacity != 6 {
		t.Errorf("puzzle series = %+v", last)
	}
	if series[1].Models[0].HasPit != true {
		t.Error("PitPro 111 models should report a pit")
	}
}

func TestHandleListEntries(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "GET", "/api/v1/catalog/entries", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var doc map[string]map[string]pkgcatalog.ProductSpec
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	bs32, ok := doc["boltSeries"]["BS-32"]
	if !ok {
		t.Fatal("boltSeries/BS-32 missing from entries")
	}
	if bs32.Dimensions.RequiredHeight != 3200 {
		t.Errorf("BS-32 requiredHeight = %d, want 3200", bs32.Dimensions.RequiredHeight)
	}
}

func TestHandleLookup(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "GET", "/api/v1/catalog/series/pitPro111/models/PP111-01?car_length=5250", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, http.StatusOK, w.Body.String())
	}

	var res catalog.LookupResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Adjustment != 250 {
		t.Errorf("adjustment = %d, want 250", res.Adjustment)
	}
	if res.Spec.Dimensions.TotalLength != 5550 {
		t.Errorf("totalLength = %d, want 5550", res.Spec.Dimensions.TotalLength)
	}
}

func TestHandleLookup_NotFound(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "GET", "/api/v1/catalog/series/boltSeries/models/BS-99", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	p := decodeProblem(t, w)
	if p.Type != server.ProblemTypeNotFound {
		t.Errorf("type = %q, want %q", p.Type, server.ProblemTypeNotFound)
	}
}

func TestHandleLookup_InvalidQuery(t *testing.T) {
	mux := setupHandler(t)

	tests := []struct {
		name  string
		path  string
		field string
	}{
		{name: "not a number", path: "/api/v1/catalog/series/boltSeries/models/BS-32?car_length=long", field: "car_length"},
		{name: "out of range", path: "/api/v1/catalog/series/boltSeries/models/BS-32?car_length=7000", field: "car_length"},
		{name: "matrix height", path: "/api/v1/catalog/series/puzzleParking/models/PZ-2x3?car_height=2500", field: "car_height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(mux, "GET", tt.path, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			p := decodeProblem(t, w)
			if len(p.Errors) != 1 || p.Errors[0].Field != tt.field {
				t.Errorf("errors = %+v, want one for %s", p.Errors, tt.field)
			}
		})
	}
}

func TestHandleScan(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "POST", "/api/v1/catalog/scan", catalog.ScanBody{
		Height: 3200, Width: 2400, Length: 5300, Policy: "exact-match",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp catalog.ScanResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 || resp.Compatible[0].ModelID != "BS-32" {
		t.Errorf("count = %d, compatible = %+v; want BS-32 only", resp.Count, resp.Compatible)
	}
	if resp.Policy != "exact-match" || resp.ParkingType != catalog.ParkingAny {
		t.Errorf("policy = %q, parking = %q", resp.Policy, resp.ParkingType)
	}
}

func TestHandleScan_DefaultsToMinimumClearance(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "POST", "/api/v1/catalog/scan", catalog.ScanBody{
		Height: 4200, Width: 2700, Length: 5400, PitDepth: 2050,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp catalog.ScanResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Policy != "minimum-clearance" {
		t.Errorf("policy = %q, want minimum-clearance", resp.Policy)
	}
	for i := 1; i < len(resp.Compatible); i++ {
		if resp.Compatible[i].FitScore > resp.Compatible[i-1].FitScore {
			t.Errorf("compatible not sorted by fit score at %d", i)
		}
	}
}

func TestHandleScan_EmptyResultIsOK(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "POST", "/api/v1/catalog/scan", catalog.ScanBody{
		Height: 100, Width: 100, Length: 100,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var raw map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if raw["count"] != float64(0) {
		t.Errorf("count = %v, want 0", raw["count"])
	}
	compatible, ok := raw["compatible"].([]any)
	if !ok || len(compatible) != 0 {
		t.Errorf("compatible = %v, want empty array", raw["compatible"])
	}
}

func TestHandleScan_ValidationFailed(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "POST", "/api/v1/catalog/scan", catalog.ScanBody{
		Height: -1, Width: 2400, Length: 0, Policy: "best-guess",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	p := decodeProblem(t, w)
	if p.Type != server.ProblemTypeValidationFailed {
		t.Errorf("type = %q, want %q", p.Type, server.ProblemTypeValidationFailed)
	}
	var fields []string
	for _, fe := range p.Errors {
		fields = append(fields, fe.Field)
	}
	want := []string{"height", "length", "policy"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("fields[%d] = %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestHandleScan_PitParkingNeedsPitDepth(t *testing.T) {
	mux := setupHandler(t)

	w := doRequest(mux, "POST", "/api/v1/catalog/scan", catalog.ScanBody{
		Height: 3600, Width: 2400, Length: 5300, ParkingType: "pit",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	p := decodeProblem(t, w)
	if len(p.Errors) != 1 || p.Errors[0].Field != "pit_depth" {
		t.Errorf("errors = %+v, want pit_depth", p.Errors)
	}
}

func TestHandleScan_InvalidBody(t *testing.T) {
	mux := setupHandler(t)

	for name, body := range map[string]string{
		"not json":      "not json",
		"unknown field": `{"height":1,"width":1,"length":1,"colour":"red"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/catalog/scan", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			p := decodeProblem(t, w)
			if p.Type != server.ProblemTypeBadRequest {
				t.Errorf("type = %q, want %q", p.Type, server.ProblemTypeBadRequest)
			}
		})
	}
}

func TestHandleScan_LoadFailureIsInternalError(t *testing.T) {
	engine := catalog.NewEngine(pkgcatalog.NewCatalogFromBytes([]byte("- not a mapping")))
	handler := catalog.NewHandler(engine, nil, zap.NewNop())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	w := doRequest(mux, "POST", "/api/v1/catalog/scan", catalog.ScanBody{Height: 1, Width: 1, Length: 1})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
