package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/harpcalc/internal/compat"
	"github.com/HerbHall/harpcalc/internal/metrics"
	"github.com/HerbHall/harpcalc/internal/server"
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

const (
	maxScanBody = 64 << 10

	// Metric label for request values that failed to parse.
	unknownLabel = "unknown"
)

// ScanBody is the request body for POST /api/v1/catalog/scan.
type ScanBody struct {
	Height      int    `json:"height"`
	Width       int    `json:"width"`
	Length      int    `json:"length"`
	PitDepth    int    `json:"pit_depth"`
	Policy      string `json:"policy"`
	ParkingType string `json:"parking_type"`
}

// ScanResponse is the response for POST /api/v1/catalog/scan.
type ScanResponse struct {
	Count int `json:"count"`
	*ScanResult
}

// ModelSummary is one model in a series listing.
type ModelSummary struct {
	ModelID  string `json:"model_id"`
	Name     string `json:"name"`
	HasPit   bool   `json:"has_pit"`
	Capacity int    `json:"capacity,omitempty"`
}

// SeriesResponse is one element of GET /api/v1/catalog/series.
type SeriesResponse struct {
	Key         pkgcatalog.SeriesKey  `json:"key"`
	Kind        pkgcatalog.SeriesKind `json:"kind"`
	Description string                `json:"description"`
	Models      []ModelSummary        `json:"models"`
}

// Handler serves the catalogue scan and lookup API.
type Handler struct {
	engine  *Engine
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new catalog API handler. m may be nil.
func NewHandler(engine *Engine, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, metrics: m, logger: logger}
}

// RegisterRoutes implements server.SimpleRouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/catalog/series", h.handleListSeries)
	mux.HandleFunc("GET /api/v1/catalog/entries", h.handleListEntries)
	mux.HandleFunc("GET /api/v1/catalog/series/{series}/models/{model}", h.handleLookup)
	mux.HandleFunc("POST /api/v1/catalog/scan", h.handleScan)
}

// handleListSeries returns every series with a summary of its models.
//
//	@Summary		List series
//	@Description	Returns the catalogue series in document order with their models.
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {array} SeriesResponse
//	@Failure		500 {object} server.Problem
//	@Router			/catalog/series [get]
func (h *Handler) handleListSeries(w http.ResponseWriter, r *http.Request) {
	cat := h.engine.Catalog()
	series, err := cat.Series()
	if err != nil {
		h.internalError(w, r, "failed to load catalogue", err)
		return
	}

	out := make([]SeriesResponse, 0, len(series))
	for _, s := range series {
		specs, err := cat.Models(s.Key)
		if err != nil {
			h.internalError(w, r, "failed to load catalogue", err)
			return
		}
		models := make([]ModelSummary, 0, len(specs))
		for i := range specs {
			models = append(models, ModelSummary{
				ModelID:  specs[i].ModelID,
				Name:     specs[i].Name,
				HasPit:   specs[i].HasPit(),
				Capacity: specs[i].TotalCapacity(),
			})
		}
		out = append(out, SeriesResponse{
			Key:         s.Key,
			Kind:        s.Kind,
			Description: s.Description,
			Models:      models,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// handleListEntries returns the whole catalogue in its document shape.
//
//	@Summary		Get the catalogue
//	@Description	Returns {seriesKey: {modelId: spec}} for every model.
//	@Tags			catalog
//	@Produce		json
//	@Success		200 {object} map[string]map[string]pkgcatalog.ProductSpec
//	@Failure		500 {object} server.Problem
//	@Router			/catalog/entries [get]
func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	body, err := h.engine.Catalog().MarshalJSON()
	if err != nil {
		h.internalError(w, r, "failed to load catalogue", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleLookup returns one model with dimensions adjusted for a vehicle.
//
//	@Summary		Look up a model
//	@Description	Returns the model's requirements shifted for car_length (or car_height for matrix systems).
//	@Tags			catalog
//	@Produce		json
//	@Param			series path string true "Series key"
//	@Param			model path string true "Model id"
//	@Param			car_length query int false "Car length in mm" default(5000)
//	@Param			car_height query int false "Car height in mm, matrix series only" default(1550)
//	@Success		200 {object} LookupResult
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem
//	@Router			/catalog/series/{series}/models/{model} [get]
func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	req := LookupRequest{
		SeriesKey: pkgcatalog.SeriesKey(r.PathValue("series")),
		ModelID:   r.PathValue("model"),
	}

	var errs []error
	q := r.URL.Query()
	if v, err := queryInt(q.Get("car_length"), "car_length"); err != nil {
		errs = append(errs, err)
	} else {
		req.CarLength = v
	}
	if v, err := queryInt(q.Get("car_height"), "car_height"); err != nil {
		errs = append(errs, err)
	} else {
		req.CarHeight = v
	}

	var res *LookupResult
	err := errors.Join(errs...)
	if err == nil {
		res, err = h.engine.Lookup(req)
	}
	if err != nil {
		h.metrics.ObserveLookup(seriesLabel(req.SeriesKey), outcomeOf(err))
		h.writeErr(w, r, "invalid lookup request", err)
		return
	}

	h.metrics.ObserveLookup(seriesLabel(req.SeriesKey), metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, res)
}

// handleScan evaluates the whole catalogue against a space envelope.
//
//	@Summary		Scan the catalogue
//	@Description	Evaluates every model allowed by parking_type and partitions them into compatible and incompatible.
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request body ScanBody true "Space envelope and policy"
//	@Success		200 {object} ScanResponse
//	@Failure		400 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/catalog/scan [post]
func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	var body ScanBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScanBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		h.metrics.ScanRejected(unknownLabel, unknownLabel, metrics.OutcomeInvalid)
		server.BadRequest(w, "invalid JSON body: "+err.Error(), r.URL.Path)
		return
	}

	req := ScanRequest{
		Envelope: compat.SpaceEnvelope{
			Height:   body.Height,
			Width:    body.Width,
			Length:   body.Length,
			PitDepth: body.PitDepth,
		},
	}

	var errs []error
	policyName := body.Policy
	if policyName == "" {
		policyName = compat.PolicyMinimumClearance
	}
	policy, err := compat.PolicyByName(policyName)
	if err != nil {
		errs = append(errs, err)
	}
	req.Policy = policy
	parking, err := ParseParkingType(body.ParkingType)
	if err != nil {
		errs = append(errs, err)
	}
	req.Parking = parking

	var res *ScanResult
	if len(errs) > 0 {
		if envErr := req.Envelope.Validate(); envErr != nil {
			errs = append([]error{envErr}, errs...)
		}
		err = errors.Join(errs...)
	} else {
		res, err = h.engine.Scan(req)
	}
	if err != nil {
		h.metrics.ScanRejected(policyLabel(req.Policy), parkingLabel(req.Parking), outcomeOf(err))
		h.writeErr(w, r, "invalid scan request", err)
		return
	}

	h.metrics.ObserveScan(res.Policy, string(res.ParkingType), len(res.Compatible))
	h.logger.Debug("catalogue scanned",
		zap.String("policy", res.Policy),
		zap.String("parking_type", string(res.ParkingType)),
		zap.Int("evaluated", res.Evaluated),
		zap.Int("compatible", len(res.Compatible)),
	)
	writeJSON(w, http.StatusOK, ScanResponse{Count: len(res.Compatible), ScanResult: res})
}

// -- helpers --

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, detail string, err error) {
	switch {
	case errors.Is(err, compat.ErrValidation):
		server.ValidationFailed(w, detail, r.URL.Path, fieldErrors(err))
	case errors.Is(err, pkgcatalog.ErrNotFound):
		server.NotFound(w, err.Error(), r.URL.Path)
	default:
		h.internalError(w, r, "internal error", err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, detail string, err error) {
	h.logger.Error(detail, zap.String("path", r.URL.Path), zap.Error(err))
	server.InternalError(w, detail, r.URL.Path)
}

func fieldErrors(err error) []server.FieldError {
	ves := compat.ValidationErrors(err)
	out := make([]server.FieldError, 0, len(ves))
	for _, ve := range ves {
		out = append(out, server.FieldError{Field: ve.Field, Reason: ve.Reason})
	}
	return out
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, compat.ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, pkgcatalog.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func policyLabel(p compat.Policy) string {
	if p == nil {
		return unknownLabel
	}
	return p.Name()
}

func seriesLabel(k pkgcatalog.SeriesKey) string {
	if !k.Valid() {
		return unknownLabel
	}
	return string(k)
}

func parkingLabel(t ParkingType) string {
	if t == "" {
		return unknownLabel
	}
	return string(t)
}

func queryInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, compat.Invalid(field, "must be an integer number of millimeters, got %q", raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
