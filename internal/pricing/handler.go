package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/HerbHall/harpcalc/internal/metrics"
	"github.com/HerbHall/harpcalc/internal/server"
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

// QuoteResponse is the response for GET /api/v1/pricing/models/{model}.
type QuoteResponse struct {
	SeriesKey pkgcatalog.SeriesKey `json:"series_key"`
	Name      string               `json:"name"`
	Quote
}

// Handler serves the pricing API.
type Handler struct {
	quoter  *Quoter
	cat     *pkgcatalog.Catalog
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new pricing API handler. m may be nil.
func NewHandler(quoter *Quoter, cat *pkgcatalog.Catalog, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{quoter: quoter, cat: cat, metrics: m, logger: logger}
}

// RegisterRoutes implements server.SimpleRouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/pricing/models/{model}", h.handleQuote)
}

// handleQuote prices one catalogue model.
//
//	@Summary		Quote a model
//	@Description	Returns the quoted price with an estimated manufacturing cost and margin.
//	@Tags			pricing
//	@Produce		json
//	@Param			model path string true "Model id"
//	@Success		200 {object} QuoteResponse
//	@Failure		404 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/pricing/models/{model} [get]
func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	modelID := r.PathValue("model")

	entry, err := h.findEntry(modelID)
	if err != nil {
		if errors.Is(err, pkgcatalog.ErrNotFound) {
			h.metrics.ObserveQuote(metrics.OutcomeNotFound)
			server.NotFound(w, err.Error(), r.URL.Path)
			return
		}
		h.metrics.ObserveQuote(metrics.OutcomeError)
		h.logger.Error("failed to load catalogue", zap.Error(err))
		server.InternalError(w, "failed to load catalogue", r.URL.Path)
		return
	}

	h.metrics.ObserveQuote(metrics.OutcomeOK)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(QuoteResponse{
		SeriesKey: entry.SeriesKey,
		Name:      entry.Spec.Name,
		Quote:     h.quoter.Quote(modelID),
	})
}

func (h *Handler) findEntry(modelID string) (pkgcatalog.Entry, error) {
	entries, err := h.cat.Entries()
	if err != nil {
		return pkgcatalog.Entry{}, err
	}
	for _, e := range entries {
		if e.ModelID == modelID {
			return e, nil
		}
	}
	return pkgcatalog.Entry{}, fmt.Errorf("model %s: %w", modelID, pkgcatalog.ErrNotFound)
}
