// Package metrics defines the Prometheus instruments for catalogue scans,
// lookups and quotes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "harpcalc"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the instruments. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	scans          *prometheus.CounterVec
	compatibleSize *prometheus.HistogramVec
	lookups        *prometheus.CounterVec
	quotes         *prometheus.CounterVec
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		scans: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scans_total",
				Help:      "Total number of catalogue scans by policy, parking type and outcome",
			},
			[]string{"policy", "parking_type", "outcome"},
		),
		compatibleSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scan_compatible_models",
				Help:      "Number of compatible models returned per scan",
				Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"policy"},
		),
		lookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Total number of single-model lookups by series and outcome",
			},
			[]string{"series", "outcome"},
		),
		quotes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Total number of price quotes by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveScan records a completed scan.
func (m *Metrics) ObserveScan(policy, parkingType string, compatible int) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(policy, parkingType, OutcomeOK).Inc()
	m.compatibleSize.WithLabelValues(policy).Observe(float64(compatible))
}

// ScanRejected records a scan that failed before evaluation.
func (m *Metrics) ScanRejected(policy, parkingType, outcome string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(policy, parkingType, outcome).Inc()
}

// ObserveLookup records a single-model lookup.
func (m *Metrics) ObserveLookup(series, outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(series, outcome).Inc()
}

// ObserveQuote records a price quote.
func (m *Metrics) ObserveQuote(outcome string) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(outcome).Inc()
}
