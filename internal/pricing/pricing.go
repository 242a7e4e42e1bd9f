// Package pricing quotes list prices for catalogue models and estimates a
// manufacturing cost for the margin view.
package pricing

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPrice is quoted for models missing from the price table.
var DefaultPrice = decimal.NewFromInt(500000)

// Manufacturing cost sits this far below the quoted price.
var (
	minReduction  = decimal.NewFromInt(20000)
	reductionSpan = decimal.NewFromInt(5000)
	hundred       = decimal.NewFromInt(100)
)

// Prices quoted by the sales team, in rupees.
var defaultTable = map[string]int64{
	"BS-32": 450000,
	"BS-33": 475000,
	"BS-34": 500000,
	"BS-35": 525000,
	"BS-36": 550000,
	"BS-37": 575000,
	"BS-38": 600000,

	"PP111-01": 750000,
	"PP111-02": 775000,
	"PP111-03": 800000,
	"PP111-04": 825000,

	"PP211-01": 850000,
	"PP211-02": 875000,
	"PP211-03": 900000,
	"PP211-04": 925000,

	"EL-32": 650000,
	"EL-33": 675000,

	"PZ-24":  1200000,
	"PZ-26":  1250000,
	"PZ-28":  1300000,
	"PZ-210": 1400000,
}

// Quote is the price breakdown for one model.
type Quote struct {
	ModelID           string          `json:"model_id"`
	QuotedPrice       decimal.Decimal `json:"quoted_price"`
	ManufacturingCost decimal.Decimal `json:"manufacturing_cost"`
	Profit            decimal.Decimal `json:"profit"`
	ProfitPercent     decimal.Decimal `json:"profit_percent"`
	// Listed is false when QuotedPrice is the default price.
	Listed bool `json:"listed"`
}

// Option configures a Quoter.
type Option func(*Quoter)

// WithSeed makes manufacturing cost estimates reproducible. A zero seed
// keeps the time-based source.
func WithSeed(seed uint64) Option {
	return func(q *Quoter) {
		if seed != 0 {
			q.rng = rand.New(rand.NewPCG(seed, seed))
		}
	}
}

// WithDefaultPrice overrides the price quoted for unlisted models. Non
// positive values are ignored.
func WithDefaultPrice(price decimal.Decimal) Option {
	return func(q *Quoter) {
		if price.IsPositive() {
			q.defaultPrice = price
		}
	}
}

// WithPrice adds or replaces one table entry.
func WithPrice(modelID string, price decimal.Decimal) Option {
	return func(q *Quoter) {
		q.table[modelID] = price
	}
}

// Quoter is safe for concurrent use.
type Quoter struct {
	table        map[string]decimal.Decimal
	defaultPrice decimal.Decimal

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuoter creates a Quoter over the built-in price table.
func NewQuoter(opts ...Option) *Quoter {
	now := uint64(time.Now().UnixNano())
	q := &Quoter{
		table:        make(map[string]decimal.Decimal, len(defaultTable)),
		defaultPrice: DefaultPrice,
		rng:          rand.New(rand.NewPCG(now, now>>1)),
	}
	for id, p := range defaultTable {
		q.table[id] = decimal.NewFromInt(p)
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Price returns the quoted price for modelID and whether it is listed.
func (q *Quoter) Price(modelID string) (decimal.Decimal, bool) {
	if p, ok := q.table[modelID]; ok {
		return p, true
	}
	return q.defaultPrice, false
}

// Quote prices modelID. The manufacturing cost is the quoted price less a
// random 20000 to 25000, rounded to a whole rupee.
func (q *Quoter) Quote(modelID string) Quote {
	price, listed := q.Price(modelID)

	q.mu.Lock()
	f := q.rng.Float64()
	q.mu.Unlock()

	reduction := minReduction.Add(reductionSpan.Mul(decimal.NewFromFloat(f)))
	cost := price.Sub(reduction).Round(0)
	profit := price.Sub(cost)

	return Quote{
		ModelID:           modelID,
		QuotedPrice:       price,
		ManufacturingCost: cost,
		Profit:            profit,
		ProfitPercent:     profit.Div(price).Mul(hundred).Round(1),
		Listed:            listed,
	}
}
