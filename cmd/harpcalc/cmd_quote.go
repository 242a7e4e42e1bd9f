package main

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/HerbHall/harpcalc/internal/config"
	"github.com/HerbHall/harpcalc/internal/pricing"
)

func quoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "quote",
		Usage: "Show quoted price, manufacturing cost and margin for a model",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Usage: "model id, e.g. BS-32", Required: true},
			&cli.Uint64Flag{Name: "seed", Usage: "fix the manufacturing cost estimate (overrides pricing.seed)"},
			&cli.BoolFlag{Name: "json", Usage: "write the quote as JSON"},
		},
		Action: runQuote,
	}
}

func runQuote(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	modelID := c.String("model")
	spec, err := e.catalog.FindModel(modelID)
	if err != nil {
		return err
	}

	ps := e.settings.Pricing
	if c.IsSet("seed") {
		ps.Seed = c.Uint64("seed")
	}
	q := newQuoter(ps).Quote(modelID)

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s: %s\n", modelID, spec.Name)
	if !q.Listed {
		fmt.Fprintln(w, "(not in the price list; default price quoted)")
	}
	fmt.Fprintf(w, "Quoted price:       ₹%s\n", q.QuotedPrice.StringFixed(0))
	fmt.Fprintf(w, "Manufacturing cost: ₹%s\n", q.ManufacturingCost.StringFixed(0))
	fmt.Fprintf(w, "Profit:             ₹%s (%s%%)\n", q.Profit.StringFixed(0), q.ProfitPercent.StringFixed(1))
	return nil
}

func newQuoter(s config.PricingSettings) *pricing.Quoter {
	return pricing.NewQuoter(
		pricing.WithSeed(s.Seed),
		pricing.WithDefaultPrice(decimal.NewFromInt(s.DefaultPrice)),
	)
}
