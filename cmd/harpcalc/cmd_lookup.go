package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/HerbHall/harpcalc/internal/catalog"
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Show one model's space requirements for a given vehicle",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "series", Usage: "series key, e.g. boltSeries", Required: true},
			&cli.StringFlag{Name: "model", Usage: "model id, e.g. BS-32", Required: true},
			&cli.IntFlag{Name: "car-length", Usage: "vehicle length in mm (default 5000)"},
			&cli.IntFlag{Name: "car-height", Usage: "vehicle height in mm, matrix series only (default 1550)"},
			&cli.BoolFlag{Name: "json", Usage: "write the result as JSON"},
		},
		Action: runLookup,
	}
}

func runLookup(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	res, err := catalog.NewEngine(e.catalog).Lookup(catalog.LookupRequest{
		SeriesKey: pkgcatalog.SeriesKey(c.String("series")),
		ModelID:   c.String("model"),
		CarLength: c.Int("car-length"),
		CarHeight: c.Int("car-height"),
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printLookup(c.App.Writer, res)
}

func printLookup(w io.Writer, res *catalog.LookupResult) error {
	fmt.Fprintf(w, "%s %s: %s\n", res.SeriesKey, res.ModelID, res.Name)
	fmt.Fprintln(w, res.Description)
	if res.CarHeight > 0 {
		fmt.Fprintf(w, "Sized for a %d mm tall car (%+d mm), capacity %d\n\n", res.CarHeight, res.Adjustment, res.Capacity)
	} else {
		fmt.Fprintf(w, "Sized for a %d mm long car (%+d mm)\n\n", res.CarLength, res.Adjustment)
	}

	d := res.Spec.Dimensions
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range []struct {
		label string
		mm    int
	}{
		{"Required height", d.RequiredHeight},
		{"Required width", d.RequiredWidth},
		{"Required length", d.RequiredLength},
		{"Platform length", d.PlatformLength},
		{"Total length", d.TotalLength},
		{"Pit depth", d.PitDepth},
	} {
		if row.mm == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d mm\n", row.label, row.mm)
	}
	return tw.Flush()
}
