package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

func modelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List catalogue models",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "series", Usage: "only list this series"},
		},
		Action: runModels,
	}
}

func runModels(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	entries, err := e.catalog.Entries()
	if err != nil {
		return err
	}
	series := pkgcatalog.SeriesKey(c.String("series"))
	if series != "" && !series.Valid() {
		return fmt.Errorf("series %q: %w", series, pkgcatalog.ErrNotFound)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERIES\tMODEL\tNAME\tHEIGHT\tWIDTH\tLENGTH\tPIT")
	for _, en := range entries {
		if series != "" && en.SeriesKey != series {
			continue
		}
		d := en.Spec.Dimensions
		pit := "-"
		if en.Spec.HasPit() {
			pit = fmt.Sprint(d.PitDepth)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			en.SeriesKey, en.ModelID, en.Spec.Name,
			d.RequiredHeight, d.RequiredWidth, en.Spec.LengthClearance(), pit)
	}
	return tw.Flush()
}
