package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/HerbHall/harpcalc/internal/catalog"
	"github.com/HerbHall/harpcalc/internal/compat"
)

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Find the systems that fit a space",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "height", Usage: "available height in mm", Required: true},
			&cli.IntFlag{Name: "width", Usage: "available width in mm", Required: true},
			&cli.IntFlag{Name: "length", Usage: "available length in mm", Required: true},
			&cli.IntFlag{Name: "pit-depth", Usage: "available pit depth in mm, 0 for none"},
			&cli.StringFlag{
				Name:  "policy",
				Value: compat.PolicyMinimumClearance,
				Usage: "minimum-clearance or exact-match",
			},
			&cli.StringFlag{
				Name:  "parking-type",
				Value: string(catalog.ParkingAny),
				Usage: "any, pit or above-ground",
			},
			&cli.BoolFlag{Name: "all", Usage: "also list incompatible systems with reasons"},
			&cli.BoolFlag{Name: "json", Usage: "write the result as JSON"},
		},
		Action: runScan,
	}
}

func runScan(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	req, err := scanRequestFromFlags(c)
	if err != nil {
		return err
	}
	res, err := catalog.NewEngine(e.catalog).Scan(req)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog.ScanResponse{Count: len(res.Compatible), ScanResult: res})
	}
	return printScan(c.App.Writer, res, c.Bool("all"))
}

func scanRequestFromFlags(c *cli.Context) (catalog.ScanRequest, error) {
	req := catalog.ScanRequest{
		Envelope: compat.SpaceEnvelope{
			Height:   c.Int("height"),
			Width:    c.Int("width"),
			Length:   c.Int("length"),
			PitDepth: c.Int("pit-depth"),
		},
	}

	var errs []error
	policy, err := compat.PolicyByName(c.String("policy"))
	if err != nil {
		errs = append(errs, err)
	}
	req.Policy = policy
	parking, err := catalog.ParseParkingType(c.String("parking-type"))
	if err != nil {
		errs = append(errs, err)
	}
	req.Parking = parking

	if len(errs) > 0 {
		if envErr := req.Envelope.Validate(); envErr != nil {
			errs = append([]error{envErr}, errs...)
		}
		return req, errors.Join(errs...)
	}
	return req, nil
}

func printScan(w io.Writer, res *catalog.ScanResult, all bool) error {
	fmt.Fprintf(w, "Space %dx%dx%d mm, pit %d mm; policy %s, parking %s\n",
		res.Envelope.Height, res.Envelope.Width, res.Envelope.Length, res.Envelope.PitDepth,
		res.Policy, res.ParkingType)
	fmt.Fprintf(w, "%d of %d systems fit\n\n", len(res.Compatible), res.Evaluated)

	if len(res.Compatible) == 0 {
		fmt.Fprintln(w, "No compatible systems found.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODEL\tSERIES\tNAME\tFIT")
		for _, m := range res.Compatible {
			fit := "-"
			if m.FitScore > 0 {
				fit = fmt.Sprintf("%.1f", m.FitScore)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ModelID, m.SeriesKey, m.Name, fit)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !all || len(res.Incompatible) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nIncompatible:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tSERIES\tREASONS")
	for _, m := range res.Incompatible {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ModelID, m.SeriesKey, strings.Join(m.Reasons, "; "))
	}
	return tw.Flush()
}
