// Command validate runs every seeded location and panel type through both
// estimation models at several roof sizes and checks the results are usable:
// finite, non-negative, and a degenerate-input error exactly when the roof
// cannot hold a panel. It prints a comparison table and exits non-zero on
// any failure.
//
// Usage:
//
//	go run ./cmd/validate -roofs 1.5,10,50,200
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/solar-simulation-service/internal/calculator"
	"github.com/couchcryptid/solar-simulation-service/internal/catalog"
	"github.com/couchcryptid/solar-simulation-service/internal/domain"
)

func main() {
	roofsFlag := flag.String("roofs", "1.5,10,50,200", "comma-separated roof sizes in m²")
	price := flag.Float64("price", domain.DefaultElectricityPricePerKWh, "electricity price per kWh")
	flag.Parse()

	roofs, err := parseRoofs(*roofsFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	failures := validate(os.Stdout, roofs, *price)
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "\n%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nall checks passed")
}

func parseRoofs(s string) ([]float64, error) {
	var roofs []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid roof size %q", part)
		}
		roofs = append(roofs, v)
	}
	return roofs, nil
}

func validate(w io.Writer, roofs []float64, price float64) int {
	local := domain.NewLocalEstimator(price)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCATION\tPANEL\tROOF m²\tLOCAL kWh\tDETAILED kWh\tLOCAL ROI\tDETAILED ROI\tSTATUS")

	failures := 0
	for _, loc := range catalog.Locations() {
		for _, panel := range catalog.PanelTypes() {
			for _, roof := range roofs {
				status := check(local, loc, panel, roof, price)
				if status != "ok" && status != "degenerate" {
					failures++
				}
				res, _ := local.Estimate(context.Background(), loc, panel, roof)
				det, _ := calculator.Calculate(detailedRequest(loc, panel, roof), price)
				fmt.Fprintf(tw, "%s\t%s\t%g\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
					loc.City, panel.Name, roof,
					res.EstimatedOutputKWh, det.EstimatedOutputKWh,
					res.EstimatedROIYears, det.EstimatedROIYears, status)
			}
		}
	}
	tw.Flush() //nolint:errcheck // stdout
	return failures
}

func check(local domain.Estimator, loc domain.Location, panel domain.PanelType, roof, price float64) string {
	fits := math.Floor(roof/domain.PanelAreaM2) > 0

	res, err := local.Estimate(context.Background(), loc, panel, roof)
	var degen *domain.DegenerateInputError
	switch {
	case errors.As(err, &degen) && !fits:
		return "degenerate"
	case err != nil:
		return "local error: " + err.Error()
	case !fits:
		return "local accepted a roof with no panels"
	}
	if err := res.Check(); err != nil {
		return "local: " + err.Error()
	}

	det, err := calculator.Calculate(detailedRequest(loc, panel, roof), price)
	if err != nil {
		return "detailed error: " + err.Error()
	}
	detailed := domain.SimulationResult{
		EstimatedOutputKWh: det.EstimatedOutputKWh,
		EstimatedCostUSD:   det.EstimatedCostUSD,
		EstimatedROIYears:  det.EstimatedROIYears,
	}
	if err := detailed.Check(); err != nil {
		return "detailed: " + err.Error()
	}
	// Losses only ever reduce output.
	if det.EstimatedOutputKWh > res.EstimatedOutputKWh*1.0001 {
		return "detailed output exceeds flat-rate output"
	}
	return "ok"
}

func detailedRequest(loc domain.Location, panel domain.PanelType, roof float64) calculator.Request {
	return calculator.Request{
		Latitude:          loc.Latitude,
		Longitude:         loc.Longitude,
		AvgSunHoursPerDay: loc.AvgSunHoursPerDay,
		RoofSizeM2:        roof,
		PanelEfficiency:   panel.Efficiency,
		PanelWattage:      panel.Wattage,
		PricePerWatt:      panel.PricePerWatt,
	}
}
