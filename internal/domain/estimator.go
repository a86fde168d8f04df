package domain

import (
	"context"
	"fmt"
	"math"
)

const (
	// PanelAreaM2 is the physical footprint assumed for one panel.
	PanelAreaM2 = 1.7

	// DefaultElectricityPricePerKWh is the $/kWh value used to turn annual
	// output into annual savings for the ROI estimate.
	DefaultElectricityPricePerKWh = 0.15

	daysPerYear = 365
)

// Estimator computes a SimulationResult for a resolved location and panel type.
// Implementations must return finite, non-negative values or an error.
type Estimator interface {
	Estimate(ctx context.Context, loc Location, panel PanelType, roofSizeM2 float64) (SimulationResult, error)
}

// Sizing describes how many panels fit a roof and the resulting capacity.
type Sizing struct {
	NumPanels    int
	SystemSizeKW float64
}

// SizeSystem packs whole panels onto the roof.
func SizeSystem(roofSizeM2 float64, wattage int) Sizing {
	n := int(math.Floor(roofSizeM2 / PanelAreaM2))
	return Sizing{
		NumPanels:    n,
		SystemSizeKW: float64(n) * float64(wattage) / 1000,
	}
}

// LocalEstimator computes estimates in-process.
type LocalEstimator struct {
	pricePerKWh float64
}

// NewLocalEstimator returns a LocalEstimator using the given electricity price.
// A non-positive price falls back to DefaultElectricityPricePerKWh.
func NewLocalEstimator(pricePerKWh float64) *LocalEstimator {
	if pricePerKWh <= 0 || math.IsNaN(pricePerKWh) || math.IsInf(pricePerKWh, 0) {
		pricePerKWh = DefaultElectricityPricePerKWh
	}
	return &LocalEstimator{pricePerKWh: pricePerKWh}
}

// Estimate applies the flat-rate model: every panel produces its rated
// wattage for the location's average sun hours, every day of the year.
func (e *LocalEstimator) Estimate(_ context.Context, loc Location, panel PanelType, roofSizeM2 float64) (SimulationResult, error) {
	sizing := SizeSystem(roofSizeM2, panel.Wattage)
	if sizing.NumPanels == 0 {
		return SimulationResult{}, &DegenerateInputError{
			RoofSizeM2: roofSizeM2,
			Reason:     "roof too small for a single panel",
		}
	}

	output := sizing.SystemSizeKW * loc.AvgSunHoursPerDay * daysPerYear
	cost := sizing.SystemSizeKW * 1000 * panel.PricePerWatt

	annualSavings := output * e.pricePerKWh
	if annualSavings <= 0 {
		return SimulationResult{}, &DegenerateInputError{
			RoofSizeM2: roofSizeM2,
			Reason:     "system produces no annual savings",
		}
	}

	result := SimulationResult{
		EstimatedOutputKWh: output,
		EstimatedCostUSD:   cost,
		EstimatedROIYears:  cost / annualSavings,
	}
	if err := result.Check(); err != nil {
		return SimulationResult{}, &DegenerateInputError{RoofSizeM2: roofSizeM2, Reason: err.Error()}
	}
	return result, nil
}

// Check reports whether every field is finite and non-negative.
func (r SimulationResult) Check() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"estimated output", r.EstimatedOutputKWh},
		{"estimated cost", r.EstimatedCostUSD},
		{"estimated roi", r.EstimatedROIYears},
	}
	for _, f := range fields {
		if !finite(f.v) || f.v < 0 {
			return fmt.Errorf("%s %g is not a finite non-negative number", f.name, f.v)
		}
	}
	return nil
}
