// Package calculator implements the standalone solar calculation engine. It
// refines the flat-rate estimate with latitude-dependent losses and a
// seasonal monthly breakdown.
package calculator

import (
	"errors"
	"math"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
)

const (
	inverterEfficiency = 0.96
	dirtShadingLoss    = 0.05
	seasonalAmplitude  = 0.3

	// noSavingsROIYears is reported when the system produces no savings.
	noSavingsROIYears = 999.0
)

var (
	monthNames  = [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
)

// Input validation errors. Their text is returned to clients verbatim.
var (
	ErrRoofSize     = errors.New("Roof size must be positive")
	ErrEfficiency   = errors.New("Panel efficiency must be between 0 and 100")
	ErrRoofTooSmall = errors.New("Roof size too small for any panels")
)

// Request is the body of POST /calculate.
type Request struct {
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	AvgSunHoursPerDay float64 `json:"avg_sun_hours_per_day"`
	RoofSizeM2        float64 `json:"roof_size_m2"`
	PanelEfficiency   float64 `json:"panel_efficiency"`
	PanelWattage      int     `json:"panel_wattage"`
	PricePerWatt      float64 `json:"price_per_watt"`
}

// Response is the body of a successful calculation.
type Response struct {
	EstimatedOutputKWh float64           `json:"estimated_output_kwh"`
	EstimatedCostUSD   float64           `json:"estimated_cost_usd"`
	EstimatedROIYears  float64           `json:"estimated_roi_years"`
	SystemSizeKW       float64           `json:"system_size_kw"`
	NumPanels          int               `json:"num_panels"`
	MonthlyBreakdown   []MonthlyOutput   `json:"monthly_breakdown"`
	EfficiencyFactors  EfficiencyFactors `json:"efficiency_factors"`
}

// MonthlyOutput is one month of the seasonal breakdown, rounded to cents.
type MonthlyOutput struct {
	Month     string  `json:"month"`
	OutputKWh float64 `json:"output_kwh"`
	SunHours  float64 `json:"sun_hours"`
}

// EfficiencyFactors are the losses applied to nameplate capacity.
type EfficiencyFactors struct {
	TemperatureLoss    float64 `json:"temperature_loss"`
	InverterEfficiency float64 `json:"inverter_efficiency"`
	DirtShadingLoss    float64 `json:"dirt_shading_loss"`
	SystemEfficiency   float64 `json:"system_efficiency"`
}

// Calculate runs the detailed estimate. pricePerKWh converts annual output to
// savings for the ROI.
func Calculate(req Request, pricePerKWh float64) (Response, error) {
	if !(req.RoofSizeM2 > 0) {
		return Response{}, ErrRoofSize
	}
	if !(req.PanelEfficiency > 0 && req.PanelEfficiency <= 100) {
		return Response{}, ErrEfficiency
	}

	sizing := domain.SizeSystem(req.RoofSizeM2, req.PanelWattage)
	if sizing.NumPanels == 0 {
		return Response{}, ErrRoofTooSmall
	}

	factors := efficiencyFactors(req.Latitude)
	months := monthlyBreakdown(req.AvgSunHoursPerDay, sizing.SystemSizeKW, req.Latitude, factors.SystemEfficiency)

	var annual float64
	for _, m := range months {
		annual += m.OutputKWh
	}
	cost := sizing.SystemSizeKW * 1000 * req.PricePerWatt

	roi := noSavingsROIYears
	if savings := annual * pricePerKWh; savings > 0 {
		roi = cost / savings
	}

	return Response{
		EstimatedOutputKWh: annual,
		EstimatedCostUSD:   cost,
		EstimatedROIYears:  roi,
		SystemSizeKW:       sizing.SystemSizeKW,
		NumPanels:          sizing.NumPanels,
		MonthlyBreakdown:   months,
		EfficiencyFactors:  factors,
	}, nil
}

// efficiencyFactors applies a higher temperature loss closer to the equator.
func efficiencyFactors(latitude float64) EfficiencyFactors {
	var tempLoss float64
	switch abs := math.Abs(latitude); {
	case abs < 30:
		tempLoss = 0.15
	case abs < 45:
		tempLoss = 0.10
	default:
		tempLoss = 0.05
	}
	return EfficiencyFactors{
		TemperatureLoss:    tempLoss,
		InverterEfficiency: inverterEfficiency,
		DirtShadingLoss:    dirtShadingLoss,
		SystemEfficiency:   (1 - tempLoss) * inverterEfficiency * (1 - dirtShadingLoss),
	}
}

// monthlyBreakdown spreads the average sun hours over a cosine season that
// peaks in July north of the equator and in January otherwise.
func monthlyBreakdown(avgSunHours, systemSizeKW, latitude, systemEfficiency float64) []MonthlyOutput {
	northern := latitude > 0
	out := make([]MonthlyOutput, len(monthNames))
	for i := range monthNames {
		angle := float64(i) / 12 * 2 * math.Pi
		var seasonal float64
		if northern {
			seasonal = 1 + seasonalAmplitude*math.Cos(angle-math.Pi)
		} else {
			seasonal = 1 + seasonalAmplitude*math.Cos(angle)
		}

		sunHours := avgSunHours * seasonal
		output := systemSizeKW * sunHours * float64(daysInMonth[i]) * systemEfficiency
		out[i] = MonthlyOutput{
			Month:     monthNames[i],
			OutputKWh: round2(output),
			SunHours:  round2(sunHours),
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
