package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// PanelType is an immutable catalog entry describing a solar module model.
type PanelType struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Manufacturer string    `json:"manufacturer"`
	Efficiency   float64   `json:"efficiency"` // percent, 0–100
	Wattage      int       `json:"wattage"`
	PricePerWatt float64   `json:"pricePerWatt"`
}

// Location is an immutable catalog entry describing an installation site.
type Location struct {
	ID                uuid.UUID `json:"id"`
	City              string    `json:"city"`
	Country           string    `json:"country"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	AvgSunHoursPerDay float64   `json:"avgSunHoursPerDay"`
}

// Validate checks reference-data ranges. Used when seeding the catalog.
func (p PanelType) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !finite(p.Efficiency) || p.Efficiency <= 0 || p.Efficiency > 100 {
		errs = append(errs, fmt.Errorf("efficiency %g out of range (0, 100]", p.Efficiency))
	}
	if p.Wattage <= 0 {
		errs = append(errs, fmt.Errorf("wattage %d must be positive", p.Wattage))
	}
	if !finite(p.PricePerWatt) || p.PricePerWatt <= 0 {
		errs = append(errs, fmt.Errorf("price per watt %g must be positive", p.PricePerWatt))
	}
	if len(errs) > 0 {
		return fmt.Errorf("panel type %q: %w", p.Name, errors.Join(errs...))
	}
	return nil
}

// Validate checks reference-data ranges. Used when seeding the catalog.
func (l Location) Validate() error {
	var errs []error
	if l.City == "" {
		errs = append(errs, errors.New("city is required"))
	}
	if !finite(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		errs = append(errs, fmt.Errorf("latitude %g out of range [-90, 90]", l.Latitude))
	}
	if !finite(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		errs = append(errs, fmt.Errorf("longitude %g out of range [-180, 180]", l.Longitude))
	}
	if !finite(l.AvgSunHoursPerDay) || l.AvgSunHoursPerDay <= 0 || l.AvgSunHoursPerDay > 24 {
		errs = append(errs, fmt.Errorf("sun hours %g out of range (0, 24]", l.AvgSunHoursPerDay))
	}
	if len(errs) > 0 {
		return fmt.Errorf("location %q: %w", l.City, errors.Join(errs...))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
