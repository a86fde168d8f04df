// Package catalog holds the reference panel types and locations every store
// starts from.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/google/uuid"
)

// namespace scopes the name-based identifiers of seeded rows, so a given
// panel or city gets the same id in every deployment.
var namespace = uuid.MustParse("6f1c8a52-5b0e-4d67-9a3e-2c8f4b71d0e5")

// PanelTypeID returns the deterministic id of a seeded panel type.
func PanelTypeID(name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("panel-type:"+name))
}

// LocationID returns the deterministic id of a seeded location.
func LocationID(city, country string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("location:"+city+", "+country))
}

// PanelTypes returns the seeded panel types.
func PanelTypes() []domain.PanelType {
	panels := []domain.PanelType{
		{Name: "SunPower Maxeon 6", Manufacturer: "SunPower", Efficiency: 22.8, Wattage: 430, PricePerWatt: 3.50},
		{Name: "LG NeON R", Manufacturer: "LG", Efficiency: 22.0, Wattage: 380, PricePerWatt: 3.20},
		{Name: "Canadian Solar HiKu6", Manufacturer: "Canadian Solar", Efficiency: 21.2, Wattage: 405, PricePerWatt: 2.80},
		{Name: "Jinko Tiger Neo", Manufacturer: "Jinko Solar", Efficiency: 21.8, Wattage: 415, PricePerWatt: 2.90},
	}
	for i := range panels {
		panels[i].ID = PanelTypeID(panels[i].Name)
	}
	return panels
}

// Locations returns the seeded locations.
func Locations() []domain.Location {
	locs := []domain.Location{
		{City: "Los Angeles", Country: "USA", Latitude: 34.0522, Longitude: -118.2437, AvgSunHoursPerDay: 5.6},
		{City: "Phoenix", Country: "USA", Latitude: 33.4484, Longitude: -112.0740, AvgSunHoursPerDay: 6.5},
		{City: "Berlin", Country: "Germany", Latitude: 52.5200, Longitude: 13.4050, AvgSunHoursPerDay: 3.8},
		{City: "Sydney", Country: "Australia", Latitude: -33.8688, Longitude: 151.2093, AvgSunHoursPerDay: 5.9},
	}
	for i := range locs {
		locs[i].ID = LocationID(locs[i].City, locs[i].Country)
	}
	return locs
}

// Store is the write side a seed target must offer.
type Store interface {
	ListPanelTypes(ctx context.Context) ([]domain.PanelType, error)
	InsertPanelType(ctx context.Context, p domain.PanelType) error
	InsertLocation(ctx context.Context, l domain.Location) error
}

// Seed loads the reference data into store. It does nothing when any panel
// type already exists. Returns true when rows were written.
func Seed(ctx context.Context, store Store, logger *slog.Logger) (bool, error) {
	existing, err := store.ListPanelTypes(ctx)
	if err != nil {
		return false, fmt.Errorf("check existing panel types: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("catalog already seeded, skipping", "panel_types", len(existing))
		return false, nil
	}

	panels := PanelTypes()
	for _, p := range panels {
		if err := p.Validate(); err != nil {
			return false, fmt.Errorf("seed panel type %q: %w", p.Name, err)
		}
		if err := store.InsertPanelType(ctx, p); err != nil {
			return false, fmt.Errorf("insert panel type %q: %w", p.Name, err)
		}
	}

	locs := Locations()
	for _, l := range locs {
		if err := l.Validate(); err != nil {
			return false, fmt.Errorf("seed location %q: %w", l.City, err)
		}
		if err := store.InsertLocation(ctx, l); err != nil {
			return false, fmt.Errorf("insert location %q: %w", l.City, err)
		}
	}

	logger.Info("catalog seeded", "panel_types", len(panels), "locations", len(locs))
	return true, nil
}
