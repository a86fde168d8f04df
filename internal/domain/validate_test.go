package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validLocationID  = "9b3c1c52-3a55-4a3e-8f0c-7d1b0b8c9a01"
	validPanelTypeID = "4f1d2e3a-6b7c-4d8e-9f01-23456789abcd"
)

func roof(v float64) *float64 { return &v }

func TestValidateSimulationInput_Valid(t *testing.T) {
	req, err := ValidateSimulationInput(SimulationInput{
		LocationID:  validLocationID,
		PanelTypeID: validPanelTypeID,
		RoofSizeM2:  roof(50),
	})
	require.NoError(t, err)

	assert.Equal(t, uuid.MustParse(validLocationID), req.LocationID)
	assert.Equal(t, uuid.MustParse(validPanelTypeID), req.PanelTypeID)
	assert.Equal(t, 50.0, req.RoofSizeM2)
}

func TestValidateSimulationInput_MinimumRoofAccepted(t *testing.T) {
	_, err := ValidateSimulationInput(SimulationInput{
		LocationID:  validLocationID,
		PanelTypeID: validPanelTypeID,
		RoofSizeM2:  roof(MinRoofSizeM2),
	})
	require.NoError(t, err)
}

func TestValidateSimulationInput_InvalidIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		location string
		panel    string
		field    string
	}{
		{"empty location", "", validPanelTypeID, "locationId"},
		{"numeric location", "42", validPanelTypeID, "locationId"},
		{"cuid location", "clx9a8b7c0000qwerty123456", validPanelTypeID, "locationId"},
		{"unhyphenated location", "9b3c1c523a554a3e8f0c7d1b0b8c9a01", validPanelTypeID, "locationId"},
		{"urn location", "urn:uuid:" + validLocationID, validPanelTypeID, "locationId"},
		{"braced panel", validLocationID, "{" + validPanelTypeID + "}", "panelTypeId"},
		{"bad hex panel", validLocationID, "4f1d2e3a-6b7c-4d8e-9f01-23456789abcz", "panelTypeId"},
		{"sql panel", validLocationID, "1' OR '1'='1", "panelTypeId"},
		{"padded location", " " + validLocationID + " ", validPanelTypeID, "locationId"},
		{"trailing newline panel", validLocationID, validPanelTypeID + "\n", "panelTypeId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSimulationInput(SimulationInput{
				LocationID:  tt.location,
				PanelTypeID: tt.panel,
				RoofSizeM2:  roof(50),
			})
			require.ErrorIs(t, err, ErrInvalidIdentifier)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateSimulationInput_InvalidRoofSize(t *testing.T) {
	tests := []struct {
		name string
		roof *float64
	}{
		{"missing", nil},
		{"zero", roof(0)},
		{"negative", roof(-10)},
		{"below minimum", roof(0.5)},
		{"nan", roof(math.NaN())},
		{"positive infinity", roof(math.Inf(1))},
		{"negative infinity", roof(math.Inf(-1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSimulationInput(SimulationInput{
				LocationID:  validLocationID,
				PanelTypeID: validPanelTypeID,
				RoofSizeM2:  tt.roof,
			})
			require.ErrorIs(t, err, ErrInvalidRoofSize)
			assert.NotErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}

func TestValidateSimulationInput_IdentifierCheckedFirst(t *testing.T) {
	_, err := ValidateSimulationInput(SimulationInput{LocationID: "nope", PanelTypeID: "nope"})
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestNewSimulation(t *testing.T) {
	now := time.Date(2026, time.June, 21, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	req := SimulationRequest{
		LocationID:  losAngeles().ID,
		PanelTypeID: maxeon().ID,
		RoofSizeM2:  50,
	}
	result := SimulationResult{EstimatedOutputKWh: 1, EstimatedCostUSD: 2, EstimatedROIYears: 3}

	a := NewSimulation(req, losAngeles(), maxeon(), result)
	b := NewSimulation(req, losAngeles(), maxeon(), result)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "each simulation gets a fresh id")
	assert.Equal(t, now, a.CreatedAt)
	assert.Equal(t, "Los Angeles", a.Location.City)
	assert.Equal(t, 430, a.PanelType.Wattage)
	assert.Equal(t, 50.0, a.RoofSizeM2)
	assert.Equal(t, result, a.SimulationResult)
}

func TestNewSimulation_CreatedAtMicrosecondPrecision(t *testing.T) {
	now := time.Date(2026, time.June, 21, 12, 0, 0, 123456789, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	sim := NewSimulation(SimulationRequest{RoofSizeM2: 50}, losAngeles(), maxeon(), SimulationResult{})

	assert.Equal(t, time.Date(2026, time.June, 21, 12, 0, 0, 123456000, time.UTC), sim.CreatedAt)
}

func TestCatalogValidate(t *testing.T) {
	require.NoError(t, losAngeles().Validate())
	require.NoError(t, maxeon().Validate())

	badLoc := losAngeles()
	badLoc.Latitude = 91
	badLoc.AvgSunHoursPerDay = 0
	err := badLoc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
	assert.Contains(t, err.Error(), "sun hours")

	badPanel := maxeon()
	badPanel.Wattage = 0
	badPanel.Efficiency = 120
	err = badPanel.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wattage")
	assert.Contains(t, err.Error(), "efficiency")
}
