package domain

import (
	"time"

	"github.com/google/uuid"
)

// SimulationInput is the raw, untrusted create request as received from a caller.
// RoofSizeM2 is a pointer so a missing value can be told apart from zero.
type SimulationInput struct {
	LocationID  string   `json:"locationId"`
	PanelTypeID string   `json:"panelTypeId"`
	RoofSizeM2  *float64 `json:"roofSizeM2"`
}

// SimulationRequest is a validated SimulationInput.
type SimulationRequest struct {
	LocationID  uuid.UUID
	PanelTypeID uuid.UUID
	RoofSizeM2  float64
}

// SimulationResult is the output of an Estimator. All fields are finite and non-negative.
type SimulationResult struct {
	EstimatedOutputKWh float64 `json:"estimatedOutputKWh"`
	EstimatedCostUSD   float64 `json:"estimatedCostUSD"`
	EstimatedROIYears  float64 `json:"estimatedROIYears"`
}

// Simulation is the persisted record of one successful estimation, joined
// with the catalog rows it was computed from.
type Simulation struct {
	ID         uuid.UUID `json:"id"`
	Location   Location  `json:"location"`
	PanelType  PanelType `json:"panelType"`
	RoofSizeM2 float64   `json:"roofSizeM2"`
	SimulationResult
	CreatedAt time.Time `json:"createdAt"`
}

// NewSimulation assembles the record to persist, assigning a fresh id and
// creation timestamp. It performs no I/O. CreatedAt is truncated to the
// microsecond precision of the Postgres store.
func NewSimulation(req SimulationRequest, loc Location, panel PanelType, result SimulationResult) Simulation {
	return Simulation{
		ID:               uuid.New(),
		Location:         loc,
		PanelType:        panel,
		RoofSizeM2:       req.RoofSizeM2,
		SimulationResult: result,
		CreatedAt:        clock.Now().UTC().Truncate(time.Microsecond),
	}
}
