package domain

import (
	"math"
	"strconv"

	"github.com/google/uuid"
)

// MinRoofSizeM2 is the smallest roof area accepted on input.
const MinRoofSizeM2 = 1.0

// ValidateSimulationInput parses and range-checks a create request.
// It is pure and must run before any catalog lookup or remote call.
func ValidateSimulationInput(in SimulationInput) (SimulationRequest, error) {
	locationID, err := parseID("locationId", in.LocationID)
	if err != nil {
		return SimulationRequest{}, err
	}
	panelTypeID, err := parseID("panelTypeId", in.PanelTypeID)
	if err != nil {
		return SimulationRequest{}, err
	}

	if in.RoofSizeM2 == nil {
		return SimulationRequest{}, &ValidationError{Field: "roofSizeM2", Value: "", Err: ErrInvalidRoofSize}
	}
	roof := *in.RoofSizeM2
	if math.IsNaN(roof) || math.IsInf(roof, 0) || roof <= 0 || roof < MinRoofSizeM2 {
		return SimulationRequest{}, &ValidationError{
			Field: "roofSizeM2",
			Value: strconv.FormatFloat(roof, 'g', -1, 64),
			Err:   ErrInvalidRoofSize,
		}
	}

	return SimulationRequest{
		LocationID:  locationID,
		PanelTypeID: panelTypeID,
		RoofSizeM2:  roof,
	}, nil
}

// parseID accepts only the canonical hyphenated 36-character form; uuid.Parse
// alone would also accept URN, braced, and unhyphenated encodings.
func parseID(field, raw string) (uuid.UUID, error) {
	if len(raw) != 36 {
		return uuid.Nil, &ValidationError{Field: field, Value: raw, Err: ErrInvalidIdentifier}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ValidationError{Field: field, Value: raw, Err: ErrInvalidIdentifier}
	}
	return id, nil
}
