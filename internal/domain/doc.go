// Package domain models rooftop solar simulations: the panel and location
// catalog, request validation, and the estimation contract.
//
// # Estimation model
//
// The local model packs whole panels onto the roof and assumes each one
// produces its rated wattage for the location's average daily sun hours:
//
//	numPanels      = floor(roofSizeM2 / 1.7)
//	systemSizeKW   = numPanels × wattage / 1000
//	outputKWh/yr   = systemSizeKW × avgSunHoursPerDay × 365
//	costUSD        = systemSizeKW × 1000 × pricePerWatt
//	roiYears       = costUSD / (outputKWh × pricePerKWh)
//
// pricePerKWh defaults to 0.15 ([DefaultElectricityPricePerKWh]) and is a
// configuration value, not a derived quantity.
//
// A roof smaller than one panel footprint has no installable system and no
// defined ROI; it is reported as [DegenerateInputError] instead of a NaN or
// infinite result.
//
// # Identifiers
//
// Catalog rows and simulations are identified by UUIDs. Input ids must be in
// the canonical 36-character hyphenated form; see [ValidateSimulationInput].
//
// # Errors
//
// Client errors ([ValidationError], [NotFoundError], [DegenerateInputError])
// are never retried. [RemoteCalculationError] and [PersistenceError] carry the
// upstream cause for diagnostics. No error path yields a partially populated
// [Simulation].
package domain
