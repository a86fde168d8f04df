package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/couchcryptid/solar-simulation-service/internal/observability"
	"github.com/google/uuid"
)

// Catalog is the relational store holding reference data and simulations.
// Point lookups report absence with found=false and a nil error.
type Catalog interface {
	GetLocationByID(ctx context.Context, id uuid.UUID) (domain.Location, bool, error)
	GetPanelTypeByID(ctx context.Context, id uuid.UUID) (domain.PanelType, bool, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListPanelTypes(ctx context.Context) ([]domain.PanelType, error)
	InsertSimulation(ctx context.Context, sim domain.Simulation) (domain.Simulation, error)
	ListSimulations(ctx context.Context) ([]domain.Simulation, error)
}

// Pinger is implemented by catalogs that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Publisher announces persisted simulations to downstream consumers.
type Publisher interface {
	PublishSimulation(ctx context.Context, sim domain.Simulation) error
}

// Service runs the create-simulation flow and serves the catalog queries.
type Service struct {
	catalog   Catalog
	estimator domain.Estimator
	strategy  string
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. strategy labels estimation metrics ("local" or
// "remote"). Pass a nil publisher to disable simulation-created events.
func New(catalog Catalog, estimator domain.Estimator, strategy string, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		catalog:   catalog,
		estimator: estimator,
		strategy:  strategy,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether the catalog store is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	p, ok := s.catalog.(Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("catalog unreachable: %w", err)
	}
	return nil
}

// ListPanelTypes returns every panel type in the catalog.
func (s *Service) ListPanelTypes(ctx context.Context) ([]domain.PanelType, error) {
	return s.catalog.ListPanelTypes(ctx)
}

// ListLocations returns every location in the catalog.
func (s *Service) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.catalog.ListLocations(ctx)
}

// ListSimulations returns every persisted simulation joined with its catalog rows.
func (s *Service) ListSimulations(ctx context.Context) ([]domain.Simulation, error) {
	return s.catalog.ListSimulations(ctx)
}

// CreateSimulation validates the input, resolves the catalog references,
// estimates, and persists the result with a single insert. Nothing is
// persisted unless every earlier step succeeded.
func (s *Service) CreateSimulation(ctx context.Context, in domain.SimulationInput) (domain.Simulation, error) {
	sim, err := s.createSimulation(ctx, in)
	if err != nil {
		s.metrics.SimulationFailures.WithLabelValues(failureReason(err)).Inc()
		return domain.Simulation{}, err
	}
	s.metrics.SimulationsCreated.Inc()
	s.publish(ctx, sim)
	return sim, nil
}

func (s *Service) createSimulation(ctx context.Context, in domain.SimulationInput) (domain.Simulation, error) {
	req, err := domain.ValidateSimulationInput(in)
	if err != nil {
		return domain.Simulation{}, err
	}

	loc, panel, err := s.Resolve(ctx, req.LocationID, req.PanelTypeID)
	if err != nil {
		return domain.Simulation{}, err
	}

	result, err := s.estimate(ctx, loc, panel, req.RoofSizeM2)
	if err != nil {
		s.logger.Warn("estimation failed",
			"strategy", s.strategy,
			"location_id", loc.ID,
			"panel_type_id", panel.ID,
			"roof_size_m2", req.RoofSizeM2,
			"error", err,
		)
		return domain.Simulation{}, err
	}

	sim := domain.NewSimulation(req, loc, panel, result)
	persisted, err := s.catalog.InsertSimulation(ctx, sim)
	if err != nil {
		s.logger.Error("insert simulation failed", "simulation_id", sim.ID, "error", err)
		var perr *domain.PersistenceError
		if errors.As(err, &perr) {
			return domain.Simulation{}, err
		}
		return domain.Simulation{}, &domain.PersistenceError{Op: "insert simulation", Err: err}
	}

	s.logger.Info("simulation created",
		"simulation_id", persisted.ID,
		"location_id", loc.ID,
		"panel_type_id", panel.ID,
		"estimated_output_kwh", persisted.EstimatedOutputKWh,
	)
	return persisted, nil
}

func (s *Service) estimate(ctx context.Context, loc domain.Location, panel domain.PanelType, roofSizeM2 float64) (domain.SimulationResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.EstimationDuration.WithLabelValues(s.strategy).Observe(time.Since(start).Seconds())
	}()

	result, err := s.estimator.Estimate(ctx, loc, panel, roofSizeM2)
	if err != nil {
		return domain.SimulationResult{}, err
	}
	// Results must be finite and non-negative regardless of strategy.
	if err := result.Check(); err != nil {
		return domain.SimulationResult{}, &domain.RemoteCalculationError{Err: fmt.Errorf("estimator returned invalid result: %w", err)}
	}
	return result, nil
}

// publish is best-effort: the simulation is already persisted.
func (s *Service) publish(ctx context.Context, sim domain.Simulation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSimulation(ctx, sim); err != nil {
		s.metrics.EventPublishErrors.Inc()
		s.logger.Warn("publish simulation event failed", "simulation_id", sim.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.Inc()
}

// failureReason maps an error to the simulation_failures_total reason label.
func failureReason(err error) string {
	var (
		nf      *domain.NotFoundError
		degen   *domain.DegenerateInputError
		remote  *domain.RemoteCalculationError
		persist *domain.PersistenceError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return "invalid_identifier"
	case errors.Is(err, domain.ErrInvalidRoofSize):
		return "invalid_roof_size"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &degen):
		return "degenerate_input"
	case errors.As(err, &remote):
		return "remote_calculation"
	case errors.As(err, &persist):
		return "persistence"
	default:
		return "internal"
	}
}
