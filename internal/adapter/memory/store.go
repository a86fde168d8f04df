// Package memory provides an in-process catalog store used when no database
// is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/google/uuid"
)

type simulationRow struct {
	sim         domain.Simulation
	locationID  uuid.UUID
	panelTypeID uuid.UUID
}

// Store keeps reference data and simulations in maps guarded by a RWMutex.
// Simulations are stored by reference ids and joined on read.
type Store struct {
	mu          sync.RWMutex
	locations   map[uuid.UUID]domain.Location
	panels      map[uuid.UUID]domain.PanelType
	simulations []simulationRow
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		locations: make(map[uuid.UUID]domain.Location),
		panels:    make(map[uuid.UUID]domain.PanelType),
	}
}

func (s *Store) GetLocationByID(_ context.Context, id uuid.UUID) (domain.Location, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[id]
	return l, ok, nil
}

func (s *Store) GetPanelTypeByID(_ context.Context, id uuid.UUID) (domain.PanelType, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.panels[id]
	return p, ok, nil
}

// ListLocations returns locations ordered by city, then id.
func (s *Store) ListLocations(_ context.Context) ([]domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Location, 0, len(s.locations))
	for _, l := range s.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// ListPanelTypes returns panel types ordered by name, then id.
func (s *Store) ListPanelTypes(_ context.Context) ([]domain.PanelType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PanelType, 0, len(s.panels))
	for _, p := range s.panels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) InsertLocation(_ context.Context, l domain.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[l.ID]; ok {
		return fmt.Errorf("location %s already exists", l.ID)
	}
	s.locations[l.ID] = l
	return nil
}

func (s *Store) InsertPanelType(_ context.Context, p domain.PanelType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.panels[p.ID]; ok {
		return fmt.Errorf("panel type %s already exists", p.ID)
	}
	s.panels[p.ID] = p
	return nil
}

// InsertSimulation stores sim if both references exist and the id is new.
func (s *Store) InsertSimulation(_ context.Context, sim domain.Simulation) (domain.Simulation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[sim.Location.ID]; !ok {
		return domain.Simulation{}, &domain.PersistenceError{Op: "insert simulation", Err: fmt.Errorf("unknown location %s", sim.Location.ID)}
	}
	if _, ok := s.panels[sim.PanelType.ID]; !ok {
		return domain.Simulation{}, &domain.PersistenceError{Op: "insert simulation", Err: fmt.Errorf("unknown panel type %s", sim.PanelType.ID)}
	}
	for _, row := range s.simulations {
		if row.sim.ID == sim.ID {
			return domain.Simulation{}, &domain.PersistenceError{Op: "insert simulation", Err: fmt.Errorf("duplicate id %s", sim.ID)}
		}
	}

	s.simulations = append(s.simulations, simulationRow{
		sim:         sim,
		locationID:  sim.Location.ID,
		panelTypeID: sim.PanelType.ID,
	})
	return s.join(s.simulations[len(s.simulations)-1]), nil
}

// ListSimulations returns simulations ordered by creation time then id.
func (s *Store) ListSimulations(_ context.Context) ([]domain.Simulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Simulation, 0, len(s.simulations))
	for _, row := range s.simulations {
		out = append(out, s.join(row))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// join must be called with the lock held.
func (s *Store) join(row simulationRow) domain.Simulation {
	sim := row.sim
	sim.Location = s.locations[row.locationID]
	sim.PanelType = s.panels[row.panelTypeID]
	return sim
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
