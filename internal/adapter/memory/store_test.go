package memory

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/solar-simulation-service/internal/catalog"
	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	_, err := catalog.Seed(context.Background(), s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func newSim(loc domain.Location, panel domain.PanelType, createdAt time.Time) domain.Simulation {
	return domain.Simulation{
		ID:         uuid.New(),
		Location:   loc,
		PanelType:  panel,
		RoofSizeM2: 50,
		SimulationResult: domain.SimulationResult{
			EstimatedOutputKWh: 1000,
			EstimatedCostUSD:   5000,
			EstimatedROIYears:  33.3,
		},
		CreatedAt: createdAt,
	}
}

func TestStore_Lookups(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	loc, found, err := s.GetLocationByID(ctx, catalog.LocationID("Sydney", "Australia"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Sydney", loc.City)

	panel, found, err := s.GetPanelTypeByID(ctx, catalog.PanelTypeID("Canadian Solar HiKu6"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 405, panel.Wattage)

	_, found, err = s.GetLocationByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Lists(t *testing.T) {
	s := seededStore(t)

	locs, err := s.ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 4)
	assert.Equal(t, "Berlin", locs[0].City)

	panels, err := s.ListPanelTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, panels, 4)
	assert.Equal(t, "Canadian Solar HiKu6", panels[0].Name)
}

func TestStore_InsertAndListSimulations(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	loc := catalog.Locations()[0]
	panel := catalog.PanelTypes()[0]

	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	later := newSim(loc, panel, base.Add(time.Minute))
	earlier := newSim(loc, panel, base)

	_, err := s.InsertSimulation(ctx, later)
	require.NoError(t, err)
	got, err := s.InsertSimulation(ctx, earlier)
	require.NoError(t, err)
	assert.Equal(t, earlier, got)

	sims, err := s.ListSimulations(ctx)
	require.NoError(t, err)
	require.Len(t, sims, 2)
	assert.Equal(t, earlier.ID, sims[0].ID)
	assert.Equal(t, later.ID, sims[1].ID)
	assert.Equal(t, "Los Angeles", sims[0].Location.City)
	assert.Equal(t, "SunPower Maxeon 6", sims[0].PanelType.Name)
}

func TestStore_ListSimulations_TieBreaksOnID(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	at := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	a := newSim(catalog.Locations()[0], catalog.PanelTypes()[0], at)
	b := newSim(catalog.Locations()[0], catalog.PanelTypes()[0], at)
	_, err := s.InsertSimulation(ctx, a)
	require.NoError(t, err)
	_, err = s.InsertSimulation(ctx, b)
	require.NoError(t, err)

	sims, err := s.ListSimulations(ctx)
	require.NoError(t, err)
	require.Len(t, sims, 2)
	assert.Less(t, sims[0].ID.String(), sims[1].ID.String())
}

func TestStore_Lists_TieBreakOnID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for range 5 {
		require.NoError(t, s.InsertLocation(ctx, domain.Location{ID: uuid.New(), City: "Springfield", Country: "USA"}))
		require.NoError(t, s.InsertPanelType(ctx, domain.PanelType{ID: uuid.New(), Name: "Generic 400", Wattage: 400}))
	}

	locs, err := s.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 5)
	for i := 1; i < len(locs); i++ {
		assert.Less(t, locs[i-1].ID.String(), locs[i].ID.String())
	}

	panels, err := s.ListPanelTypes(ctx)
	require.NoError(t, err)
	require.Len(t, panels, 5)
	for i := 1; i < len(panels); i++ {
		assert.Less(t, panels[i-1].ID.String(), panels[i].ID.String())
	}
}

func TestStore_InsertSimulation_UnknownReferences(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	unknownLoc := catalog.Locations()[0]
	unknownLoc.ID = uuid.New()
	_, err := s.InsertSimulation(ctx, newSim(unknownLoc, catalog.PanelTypes()[0], time.Now()))
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)

	unknownPanel := catalog.PanelTypes()[0]
	unknownPanel.ID = uuid.New()
	_, err = s.InsertSimulation(ctx, newSim(catalog.Locations()[0], unknownPanel, time.Now()))
	require.ErrorAs(t, err, &perr)

	sims, err := s.ListSimulations(ctx)
	require.NoError(t, err)
	assert.Empty(t, sims)
}

func TestStore_InsertSimulation_DuplicateID(t *testing.T) {
	s := seededStore(t)
	sim := newSim(catalog.Locations()[1], catalog.PanelTypes()[1], time.Now())

	_, err := s.InsertSimulation(context.Background(), sim)
	require.NoError(t, err)
	_, err = s.InsertSimulation(context.Background(), sim)

	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
}

func TestStore_DuplicateReferenceData(t *testing.T) {
	s := seededStore(t)
	require.Error(t, s.InsertLocation(context.Background(), catalog.Locations()[0]))
	require.Error(t, s.InsertPanelType(context.Background(), catalog.PanelTypes()[0]))
}

func TestStore_ConcurrentInserts(t *testing.T) {
	s := seededStore(t)
	loc := catalog.Locations()[2]
	panel := catalog.PanelTypes()[3]

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.InsertSimulation(context.Background(), newSim(loc, panel, time.Now()))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sims, err := s.ListSimulations(context.Background())
	require.NoError(t, err)
	assert.Len(t, sims, 50)
}
