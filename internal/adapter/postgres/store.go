// Package postgres implements the catalog store on PostgreSQL via lib/pq.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// Postgres error codes the store reacts to.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// Store reads reference data and reads and writes simulations.
type Store struct {
	db *sql.DB
}

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

const selectLocation = `SELECT id, city, country, latitude, longitude, avg_sun_hours_per_day FROM locations`

const selectPanelType = `SELECT id, name, manufacturer, efficiency, wattage, price_per_watt FROM panel_types`

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (domain.Location, error) {
	var l domain.Location
	err := row.Scan(&l.ID, &l.City, &l.Country, &l.Latitude, &l.Longitude, &l.AvgSunHoursPerDay)
	return l, err
}

func scanPanelType(row scanner) (domain.PanelType, error) {
	var p domain.PanelType
	err := row.Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Efficiency, &p.Wattage, &p.PricePerWatt)
	return p, err
}

func (s *Store) GetLocationByID(ctx context.Context, id uuid.UUID) (domain.Location, bool, error) {
	l, err := scanLocation(s.db.QueryRowContext(ctx, selectLocation+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, false, nil
	}
	if err != nil {
		return domain.Location{}, false, fmt.Errorf("get location: %w", err)
	}
	return l, true, nil
}

func (s *Store) GetPanelTypeByID(ctx context.Context, id uuid.UUID) (domain.PanelType, bool, error) {
	p, err := scanPanelType(s.db.QueryRowContext(ctx, selectPanelType+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PanelType{}, false, nil
	}
	if err != nil {
		return domain.PanelType{}, false, fmt.Errorf("get panel type: %w", err)
	}
	return p, true, nil
}

func (s *Store) ListLocations(ctx context.Context) ([]domain.Location, error) {
	rows, err := s.db.QueryContext(ctx, selectLocation+` ORDER BY city, id`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	locs := []domain.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

func (s *Store) ListPanelTypes(ctx context.Context) ([]domain.PanelType, error) {
	rows, err := s.db.QueryContext(ctx, selectPanelType+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query panel types: %w", err)
	}
	defer rows.Close()

	panels := []domain.PanelType{}
	for rows.Next() {
		p, err := scanPanelType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan panel type: %w", err)
		}
		panels = append(panels, p)
	}
	return panels, rows.Err()
}

func (s *Store) InsertLocation(ctx context.Context, l domain.Location) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO locations (id, city, country, latitude, longitude, avg_sun_hours_per_day)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.City, l.Country, l.Latitude, l.Longitude, l.AvgSunHoursPerDay,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (s *Store) InsertPanelType(ctx context.Context, p domain.PanelType) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO panel_types (id, name, manufacturer, efficiency, wattage, price_per_watt)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Manufacturer, p.Efficiency, p.Wattage, p.PricePerWatt,
	)
	if err != nil {
		return fmt.Errorf("insert panel type: %w", err)
	}
	return nil
}

// InsertSimulation writes sim in a single statement. A missing reference or
// duplicate id surfaces as a PersistenceError naming the violated constraint.
func (s *Store) InsertSimulation(ctx context.Context, sim domain.Simulation) (domain.Simulation, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO simulations (id, location_id, panel_type_id, roof_size_m2,
		   estimated_output_kwh, estimated_cost_usd, estimated_roi_years, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sim.ID, sim.Location.ID, sim.PanelType.ID, sim.RoofSizeM2,
		sim.EstimatedOutputKWh, sim.EstimatedCostUSD, sim.EstimatedROIYears, sim.CreatedAt,
	)
	if err != nil {
		return domain.Simulation{}, &domain.PersistenceError{Op: "insert simulation", Err: describe(err)}
	}
	return sim, nil
}

// ListSimulations returns every simulation joined with its location and
// panel type, ordered by creation time then id.
func (s *Store) ListSimulations(ctx context.Context) ([]domain.Simulation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.roof_size_m2, s.estimated_output_kwh, s.estimated_cost_usd,
		       s.estimated_roi_years, s.created_at,
		       l.id, l.city, l.country, l.latitude, l.longitude, l.avg_sun_hours_per_day,
		       p.id, p.name, p.manufacturer, p.efficiency, p.wattage, p.price_per_watt
		FROM simulations s
		JOIN locations l ON l.id = s.location_id
		JOIN panel_types p ON p.id = s.panel_type_id
		ORDER BY s.created_at, s.id`)
	if err != nil {
		return nil, fmt.Errorf("query simulations: %w", err)
	}
	defer rows.Close()

	sims := []domain.Simulation{}
	for rows.Next() {
		var sim domain.Simulation
		err := rows.Scan(
			&sim.ID, &sim.RoofSizeM2, &sim.EstimatedOutputKWh, &sim.EstimatedCostUSD,
			&sim.EstimatedROIYears, &sim.CreatedAt,
			&sim.Location.ID, &sim.Location.City, &sim.Location.Country,
			&sim.Location.Latitude, &sim.Location.Longitude, &sim.Location.AvgSunHoursPerDay,
			&sim.PanelType.ID, &sim.PanelType.Name, &sim.PanelType.Manufacturer,
			&sim.PanelType.Efficiency, &sim.PanelType.Wattage, &sim.PanelType.PricePerWatt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan simulation: %w", err)
		}
		sim.CreatedAt = sim.CreatedAt.UTC()
		sims = append(sims, sim)
	}
	return sims, rows.Err()
}

// describe adds the constraint context of a Postgres error.
func describe(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeForeignKeyViolation:
		return fmt.Errorf("unknown reference (%s): %w", pqErr.Constraint, err)
	case codeUniqueViolation:
		return fmt.Errorf("duplicate simulation (%s): %w", pqErr.Constraint, err)
	default:
		return err
	}
}
