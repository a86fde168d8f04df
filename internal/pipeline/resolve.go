package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Resolve looks up the location and panel type concurrently. A missing row
// yields a NotFoundError; when both are missing the location is reported.
func (s *Service) Resolve(ctx context.Context, locationID, panelTypeID uuid.UUID) (domain.Location, domain.PanelType, error) {
	var (
		loc        domain.Location
		panel      domain.PanelType
		locFound   bool
		panelFound bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loc, locFound, err = s.catalog.GetLocationByID(gctx, locationID)
		if err != nil {
			return fmt.Errorf("catalog lookup location %s: %w", locationID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		panel, panelFound, err = s.catalog.GetPanelTypeByID(gctx, panelTypeID)
		if err != nil {
			return fmt.Errorf("catalog lookup panel type %s: %w", panelTypeID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Location{}, domain.PanelType{}, err
	}

	if !locFound {
		return domain.Location{}, domain.PanelType{}, &domain.NotFoundError{Entity: "location", ID: locationID.String()}
	}
	if !panelFound {
		return domain.Location{}, domain.PanelType{}, &domain.NotFoundError{Entity: "panel type", ID: panelTypeID.String()}
	}
	return loc, panel, nil
}
