package catalogcache

import (
	"context"
	"time"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/couchcryptid/solar-simulation-service/internal/observability"
	"github.com/couchcryptid/solar-simulation-service/internal/pipeline"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Catalog wraps a pipeline.Catalog with an expiring LRU cache for point
// lookups. Lists and simulation writes pass straight through.
type Catalog struct {
	pipeline.Catalog

	locations *expirable.LRU[uuid.UUID, domain.Location]
	panels    *expirable.LRU[uuid.UUID, domain.PanelType]
	group     singleflight.Group
	metrics   *observability.Metrics
}

// New creates a cache decorator holding up to size entries per entity for ttl.
func New(inner pipeline.Catalog, size int, ttl time.Duration, metrics *observability.Metrics) *Catalog {
	return &Catalog{
		Catalog:   inner,
		locations: expirable.NewLRU[uuid.UUID, domain.Location](size, nil, ttl),
		panels:    expirable.NewLRU[uuid.UUID, domain.PanelType](size, nil, ttl),
		metrics:   metrics,
	}
}

// loadTimeout bounds a shared load once it is detached from the caller that
// started it.
const loadTimeout = 5 * time.Second

type lookup[T any] struct {
	value T
	found bool
}

func (c *Catalog) GetLocationByID(ctx context.Context, id uuid.UUID) (domain.Location, bool, error) {
	if loc, ok := c.locations.Get(id); ok {
		c.metrics.CatalogCache.WithLabelValues("location", "hit").Inc()
		return loc, true, nil
	}
	c.metrics.CatalogCache.WithLabelValues("location", "miss").Inc()

	v, err := c.load(ctx, "location:"+id.String(), func(ctx context.Context) (any, error) {
		loc, found, err := c.Catalog.GetLocationByID(ctx, id)
		if err != nil {
			return nil, err
		}
		// Absent rows are not cached so a later insert becomes visible.
		if found {
			c.locations.Add(id, loc)
		}
		return lookup[domain.Location]{value: loc, found: found}, nil
	})
	if err != nil {
		return domain.Location{}, false, err
	}
	res := v.(lookup[domain.Location])
	return res.value, res.found, nil
}

func (c *Catalog) GetPanelTypeByID(ctx context.Context, id uuid.UUID) (domain.PanelType, bool, error) {
	if panel, ok := c.panels.Get(id); ok {
		c.metrics.CatalogCache.WithLabelValues("panel_type", "hit").Inc()
		return panel, true, nil
	}
	c.metrics.CatalogCache.WithLabelValues("panel_type", "miss").Inc()

	v, err := c.load(ctx, "panel_type:"+id.String(), func(ctx context.Context) (any, error) {
		panel, found, err := c.Catalog.GetPanelTypeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			c.panels.Add(id, panel)
		}
		return lookup[domain.PanelType]{value: panel, found: found}, nil
	})
	if err != nil {
		return domain.PanelType{}, false, err
	}
	res := v.(lookup[domain.PanelType])
	return res.value, res.found, nil
}

// load runs fn once per key across concurrent callers. The shared call does
// not inherit any one caller's cancellation; each caller stops waiting when
// its own context is done.
func (c *Catalog) load(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return fn(loadCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ping forwards to the wrapped catalog when it supports readiness checks.
func (c *Catalog) Ping(ctx context.Context) error {
	if p, ok := c.Catalog.(pipeline.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Purge drops every cached entry.
func (c *Catalog) Purge() {
	c.locations.Purge()
	c.panels.Purge()
}
