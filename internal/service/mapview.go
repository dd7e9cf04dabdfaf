package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/repository"
	"github.com/UnknownOlympus/compass/internal/routing"
	"github.com/UnknownOlympus/compass/internal/viewport"
)

// MapService assembles the map of a shipment: its stops, the routed path of
// the active leg and the initial viewport.
type MapService struct {
	log      *slog.Logger         // Logger for logging service activities
	repo     repository.Interface // Shipment storage
	cache    RouteCache           // Optional route cache, nil disables caching
	fetcher  *routeFetcher        // Routing provider wrapper
	metrics  *metrics.Metrics     // Metrics for tracking service performance
	padding  float64              // Padding in degrees added to both viewport spans
	cacheTTL time.Duration        // Lifetime of cached routes
}

// NewMapService creates a new instance of MapService.
// cache may be nil, in which case every request goes to the routing provider.
func NewMapService(
	log *slog.Logger,
	repo repository.Interface,
	provider routing.Provider,
	providerName string,
	cache RouteCache,
	metrics *metrics.Metrics,
	padding float64,
	cacheTTL time.Duration,
) *MapService {
	return &MapService{
		log:   log,
		repo:  repo,
		cache: cache,
		fetcher: &routeFetcher{
			log:          log,
			provider:     provider,
			providerName: providerName,
			metrics:      metrics,
			now:          time.Now,
		},
		metrics:  metrics,
		padding:  padding,
		cacheTTL: cacheTTL,
	}
}

// Build returns the map of a shipment. device is the current position of the
// phone and may be nil when the location is unknown.
//
// A failing routing provider does not fail the request: the map is returned
// without a route. The only errors are storage errors, repository.ErrShipmentNotFound
// and viewport.ErrInvalidArgument when there is nothing to frame.
func (ms *MapService) Build(ctx context.Context, shipmentID string, device *viewport.GeoPoint) (*models.MapView, error) {
	return ms.build(ctx, shipmentID, device, false)
}

// Refresh drops the cached route of the active leg and rebuilds the map.
func (ms *MapService) Refresh(ctx context.Context, shipmentID string, device *viewport.GeoPoint) (*models.MapView, error) {
	return ms.build(ctx, shipmentID, device, true)
}

// Fit computes a viewport around arbitrary points using the configured padding
// when padding is nil.
func (ms *MapService) Fit(points []viewport.GeoPoint, padding *float64) (viewport.Region, error) {
	pad := ms.padding
	if padding != nil {
		pad = *padding
	}

	region, err := viewport.Fit(points, pad)
	if err != nil {
		return viewport.Region{}, err
	}
	ms.metrics.ViewportsFitted.WithLabelValues("false").Inc()

	return region, nil
}

func (ms *MapService) build(
	ctx context.Context,
	shipmentID string,
	device *viewport.GeoPoint,
	refresh bool,
) (*models.MapView, error) {
	shipment, err := ms.repo.GetShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipment %s: %w", shipmentID, err)
	}

	view := &models.MapView{
		ShipmentID: shipment.ID,
		Stops:      shipment.Stops,
		Device:     device,
	}

	var points []viewport.GeoPoint
	if leg, ok := shipment.ActiveLeg(); ok {
		points = leg.Points()
		view.Route = ms.resolveRoute(ctx, leg, refresh)
	} else {
		ms.log.DebugContext(ctx, "Shipment has no active leg", "shipment", shipmentID)
		points = shipment.Locations()
	}

	if device != nil {
		points = append(points, *device)
	}

	view.Region, err = viewport.Fit(points, ms.padding)
	if err != nil {
		return nil, fmt.Errorf("failed to fit viewport for shipment %s: %w", shipmentID, err)
	}
	ms.metrics.ViewportsFitted.WithLabelValues(strconv.FormatBool(device != nil)).Inc()

	return view, nil
}

// resolveRoute looks the leg up in the cache and falls back to the provider.
// It returns nil when no route is available.
func (ms *MapService) resolveRoute(ctx context.Context, leg models.Leg, refresh bool) *models.Route {
	if ms.cache != nil {
		if refresh {
			if err := ms.cache.Invalidate(ctx, leg); err != nil {
				ms.log.WarnContext(ctx, "Failed to invalidate cached route", "error", err)
			}
		} else {
			route, ok, err := ms.cache.Get(ctx, leg)
			switch {
			case err != nil:
				ms.metrics.CacheLookups.WithLabelValues("error").Inc()
				ms.log.WarnContext(ctx, "Route cache lookup failed", "error", err)
			case ok:
				ms.metrics.CacheLookups.WithLabelValues("hit").Inc()
				// Entries are keyed by coordinates and may come from another shipment.
				route.Leg = leg
				return route
			default:
				ms.metrics.CacheLookups.WithLabelValues("miss").Inc()
			}
		}
	}

	route, err := ms.fetcher.fetch(ctx, leg)
	if err != nil {
		ms.log.ErrorContext(ctx, "Route unavailable, map is served without a path", "error", err)
		return nil
	}

	if ms.cache != nil {
		if err = ms.cache.Set(ctx, *route, ms.cacheTTL); err != nil {
			ms.log.WarnContext(ctx, "Failed to cache route", "error", err)
		}
	}

	return route
}
