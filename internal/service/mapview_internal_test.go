package service

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/repository"
	"github.com/UnknownOlympus/compass/internal/viewport"
	"github.com/UnknownOlympus/compass/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	fetchedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	device    = viewport.GeoPoint{Latitude: 40.0, Longitude: -90.0}
	pickup    = models.Stop{
		ID: 1, Sequence: 1, Status: models.StopStatusPending,
		Location: viewport.GeoPoint{Latitude: 41.88, Longitude: -87.63},
	}
	dropoff = models.Stop{
		ID: 2, Sequence: 2, Status: models.StopStatusPending,
		Location: viewport.GeoPoint{Latitude: 39.1, Longitude: -94.58},
	}
	activeLeg = models.Leg{From: pickup, To: dropoff}
	routePath = []viewport.GeoPoint{pickup.Location, {Latitude: 40.5, Longitude: -91.0}, dropoff.Location}
)

func activeShipment() *models.Shipment {
	return &models.Shipment{
		ID:     "SHP-1",
		Status: models.ShipmentStatusInTransit,
		Stops:  []models.Stop{pickup, dropoff},
	}
}

func newTestMapService(t *testing.T, cache RouteCache) (*MapService, *mocks.Interface, *mocks.Provider, *metrics.Metrics) {
	t.Helper()

	mockRepo := mocks.NewInterface(t)
	mockProvider := mocks.NewProvider(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	svc := NewMapService(logger, mockRepo, mockProvider, "pcmiler", cache, appMetrics, 0.5, time.Hour)
	svc.fetcher.now = func() time.Time { return fetchedAt }

	return svc, mockRepo, mockProvider, appMetrics
}

func TestMapService_Build(t *testing.T) {
	ctx := t.Context()
	wantRoute := &models.Route{Leg: activeLeg, Path: routePath, Provider: "pcmiler", FetchedAt: fetchedAt}

	t.Run("cache miss fetches and stores the route", func(t *testing.T) {
		mockCache := mocks.NewRouteCache(t)
		svc, mockRepo, mockProvider, appMetrics := newTestMapService(t, mockCache)

		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockCache.On("Get", ctx, activeLeg).Return(nil, false, nil).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(routePath, nil).Once()
		mockCache.On("Set", ctx, *wantRoute, time.Hour).Return(nil).Once()

		view, err := svc.Build(ctx, "SHP-1", &device)

		require.NoError(t, err)
		wantRegion, err := viewport.Fit([]viewport.GeoPoint{pickup.Location, dropoff.Location, device}, 0.5)
		require.NoError(t, err)
		assert.Equal(t, wantRegion, view.Region)
		assert.Equal(t, wantRoute, view.Route)
		assert.Equal(t, "SHP-1", view.ShipmentID)
		assert.Equal(t, &device, view.Device)
		assert.Len(t, view.Stops, 2)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.CacheLookups.WithLabelValues("miss")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.ViewportsFitted.WithLabelValues("true")), 0)
	})

	t.Run("cache hit skips the provider", func(t *testing.T) {
		mockCache := mocks.NewRouteCache(t)
		svc, mockRepo, _, appMetrics := newTestMapService(t, mockCache)

		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockCache.On("Get", ctx, activeLeg).Return(wantRoute, true, nil).Once()

		view, err := svc.Build(ctx, "SHP-1", nil)

		require.NoError(t, err)
		assert.Equal(t, wantRoute, view.Route)
		assert.Nil(t, view.Device)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.CacheLookups.WithLabelValues("hit")), 0)
	})

	t.Run("cache hit from another shipment keeps this shipment's stops", func(t *testing.T) {
		mockCache := mocks.NewRouteCache(t)
		svc, mockRepo, _, _ := newTestMapService(t, mockCache)

		otherPickup, otherDropoff := pickup, dropoff
		otherPickup.ID, otherDropoff.ID = 71, 72
		otherDropoff.Status = models.StopStatusArrived
		cached := &models.Route{
			Leg:       models.Leg{From: otherPickup, To: otherDropoff},
			Path:      routePath,
			Provider:  "pcmiler",
			FetchedAt: fetchedAt,
		}

		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockCache.On("Get", ctx, activeLeg).Return(cached, true, nil).Once()

		view, err := svc.Build(ctx, "SHP-1", nil)

		require.NoError(t, err)
		require.NotNil(t, view.Route)
		assert.Equal(t, activeLeg, view.Route.Leg)
		assert.Equal(t, routePath, view.Route.Path)
	})

	t.Run("cache error falls back to the provider", func(t *testing.T) {
		mockCache := mocks.NewRouteCache(t)
		svc, mockRepo, mockProvider, _ := newTestMapService(t, mockCache)

		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockCache.On("Get", ctx, activeLeg).Return(nil, false, assert.AnError).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(routePath, nil).Once()
		mockCache.On("Set", ctx, *wantRoute, time.Hour).Return(assert.AnError).Once()

		view, err := svc.Build(ctx, "SHP-1", nil)

		require.NoError(t, err)
		assert.Equal(t, wantRoute, view.Route)
	})

	t.Run("provider failure serves the map without a route", func(t *testing.T) {
		svc, mockRepo, mockProvider, appMetrics := newTestMapService(t, nil)

		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(nil, assert.AnError).Once()

		view, err := svc.Build(ctx, "SHP-1", &device)

		require.NoError(t, err)
		assert.Nil(t, view.Route)
		assert.True(t, view.Region.Contains(device))
		assert.True(t, view.Region.Contains(pickup.Location))
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.APIErrors), 0)
	})

	t.Run("no active leg frames every stop", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestMapService(t, nil)
		shipment := activeShipment()
		shipment.Status = models.ShipmentStatusDelivered

		mockRepo.On("GetShipment", ctx, "SHP-1").Return(shipment, nil).Once()

		view, err := svc.Build(ctx, "SHP-1", nil)

		require.NoError(t, err)
		assert.Nil(t, view.Route)
		wantRegion, err := viewport.Fit(shipment.Locations(), 0.5)
		require.NoError(t, err)
		assert.Equal(t, wantRegion, view.Region)
	})

	t.Run("only the device location", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestMapService(t, nil)

		mockRepo.On("GetShipment", ctx, "SHP-2").Return(&models.Shipment{ID: "SHP-2"}, nil).Once()

		view, err := svc.Build(ctx, "SHP-2", &device)

		require.NoError(t, err)
		assert.Equal(t, viewport.Region{
			CenterLatitude: 40, CenterLongitude: -90, LatitudeSpan: 0.5, LongitudeSpan: 0.5,
		}, view.Region)
	})

	t.Run("nothing to frame", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestMapService(t, nil)

		mockRepo.On("GetShipment", ctx, "SHP-2").Return(&models.Shipment{ID: "SHP-2"}, nil).Once()

		view, err := svc.Build(ctx, "SHP-2", nil)

		require.ErrorIs(t, err, viewport.ErrInvalidArgument)
		assert.Nil(t, view)
	})

	t.Run("shipment not found", func(t *testing.T) {
		svc, mockRepo, _, _ := newTestMapService(t, nil)

		mockRepo.On("GetShipment", ctx, "missing").Return(nil, repository.ErrShipmentNotFound).Once()

		view, err := svc.Build(ctx, "missing", nil)

		require.ErrorIs(t, err, repository.ErrShipmentNotFound)
		assert.Nil(t, view)
	})
}

func TestMapService_Refresh(t *testing.T) {
	ctx := t.Context()

	t.Run("invalidates and refetches", func(t *testing.T) {
		mockCache := mocks.NewRouteCache(t)
		svc, mockRepo, mockProvider, _ := newTestMapService(t, mockCache)

		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockCache.On("Invalidate", ctx, activeLeg).Return(nil).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(routePath, nil).Once()
		mockCache.On("Set", ctx, mock.AnythingOfType("models.Route"), time.Hour).Return(nil).Once()

		view, err := svc.Refresh(ctx, "SHP-1", &device)

		require.NoError(t, err)
		require.NotNil(t, view.Route)
		assert.Equal(t, routePath, view.Route.Path)
		mockCache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("invalidate error is not fatal", func(t *testing.T) {
		mockCache := mocks.NewRouteCache(t)
		svc, mockRepo, mockProvider, _ := newTestMapService(t, mockCache)

		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockCache.On("Invalidate", ctx, activeLeg).Return(assert.AnError).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(routePath, nil).Once()
		mockCache.On("Set", ctx, mock.AnythingOfType("models.Route"), time.Hour).Return(nil).Once()

		view, err := svc.Refresh(ctx, "SHP-1", nil)

		require.NoError(t, err)
		assert.NotNil(t, view.Route)
	})
}

func TestMapService_Fit(t *testing.T) {
	svc, _, _, _ := newTestMapService(t, nil)
	points := []viewport.GeoPoint{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 10}}

	t.Run("default padding", func(t *testing.T) {
		region, err := svc.Fit(points, nil)

		require.NoError(t, err)
		assert.Equal(t, viewport.Region{CenterLatitude: 0, CenterLongitude: 5, LatitudeSpan: 0.5, LongitudeSpan: 10.5}, region)
	})

	t.Run("explicit padding", func(t *testing.T) {
		padding := 1.0

		region, err := svc.Fit(points, &padding)

		require.NoError(t, err)
		assert.InDelta(t, 1.0, region.LatitudeSpan, 0)
		assert.InDelta(t, 11.0, region.LongitudeSpan, 0)
	})

	t.Run("empty points", func(t *testing.T) {
		_, err := svc.Fit(nil, nil)

		require.ErrorIs(t, err, viewport.ErrInvalidArgument)
	})
}
