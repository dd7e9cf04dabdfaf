package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestProcessShipments(t *testing.T) {
	mockRepo := mocks.NewInterface(t)
	mockProvider := mocks.NewProvider(t)
	mockCache := mocks.NewRouteCache(t)
	mockPublisher := mocks.NewEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	ctx := t.Context()
	service := NewRouteRefresher(
		logger, mockRepo, mockProvider, "pcmiler", mockCache, mockPublisher, appMetrics, 2, time.Second, time.Hour,
	)
	service.fetcher.now = func() time.Time { return fetchedAt }

	batch := []models.Shipment{{ID: "SHP-1", Status: models.ShipmentStatusInTransit}}
	route := models.Route{Leg: activeLeg, Path: routePath, Provider: "pcmiler", FetchedAt: fetchedAt}
	event := models.RouteUpdated{ShipmentID: "SHP-1", Provider: "pcmiler", Points: 3, UpdatedAt: fetchedAt}

	t.Run("successfull processing", func(t *testing.T) {
		mockRepo.On("FetchActiveShipments", ctx, 100).Return(batch, nil).Once()
		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(routePath, nil).Once()
		mockRepo.On("SaveRoutePath", ctx, "SHP-1", route).Return(nil).Once()
		mockCache.On("Set", ctx, route, time.Hour).Return(nil).Once()
		mockPublisher.On("PublishRouteUpdated", ctx, event).Return(nil).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
		mockCache.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("fetch shipments return error", func(t *testing.T) {
		mockRepo.On("FetchActiveShipments", ctx, 100).Return(nil, assert.AnError).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
	})

	t.Run("fetch shipments return empty list", func(t *testing.T) {
		mockRepo.On("FetchActiveShipments", ctx, 100).Return([]models.Shipment{}, nil).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
	})

	t.Run("load shipment returns error", func(t *testing.T) {
		mockRepo.On("FetchActiveShipments", ctx, 100).Return(batch, nil).Once()
		mockRepo.On("GetShipment", ctx, "SHP-1").Return(nil, assert.AnError).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
	})

	t.Run("shipment without active leg is skipped", func(t *testing.T) {
		shipment := activeShipment()
		shipment.Stops = shipment.Stops[:1]

		mockRepo.On("FetchActiveShipments", ctx, 100).Return(batch, nil).Once()
		mockRepo.On("GetShipment", ctx, "SHP-1").Return(shipment, nil).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.RoutesRefreshed.WithLabelValues("skipped")), 0)
	})

	t.Run("routing provider returns error", func(t *testing.T) {
		routeErr := errors.New("routing failed")

		mockRepo.On("FetchActiveShipments", ctx, 100).Return(batch, nil).Once()
		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(nil, routeErr).Once()
		mockRepo.On("IncrementRouteFailure", ctx, "SHP-1", "failed to route leg 1->2: routing failed").
			Return(nil).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("error to increment failure count", func(t *testing.T) {
		routeErr := errors.New("routing failed")

		mockRepo.On("FetchActiveShipments", ctx, 100).Return(batch, nil).Once()
		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(nil, routeErr).Once()
		mockRepo.On("IncrementRouteFailure", ctx, "SHP-1", "failed to route leg 1->2: routing failed").
			Return(assert.AnError).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("error to save route path", func(t *testing.T) {
		mockRepo.On("FetchActiveShipments", ctx, 100).Return(batch, nil).Once()
		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(routePath, nil).Once()
		mockRepo.On("SaveRoutePath", ctx, "SHP-1", route).Return(assert.AnError).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
		mockProvider.AssertExpectations(t)
	})

	t.Run("cache and publish errors are not fatal", func(t *testing.T) {
		mockRepo.On("FetchActiveShipments", ctx, 100).Return(batch, nil).Once()
		mockRepo.On("GetShipment", ctx, "SHP-1").Return(activeShipment(), nil).Once()
		mockProvider.On("Route", ctx, pickup.Location, dropoff.Location).Return(routePath, nil).Once()
		mockRepo.On("SaveRoutePath", ctx, "SHP-1", route).Return(nil).Once()
		mockCache.On("Set", ctx, route, time.Hour).Return(assert.AnError).Once()
		mockPublisher.On("PublishRouteUpdated", ctx, event).Return(assert.AnError).Once()

		service.processShipments(ctx)

		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("start context cancelled", func(t *testing.T) {
		tctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		service.Run(tctx)
	})
}
