package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/repository"
	"github.com/UnknownOlympus/compass/internal/routing"
)

// shipmentBatch is the number of shipments picked up per poll.
const shipmentBatch = 100

// RouteRefresher keeps stored routes of active shipments up to date in the background.
type RouteRefresher struct {
	log          *slog.Logger         // Logger for logging service activities
	repo         repository.Interface // Interface for data repository access
	cache        RouteCache           // Optional route cache warmed after each refresh
	publisher    EventPublisher       // Receives an event per stored route
	fetcher      *routeFetcher        // Routing provider wrapper
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	numWorkers   int                  // Number of concurrent workers for processing
	pollInterval time.Duration        // Interval between refresh rounds
	cacheTTL     time.Duration        // Lifetime of cached routes
}

// NewRouteRefresher creates a new instance of RouteRefresher.
// cache may be nil.
func NewRouteRefresher(
	log *slog.Logger,
	repo repository.Interface,
	provider routing.Provider,
	providerName string,
	cache RouteCache,
	publisher EventPublisher,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	cacheTTL time.Duration,
) *RouteRefresher {
	return &RouteRefresher{
		log:       log,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		fetcher: &routeFetcher{
			log:          log,
			provider:     provider,
			providerName: providerName,
			metrics:      metrics,
			now:          time.Now,
		},
		metrics:      metrics,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
		cacheTTL:     cacheTTL,
	}
}

// Run starts the refresher, which periodically polls for shipments whose route should be refreshed.
// It listens for a cancellation signal from the context to gracefully stop the service.
func (rr *RouteRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(rr.pollInterval)
	defer ticker.Stop()

	rr.log.InfoContext(ctx, "Route refresher started...")

	for {
		select {
		case <-ctx.Done():
			rr.log.InfoContext(ctx, "Route refresher stopped.")
			return
		case <-ticker.C:
			rr.log.InfoContext(ctx, "Polling for shipments to refresh...")
			rr.processShipments(ctx)
		}
	}
}

// processShipments fetches active shipments, starts a worker pool to refresh their routes,
// and waits for all workers to finish.
func (rr *RouteRefresher) processShipments(ctx context.Context) {
	shipments, err := rr.repo.FetchActiveShipments(ctx, shipmentBatch)
	if err != nil {
		rr.log.ErrorContext(ctx, "Failed to fetch active shipments", "error", err)
		return
	}
	if len(shipments) == 0 {
		rr.log.InfoContext(ctx, "No shipments to refresh.")
		return
	}

	rr.log.InfoContext(
		ctx,
		"Found shipments to refresh. Starting worker pool.",
		"jobs", len(shipments),
		"num_workers", rr.numWorkers,
	)

	jobs := make(chan models.Shipment, len(shipments))
	var wgr sync.WaitGroup

	for i := 1; i <= rr.numWorkers; i++ {
		wgr.Add(1)
		go rr.worker(ctx, i, &wgr, jobs)
	}

	for _, shipment := range shipments {
		jobs <- shipment
	}
	close(jobs)

	wgr.Wait()
	rr.log.InfoContext(ctx, "Refresh batch finished")
}

// worker refreshes the route of each shipment received from jobs.
func (rr *RouteRefresher) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Shipment) {
	defer wg.Done()
	for job := range jobs {
		rr.metrics.ActiveWorkers.Inc()
		rr.refreshShipment(ctx, idx, job.ID)
		rr.metrics.ActiveWorkers.Dec()
	}
}

func (rr *RouteRefresher) refreshShipment(ctx context.Context, idx int, shipmentID string) {
	rr.log.DebugContext(ctx, "Refreshing shipment", "worker", idx, "shipment", shipmentID)

	shipment, err := rr.repo.GetShipment(ctx, shipmentID)
	if err != nil {
		rr.log.ErrorContext(ctx, "Failed to load shipment", "worker", idx, "shipment", shipmentID, "error", err)
		rr.metrics.RoutesRefreshed.WithLabelValues("failure").Inc()
		return
	}

	leg, ok := shipment.ActiveLeg()
	if !ok {
		rr.log.DebugContext(ctx, "Shipment has no active leg", "worker", idx, "shipment", shipmentID)
		rr.metrics.RoutesRefreshed.WithLabelValues("skipped").Inc()
		return
	}

	route, err := rr.fetcher.fetch(ctx, leg)
	if err != nil {
		rr.log.ErrorContext(ctx, "Failed to route", "worker", idx, "shipment", shipmentID, "error", err)
		rr.metrics.RoutesRefreshed.WithLabelValues("failure").Inc()

		if err = rr.repo.IncrementRouteFailure(ctx, shipmentID, err.Error()); err != nil {
			rr.log.ErrorContext(
				ctx,
				"Could not update failure count for shipment",
				"worker", idx,
				"shipment", shipmentID,
				"error", err,
			)
		}
		return
	}

	rr.metrics.RoutesRefreshed.WithLabelValues("success").Inc()

	if err = rr.repo.SaveRoutePath(ctx, shipmentID, *route); err != nil {
		rr.log.ErrorContext(
			ctx,
			"Failed to store route for shipment",
			"worker", idx,
			"shipment", shipmentID,
			"error", err,
		)
		return
	}

	if rr.cache != nil {
		if err = rr.cache.Set(ctx, *route, rr.cacheTTL); err != nil {
			rr.log.WarnContext(ctx, "Failed to warm route cache", "shipment", shipmentID, "error", err)
		}
	}

	event := models.RouteUpdated{
		ShipmentID: shipmentID,
		Provider:   route.Provider,
		Points:     len(route.Path),
		UpdatedAt:  route.FetchedAt,
	}
	if err = rr.publisher.PublishRouteUpdated(ctx, event); err != nil {
		rr.log.WarnContext(ctx, "Failed to publish route update", "shipment", shipmentID, "error", err)
	}

	rr.log.DebugContext(ctx, "Worker successfully refreshed the route", "worker", idx, "shipment", shipmentID)
}
