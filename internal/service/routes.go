package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/routing"
)

// RouteCache keeps fetched routes between requests.
type RouteCache interface {
	Get(ctx context.Context, leg models.Leg) (*models.Route, bool, error)
	Set(ctx context.Context, route models.Route, ttl time.Duration) error
	Invalidate(ctx context.Context, leg models.Leg) error
}

// EventPublisher announces stored routes to other services.
type EventPublisher interface {
	PublishRouteUpdated(ctx context.Context, event models.RouteUpdated) error
}

// routeFetcher calls the routing provider and records timing and error metrics.
type routeFetcher struct {
	log          *slog.Logger
	provider     routing.Provider
	providerName string
	metrics      *metrics.Metrics
	now          func() time.Time
}

func (rf *routeFetcher) fetch(ctx context.Context, leg models.Leg) (*models.Route, error) {
	startTime := time.Now()
	path, err := rf.provider.Route(ctx, leg.From.Location, leg.To.Location)
	rf.metrics.RequestSeconds.WithLabelValues(rf.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		rf.metrics.APIErrors.Inc()
		return nil, fmt.Errorf("failed to route leg %d->%d: %w", leg.From.ID, leg.To.ID, err)
	}

	rf.log.DebugContext(ctx, "Route fetched",
		"provider", rf.providerName,
		"from_stop", leg.From.ID,
		"to_stop", leg.To.ID,
		"points", len(path),
	)

	return &models.Route{
		Leg:       leg,
		Path:      path,
		Provider:  rf.providerName,
		FetchedAt: rf.now().UTC(),
	}, nil
}
