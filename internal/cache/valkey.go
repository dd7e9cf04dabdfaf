package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/valkey-io/valkey-go"
)

const keyPrefix = "compass:route:"

// RouteCache stores routes in Valkey keyed by the leg endpoints.
type RouteCache struct {
	client valkey.Client
}

// NewRouteCache connects to the Valkey server at addr.
func NewRouteCache(addr string) (*RouteCache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}

	return NewRouteCacheWithClient(client), nil
}

// NewRouteCacheWithClient wraps an existing client.
func NewRouteCacheWithClient(client valkey.Client) *RouteCache {
	return &RouteCache{client: client}
}

// Key returns the cache key of a leg. Coordinates are rounded to 5 decimals
// (about a meter) so tiny float noise does not split entries.
func Key(leg models.Leg) string {
	from, to := leg.From.Location, leg.To.Location

	return fmt.Sprintf("%s%.5f,%.5f;%.5f,%.5f", keyPrefix, from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}

// Get returns the cached route of leg. The boolean is false on a cache miss.
func (c *RouteCache) Get(ctx context.Context, leg models.Leg) (*models.Route, bool, error) {
	raw, err := c.client.Do(ctx, c.client.B().Get().Key(Key(leg)).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get: %w", err)
	}

	var route models.Route
	if err = json.Unmarshal(raw, &route); err != nil {
		return nil, false, fmt.Errorf("decode cached route: %w", err)
	}

	return &route, true, nil
}

// Set stores route under the key of its leg for ttl.
func (c *RouteCache) Set(ctx context.Context, route models.Route, ttl time.Duration) error {
	raw, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("encode route: %w", err)
	}

	cmd := c.client.B().Set().Key(Key(route.Leg)).Value(valkey.BinaryString(raw)).Ex(ttl).Build()
	if err = c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}

	return nil
}

// Invalidate removes the cached path of leg.
func (c *RouteCache) Invalidate(ctx context.Context, leg models.Leg) error {
	if err := c.client.Do(ctx, c.client.B().Del().Key(Key(leg)).Build()).Error(); err != nil {
		return fmt.Errorf("valkey del: %w", err)
	}

	return nil
}

// Close releases the client.
func (c *RouteCache) Close() {
	c.client.Close()
}
