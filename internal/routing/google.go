package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/UnknownOlympus/compass/internal/viewport"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps directions service.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Route requests driving directions between two points and decodes the overview
// polyline of the first route into a path.
func (gp *GoogleProvider) Route(ctx context.Context, from, to viewport.GeoPoint) ([]viewport.GeoPoint, error) {
	gp.log.DebugContext(ctx, "Routing using Google Maps", "from", from, "to", to)

	req := maps.DirectionsRequest{
		Origin:      formatLatLng(from),
		Destination: formatLatLng(to),
		Mode:        maps.TravelModeDriving,
	}
	routes, _, err := gp.client.Directions(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to get directions: %w", err)
	}

	if len(routes) == 0 {
		return nil, ErrEmptyResponse
	}

	latLngs, err := routes[0].OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRoutingInvalidCoords, err)
	}
	if len(latLngs) == 0 {
		return nil, ErrEmptyResponse
	}

	path := make([]viewport.GeoPoint, 0, len(latLngs))
	for _, ll := range latLngs {
		path = append(path, viewport.GeoPoint{Latitude: ll.Lat, Longitude: ll.Lng})
	}

	return path, nil
}

// formatLatLng renders a point as "lat,lng", the order the Directions API expects.
func formatLatLng(p viewport.GeoPoint) string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}
