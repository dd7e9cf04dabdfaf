package routing

import (
	"context"
	"net/http"

	"github.com/UnknownOlympus/compass/internal/viewport"
)

// Provider is an interface that defines a method for routing between two points.
// The Route method takes a context and the leg endpoints as input,
// and returns the path to draw between them and an error if any occurs.
type Provider interface {
	Route(ctx context.Context, from, to viewport.GeoPoint) ([]viewport.GeoPoint, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
