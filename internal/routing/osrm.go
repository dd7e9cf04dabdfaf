package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/compass/internal/viewport"
)

// OSRMBaseURL is the public OSRM demo server.
const OSRMBaseURL = "https://router.project-osrm.org"

// osrmUserAgent identifies the service to the OSRM operators.
const osrmUserAgent = "Compass-Routing-Service/1.0 (https://github.com/UnknownOlympus/compass)"

// OSRMProvider implements the Provider interface using an OSRM route service.
// The public demo server is free but only meant for light use; production setups
// should point baseURL at a self-hosted instance.
type OSRMProvider struct {
	client    HTTPClient   // HTTP client for making requests
	baseURL   string       // Base URL for the OSRM API
	log       *slog.Logger // Logger for logging operations
	userAgent string
}

// osrmResponse represents the JSON response from the OSRM route service.
type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// NewOSRMProvider creates a new OSRM routing provider.
// An empty baseURL selects the public demo server.
func NewOSRMProvider(baseURL string, log *slog.Logger) *OSRMProvider {
	const timeout = 10

	return NewOSRMProviderWithClient(&http.Client{Timeout: timeout * time.Second}, baseURL, log)
}

// NewOSRMProviderWithClient creates an OSRM provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewOSRMProviderWithClient(client HTTPClient, baseURL string, log *slog.Logger) *OSRMProvider {
	if baseURL == "" {
		baseURL = OSRMBaseURL
	}

	return &OSRMProvider{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		log:       log,
		userAgent: osrmUserAgent,
	}
}

// Route asks OSRM for the driving route between two points and returns its full geometry.
func (op *OSRMProvider) Route(ctx context.Context, from, to viewport.GeoPoint) ([]viewport.GeoPoint, error) {
	op.log.DebugContext(ctx, "Routing using OSRM", "from", from, "to", to)

	reqURL, err := url.Parse(op.baseURL + "/route/v1/driving/" + formatStop(from) + ";" + formatStop(to))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("overview", "full")
	query.Set("geometries", "geojson")
	query.Set("alternatives", "false")
	reqURL.RawQuery = query.Encode()

	op.log.DebugContext(ctx, "OSRM request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", op.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := op.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute routing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result osrmResponse
	if err = json.Unmarshal(body, &result); err != nil {
		op.log.ErrorContext(ctx, "Failed to parse OSRM response", "error", err, "status", resp.StatusCode)
		return nil, fmt.Errorf("failed to decode osrm response: %w", err)
	}

	// OSRM answers 400 with code NoRoute when the points are not connected.
	if result.Code == "NoRoute" || (resp.StatusCode == http.StatusOK && len(result.Routes) == 0) {
		return nil, ErrRoutingEmptyPath
	}

	if resp.StatusCode != http.StatusOK || result.Code != "Ok" {
		op.log.ErrorContext(ctx, "OSRM API error", "status", resp.StatusCode, "code", result.Code)
		return nil, fmt.Errorf("osrm API returned status %d (%s): %s", resp.StatusCode, result.Code, result.Message)
	}

	route := result.Routes[0]
	if len(route.Geometry.Coordinates) == 0 {
		return nil, ErrRoutingEmptyPath
	}

	path, err := lonLatPath(route.Geometry.Coordinates)
	if err != nil {
		return nil, err
	}

	op.log.DebugContext(ctx, "OSRM found route",
		"points", len(path),
		"distance_m", route.Distance,
		"duration_s", route.Duration)

	return path, nil
}
