package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/compass/internal/viewport"
	"golang.org/x/time/rate"
)

// PCMilerBaseURL -- PC*MILER web services base URL.
const PCMilerBaseURL = "https://pcmiler.alk.com/apis/rest/v1.0/"

// pcmilerRoutePath is the route path endpoint relative to the base URL.
const pcmilerRoutePath = "Service.svc/route/routepath"

// PCMilerProvider implements routing using the PC*MILER route path API with a truck profile.
type PCMilerProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the PC*MILER API
	apiKey  string        // API key sent in the Authorization header
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// Common errors for routing providers talking to HTTP APIs.
var (
	ErrRoutingEmptyPath     = errors.New("routing API returned empty path")
	ErrRoutingInvalidCoords = errors.New("routing API returned invalid coordinates")
	ErrRoutingUnauthorized  = errors.New("routing API unauthorized (invalid API key)")
)

// pcmilerResponse is a route path reply, a GeoJSON MultiLineString of [lon, lat] pairs.
type pcmilerResponse struct {
	Geometry struct {
		Coordinates [][][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

// truckProfile is the vehicle used for practical truck routing: a 5 axle
// 53' trailer at 80000 lb on the national network.
var truckProfile = map[string]string{
	"avoidTolls":       "false",
	"hubRouting":       "false",
	"vehHeight":        `13'6"`,
	"vehLength":        "53'",
	"vehWeight":        "80000",
	"routeOpt":         "None",
	"routeType":        "Practical",
	"vehType":          "Truck",
	"overrideClass":    "NationalNetwork",
	"axles":            "5",
	"vehDimUnits":      "English",
	"openBorders":      "true",
	"LCV":              "false",
	"hwyOnly":          "false",
	"useSites":         "false",
	"distUnits":        "Miles",
	"overrideRestrict": "false",
	"vehWidth":         `96"`,
	"region":           "NA",
	"dataset":          "Current",
}

// NewPCMilerProvider creates a new PC*MILER routing provider.
func NewPCMilerProvider(baseURL, apiKey string, rateLimit int, log *slog.Logger) *PCMilerProvider {
	const timeout = 10

	return NewPCMilerProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		baseURL,
		apiKey,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewPCMilerProviderWithClient allows injecting custom HTTP client.
func NewPCMilerProviderWithClient(
	client HTTPClient,
	baseURL string,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *PCMilerProvider {
	if baseURL == "" {
		baseURL = PCMilerBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &PCMilerProvider{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// Route fetches the truck path between two points from PC*MILER.
func (pp *PCMilerProvider) Route(
	ctx context.Context,
	from, to viewport.GeoPoint,
) ([]viewport.GeoPoint, error) {
	// Rate limit
	if err := pp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	pp.log.DebugContext(ctx, "Routing using PC*MILER", "from", from, "to", to)

	reqURL, err := url.Parse(pp.baseURL + pcmilerRoutePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("stops", formatStop(from)+";"+formatStop(to))
	for key, value := range truckProfile {
		query.Set(key, value)
	}
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Headers
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", pp.apiKey)

	resp, err := pp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute routing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrRoutingUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		pp.log.ErrorContext(ctx, "PC*MILER API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("pcmiler API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result pcmilerResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode pcmiler response: %w", err)
	}

	if len(result.Geometry.Coordinates) == 0 || len(result.Geometry.Coordinates[0]) == 0 {
		return nil, ErrRoutingEmptyPath
	}

	path, err := lonLatPath(result.Geometry.Coordinates[0])
	if err != nil {
		return nil, err
	}

	pp.log.InfoContext(ctx, "PC*MILER returned path", "points", len(path))

	return path, nil
}

// formatStop renders a point as "lon,lat", the order PC*MILER expects.
func formatStop(p viewport.GeoPoint) string {
	return strconv.FormatFloat(p.Longitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Latitude, 'f', -1, 64)
}

// lonLatPath converts GeoJSON [lon, lat] pairs into points.
func lonLatPath(coords [][]float64) ([]viewport.GeoPoint, error) {
	const pairLength = 2

	path := make([]viewport.GeoPoint, 0, len(coords))
	for idx, pair := range coords {
		if len(pair) < pairLength {
			return nil, fmt.Errorf("%w: position %d has %d values", ErrRoutingInvalidCoords, idx, len(pair))
		}
		path = append(path, viewport.GeoPoint{Latitude: pair[1], Longitude: pair[0]})
	}

	return path, nil
}
