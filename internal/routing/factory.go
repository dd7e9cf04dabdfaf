package routing

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of routing provider.
type ProviderType string

const (
	// ProviderTypePCMiler represents the PC*MILER truck routing provider.
	ProviderTypePCMiler ProviderType = "pcmiler"
	// ProviderTypeGoogle represents Google Maps directions provider.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeOSRM represents an OSRM route service.
	ProviderTypeOSRM ProviderType = "osrm"
)

// ProviderConfig holds configuration for creating a routing provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	BaseURL   string       // Base URL override (PC*MILER and OSRM)
	APIKey    string       // API key (PC*MILER and Google)
	RateLimit int          // Rate limit for requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewProvider creates a routing provider based on the provided configuration.
//
// Supported provider types:
// - "pcmiler": PC*MILER route path API with a truck profile (requires API key)
// - "google": Google Maps Directions API (requires API key)
// - "osrm": OSRM route service (no API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypePCMiler:
		return newPCMilerProvider(config)
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeOSRM:
		return NewOSRMProvider(config.BaseURL, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newPCMilerProvider creates a PC*MILER routing provider.
func newPCMilerProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for PC*MILER provider")
	}

	if config.RateLimit == 0 {
		config.RateLimit = 5
		config.Logger.Warn("Rate limit for PC*MILER API not set, set a default value", "value", config.RateLimit)
	}

	return NewPCMilerProvider(config.BaseURL, config.APIKey, config.RateLimit, config.Logger), nil
}

// newGoogleProvider creates a Google Maps routing provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}

	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}
