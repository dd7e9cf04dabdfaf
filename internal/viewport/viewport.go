package viewport

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned when Fit receives no points or a padding that is
// negative or not a finite number.
var ErrInvalidArgument = errors.New("invalid argument")

// edgeTolerance absorbs the rounding of center ± span/2, roughly 0.1 mm.
const edgeTolerance = 1e-9

// GeoPoint represents a geographical point defined by its latitude and longitude.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
}

// Region is a rectangular map viewport described by its center and the span on each axis.
// Field names follow the initial region shape expected by mobile map views.
type Region struct {
	CenterLatitude  float64 `json:"latitude"`
	CenterLongitude float64 `json:"longitude"`
	LatitudeSpan    float64 `json:"latitudeDelta"`
	LongitudeSpan   float64 `json:"longitudeDelta"`
}

// Fit computes a region centered on the bounding box of points whose spans are the
// box size plus padding. Padding is added as is to both axes, in degrees.
//
// Returns ErrInvalidArgument if points is empty or padding is negative, NaN or infinite.
func Fit(points []GeoPoint, padding float64) (Region, error) {
	if len(points) == 0 {
		return Region{}, fmt.Errorf("%w: at least one point is required", ErrInvalidArgument)
	}
	if !ValidPadding(padding) {
		return Region{}, fmt.Errorf("%w: padding must be a non-negative number, got %v", ErrInvalidArgument, padding)
	}

	minLat, maxLat := points[0].Latitude, points[0].Latitude
	minLng, maxLng := points[0].Longitude, points[0].Longitude

	for _, p := range points[1:] {
		minLat = min(minLat, p.Latitude)
		maxLat = max(maxLat, p.Latitude)
		minLng = min(minLng, p.Longitude)
		maxLng = max(maxLng, p.Longitude)
	}

	return Region{
		CenterLatitude:  (minLat + maxLat) / 2,
		CenterLongitude: (minLng + maxLng) / 2,
		LatitudeSpan:    maxLat - minLat + padding,
		LongitudeSpan:   maxLng - minLng + padding,
	}, nil
}

// ValidPadding reports whether padding can be added to a span.
func ValidPadding(padding float64) bool {
	return padding >= 0 && !math.IsInf(padding, 1)
}

// Bounds returns the south-west and north-east corners of the region.
func (r Region) Bounds() (GeoPoint, GeoPoint) {
	halfLat, halfLng := r.LatitudeSpan/2, r.LongitudeSpan/2

	return GeoPoint{Latitude: r.CenterLatitude - halfLat, Longitude: r.CenterLongitude - halfLng},
		GeoPoint{Latitude: r.CenterLatitude + halfLat, Longitude: r.CenterLongitude + halfLng}
}

// Contains reports whether p lies inside the region, edges included. Points that
// defined the region are always inside it, even with zero padding.
func (r Region) Contains(p GeoPoint) bool {
	sw, ne := r.Bounds()

	return p.Latitude >= sw.Latitude-edgeTolerance && p.Latitude <= ne.Latitude+edgeTolerance &&
		p.Longitude >= sw.Longitude-edgeTolerance && p.Longitude <= ne.Longitude+edgeTolerance
}
