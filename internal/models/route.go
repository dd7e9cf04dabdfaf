package models

import (
	"time"

	"github.com/UnknownOlympus/compass/internal/viewport"
)

// Route is a routed path between the two stops of a leg.
type Route struct {
	Leg       Leg                 `json:"leg"`
	Path      []viewport.GeoPoint `json:"path"`
	Provider  string              `json:"provider"`
	FetchedAt time.Time           `json:"fetchedAt"`
}

// MapView is everything a client needs to draw the shipment map.
// Route is nil when there is no active leg or no path could be fetched.
type MapView struct {
	ShipmentID string             `json:"shipmentId"`
	Region     viewport.Region    `json:"region"`
	Stops      []Stop             `json:"stops"`
	Device     *viewport.GeoPoint `json:"device,omitempty"`
	Route      *Route             `json:"route,omitempty"`
}

// RouteUpdated is emitted whenever a fresh path has been stored for a shipment.
type RouteUpdated struct {
	ShipmentID string    `json:"shipmentId"`
	Provider   string    `json:"provider"`
	Points     int       `json:"points"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
