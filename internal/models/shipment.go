package models

import "github.com/UnknownOlympus/compass/internal/viewport"

// StopStatus is the lifecycle state of a single shipment stop.
type StopStatus int

// Stop statuses as stored by the dispatch backend.
const (
	StopStatusPending  StopStatus = 0
	StopStatusArrived  StopStatus = 1
	StopStatusComplete StopStatus = 2
)

// ShipmentStatus is the lifecycle state of a shipment.
type ShipmentStatus int

// Shipment statuses as stored by the dispatch backend.
const (
	ShipmentStatusBooked            ShipmentStatus = 0
	ShipmentStatusInTransit         ShipmentStatus = 1
	ShipmentStatusDelivered         ShipmentStatus = 2
	ShipmentStatusDeliveryConfirmed ShipmentStatus = 3
)

// Stop represents a pickup or drop-off point of a shipment.
type Stop struct {
	ID       int               `json:"id"`       // ID is the unique identifier for the stop.
	Sequence int               `json:"sequence"` // Sequence is the position of the stop within the shipment.
	Status   StopStatus        `json:"status"`   // Status is the current stop status.
	Location viewport.GeoPoint `json:"location"` // Location is where the stop is.
}

// Shipment represents a load with its ordered stops.
type Shipment struct {
	ID     string         `json:"id"`
	Status ShipmentStatus `json:"status"`
	Stops  []Stop         `json:"stops"`
}

// Leg is a pair of consecutive stops the driver is currently travelling between.
type Leg struct {
	From Stop `json:"from"`
	To   Stop `json:"to"`
}

// Points returns the leg endpoints in travel order.
func (l Leg) Points() []viewport.GeoPoint {
	return []viewport.GeoPoint{l.From.Location, l.To.Location}
}

// Delivered reports whether the shipment no longer has any leg to drive.
func (s *Shipment) Delivered() bool {
	return s.Status == ShipmentStatusDelivered || s.Status == ShipmentStatusDeliveryConfirmed
}

// ActiveLeg returns the leg that starts at the first stop which is not complete.
// The second return value is false when the shipment is delivered, every stop is
// complete, or the first open stop is the last one.
func (s *Shipment) ActiveLeg() (Leg, bool) {
	if s.Delivered() {
		return Leg{}, false
	}

	for i, stop := range s.Stops {
		if stop.Status == StopStatusComplete {
			continue
		}
		if i+1 >= len(s.Stops) {
			return Leg{}, false
		}

		return Leg{From: stop, To: s.Stops[i+1]}, true
	}

	return Leg{}, false
}

// Locations returns the location of every stop in sequence order.
func (s *Shipment) Locations() []viewport.GeoPoint {
	points := make([]viewport.GeoPoint, 0, len(s.Stops))
	for _, stop := range s.Stops {
		points = append(points, stop.Location)
	}

	return points
}
