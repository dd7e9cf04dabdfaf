package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/nats-io/nats.go"
)

// SubjectRouteUpdated is the subject prefix for route update events; the shipment ID is appended.
const SubjectRouteUpdated = "compass.route.updated."

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// Publisher emits route events over NATS.
type Publisher struct {
	conn Conn
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("compass"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return NewPublisherWithConn(conn), nil
}

// NewPublisherWithConn wraps an existing connection.
func NewPublisherWithConn(conn Conn) *Publisher {
	return &Publisher{conn: conn}
}

// PublishRouteUpdated announces that a new path was stored for a shipment.
func (p *Publisher) PublishRouteUpdated(_ context.Context, event models.RouteUpdated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode route event: %w", err)
	}

	if err = p.conn.Publish(SubjectRouteUpdated+event.ShipmentID, data); err != nil {
		return fmt.Errorf("publish route event: %w", err)
	}

	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Noop discards events. It is used when no NATS server is configured.
type Noop struct{}

func (Noop) PublishRouteUpdated(context.Context, models.RouteUpdated) error { return nil }

func (Noop) Close() {}
