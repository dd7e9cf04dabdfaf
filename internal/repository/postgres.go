package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetShipment loads a shipment and its stops ordered by sequence.
// It returns ErrShipmentNotFound when the shipment does not exist.
func (r *Repository) GetShipment(ctx context.Context, shipmentID string) (*models.Shipment, error) {
	shipment := models.Shipment{ID: shipmentID}
	query := `
		SELECT status_id
		FROM public.shipments
		WHERE shipment_id = $1;
	`

	err := r.db.QueryRow(ctx, query, shipmentID).Scan(&shipment.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment: %w", err)
	}

	stopsQuery := `
		SELECT stop_id, sequence, status_id, latitude, longitude
		FROM public.stops
		WHERE shipment_id = $1
		ORDER BY sequence ASC;
	`

	rows, err := r.db.Query(ctx, stopsQuery, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment stops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stop models.Stop
		if errScan := rows.Scan(
			&stop.ID, &stop.Sequence, &stop.Status, &stop.Location.Latitude, &stop.Location.Longitude,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan shipment stop: %w", errScan)
		}
		shipment.Stops = append(shipment.Stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Shipment loaded", "shipment", shipmentID, "stops", len(shipment.Stops))

	return &shipment, nil
}

// FetchActiveShipments retrieves shipments whose route should be refreshed.
// It returns shipments that are not delivered and have fewer than 5 failed routing attempts,
// least recently updated first, limited to the specified count. Stops are not loaded.
func (r *Repository) FetchActiveShipments(ctx context.Context, limit int) ([]models.Shipment, error) {
	var shipments []models.Shipment
	query := `
		SELECT shipment_id, status_id
		FROM public.shipments
		WHERE
			status_id NOT IN (2, 3)
			AND route_attempts < 5
		ORDER BY route_updated_at ASC NULLS FIRST
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active shipments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shipment models.Shipment
		if errScan := rows.Scan(&shipment.ID, &shipment.Status); errScan != nil {
			return nil, fmt.Errorf("failed to scan active shipment: %w", errScan)
		}
		shipments = append(shipments, shipment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return shipments, nil
}

// SaveRoutePath stores the routed path of a shipment and resets its failure state.
func (r *Repository) SaveRoutePath(ctx context.Context, shipmentID string, route models.Route) error {
	path, err := json.Marshal(route.Path)
	if err != nil {
		return fmt.Errorf("failed to encode route path: %w", err)
	}

	query := `
		UPDATE shipments
		SET
			route_path = $1,
			route_provider = $2,
			route_updated_at = $3,
			route_attempts = 0,
			route_error = NULL
		WHERE
			shipment_id = $4;
	`

	_, err = r.db.Exec(ctx, query, path, route.Provider, route.FetchedAt, shipmentID)
	if err != nil {
		return fmt.Errorf("failed to update route path: %w", err)
	}

	return nil
}

// IncrementRouteFailure increments the routing attempt count for a shipment
// and stores the latest error message.
func (r *Repository) IncrementRouteFailure(ctx context.Context, shipmentID string, errMsg string) error {
	query := `
		UPDATE shipments
		SET
			route_attempts = route_attempts + 1,
			route_error = $1
		WHERE shipment_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, shipmentID)
	if err != nil {
		return fmt.Errorf("failed to update routing error and number of attempts: %w", err)
	}

	return nil
}
