package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateTruck adds a truck to the fleet.
// Returns ErrDuplicate if the unit number is already taken.
func (s *SQLiteStorage) CreateTruck(ctx context.Context, truck *Truck) (*Truck, error) {
	status := truck.Status
	if status == "" {
		status = TruckStatusActive
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO trucks (unit_number, make, model, year, vin, mileage, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		truck.UnitNumber, truck.Make, truck.Model, truck.Year, truck.VIN, truck.Mileage, status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create truck: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}
	return s.GetTruck(ctx, id)
}

// GetTruck retrieves a truck by ID.
// Returns ErrNotFound if it doesn't exist.
func (s *SQLiteStorage) GetTruck(ctx context.Context, id int64) (*Truck, error) {
	var t Truck
	err := s.db.QueryRowContext(ctx,
		`SELECT id, unit_number, make, model, year, vin, mileage, status, created_at, updated_at
		 FROM trucks WHERE id = ?`, id).
		Scan(&t.ID, &t.UnitNumber, &t.Make, &t.Model, &t.Year, &t.VIN, &t.Mileage,
			&t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get truck: %w", err)
	}
	return &t, nil
}

// ListTrucks returns the whole fleet ordered by unit number.
func (s *SQLiteStorage) ListTrucks(ctx context.Context) ([]*Truck, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, unit_number, make, model, year, vin, mileage, status, created_at, updated_at
		 FROM trucks ORDER BY unit_number ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trucks: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	trucks := []*Truck{}
	for rows.Next() {
		var t Truck
		if err := rows.Scan(&t.ID, &t.UnitNumber, &t.Make, &t.Model, &t.Year, &t.VIN,
			&t.Mileage, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan truck row: %w", err)
		}
		trucks = append(trucks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trucks: %w", err)
	}
	return trucks, nil
}

// UpdateTruck replaces a truck's mutable fields.
// Returns ErrDuplicate if the new unit number collides with another truck.
func (s *SQLiteStorage) UpdateTruck(ctx context.Context, truck *Truck) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE trucks SET unit_number = ?, make = ?, model = ?, year = ?, vin = ?,
		        mileage = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		truck.UnitNumber, truck.Make, truck.Model, truck.Year, truck.VIN,
		truck.Mileage, truck.Status, truck.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update truck: %w", err)
	}
	return requireRowAffected(result, "update truck")
}

// DeleteTruck removes a truck; its oil-change log cascades away with it.
func (s *SQLiteStorage) DeleteTruck(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM trucks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete truck: %w", err)
	}
	return requireRowAffected(result, "delete truck")
}

// AddOilChange appends a maintenance entry to a truck's log and bumps the
// truck's recorded mileage if the entry is newer.
func (s *SQLiteStorage) AddOilChange(ctx context.Context, oc *OilChange) (*OilChange, error) {
	// Validate the truck exists first for a clean ErrNotFound
	if _, err := s.GetTruck(ctx, oc.TruckID); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO oil_changes (truck_id, mileage, performed_at, notes) VALUES (?, ?, ?, ?)",
		oc.TruckID, oc.Mileage, oc.PerformedAt.UTC(), oc.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to add oil change: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE trucks SET mileage = MAX(mileage, ?), updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		oc.Mileage, oc.TruckID)
	if err != nil {
		return nil, fmt.Errorf("failed to update truck mileage: %w", err)
	}

	var created OilChange
	err = s.db.QueryRowContext(ctx,
		"SELECT id, truck_id, mileage, performed_at, notes, created_at FROM oil_changes WHERE id = ?", id).
		Scan(&created.ID, &created.TruckID, &created.Mileage, &created.PerformedAt,
			&created.Notes, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read back oil change: %w", err)
	}
	return &created, nil
}

// ListOilChanges returns a truck's maintenance log, newest first.
func (s *SQLiteStorage) ListOilChanges(ctx context.Context, truckID int64) ([]*OilChange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, truck_id, mileage, performed_at, notes, created_at
		 FROM oil_changes WHERE truck_id = ? ORDER BY performed_at DESC, id DESC`, truckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query oil changes: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	changes := []*OilChange{}
	for rows.Next() {
		var oc OilChange
		if err := rows.Scan(&oc.ID, &oc.TruckID, &oc.Mileage, &oc.PerformedAt,
			&oc.Notes, &oc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan oil change row: %w", err)
		}
		changes = append(changes, &oc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating oil changes: %w", err)
	}
	return changes, nil
}

// DeleteOilChange removes one maintenance entry.
func (s *SQLiteStorage) DeleteOilChange(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM oil_changes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete oil change: %w", err)
	}
	return requireRowAffected(result, "delete oil change")
}
