package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateRequest stores an inbound quote or contact request from the public site.
func (s *SQLiteStorage) CreateRequest(ctx context.Context, req *Request) (*Request, error) {
	status := req.Status
	if status == "" {
		status = RequestStatusNew
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (kind, name, email, phone, origin_city, dest_city, freight_details, message, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Kind, req.Name, NormalizeEmail(req.Email), req.Phone,
		req.OriginCity, req.DestCity, req.FreightDetails, req.Message, status)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}
	return s.GetRequest(ctx, id)
}

// GetRequest retrieves one inbox entry by ID.
// Returns ErrNotFound if it doesn't exist.
func (s *SQLiteStorage) GetRequest(ctx context.Context, id int64) (*Request, error) {
	var r Request
	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, name, email, phone, origin_city, dest_city, freight_details,
		        message, status, created_at, updated_at
		 FROM requests WHERE id = ?`, id).
		Scan(&r.ID, &r.Kind, &r.Name, &r.Email, &r.Phone, &r.OriginCity, &r.DestCity,
			&r.FreightDetails, &r.Message, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &r, nil
}

// ListRequests returns a page of the inbox, newest first.
func (s *SQLiteStorage) ListRequests(ctx context.Context, f RequestFilter) ([]*Request, error) {
	query := `SELECT id, kind, name, email, phone, origin_city, dest_city, freight_details,
	                 message, status, created_at, updated_at
	          FROM requests`
	var conds []string
	var args []any

	if f.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	requests := []*Request{}
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.Kind, &r.Name, &r.Email, &r.Phone, &r.OriginCity,
			&r.DestCity, &r.FreightDetails, &r.Message, &r.Status,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}
	return requests, nil
}

// UpdateRequestStatus moves an inbox entry through its workflow.
func (s *SQLiteStorage) UpdateRequestStatus(ctx context.Context, id int64, status string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return requireRowAffected(result, "update request status")
}

// DeleteRequest removes an inbox entry.
func (s *SQLiteStorage) DeleteRequest(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM requests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return requireRowAffected(result, "delete request")
}
