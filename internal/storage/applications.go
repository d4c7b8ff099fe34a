package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const defaultPageSize = 20

// CreateApplication stores a new driver application.
// The caller is responsible for sealing the national ID into SSNEncrypted
// before handing the application over; this layer never sees the plaintext.
func (s *SQLiteStorage) CreateApplication(ctx context.Context, app *Application) (*Application, error) {
	status := app.Status
	if status == "" {
		status = ApplicationStatusNew
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO applications (name, email, phone, experience_years, cdl_class, ssn_encrypted, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		app.Name, NormalizeEmail(app.Email), app.Phone, app.ExperienceYears,
		app.CDLClass, app.SSNEncrypted, status, app.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}
	return s.GetApplication(ctx, id)
}

// GetApplication retrieves an application by ID.
// Returns ErrNotFound if it doesn't exist.
func (s *SQLiteStorage) GetApplication(ctx context.Context, id int64) (*Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, experience_years, cdl_class, ssn_encrypted,
		        status, reviewed_by, notes, created_at, updated_at
		 FROM applications WHERE id = ?`, id)
	app, err := scanApplication(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications returns a page of applications, newest first.
// Every filter dimension participates in the query so results line up with
// the cache keys built from the same filter.
func (s *SQLiteStorage) ListApplications(ctx context.Context, f ApplicationFilter) ([]*Application, error) {
	query := `SELECT id, name, email, phone, experience_years, cdl_class, ssn_encrypted,
	                 status, reviewed_by, notes, created_at, updated_at
	          FROM applications`
	var conds []string
	var args []any

	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.Search != "" {
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)")
		like := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, like, like)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	apps := []*Application{}
	for rows.Next() {
		app, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationReview records a review decision on an application.
func (s *SQLiteStorage) UpdateApplicationReview(ctx context.Context, id int64, status string, reviewedBy int64, notes string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE applications SET status = ?, reviewed_by = ?, notes = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, reviewedBy, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update application review: %w", err)
	}
	return requireRowAffected(result, "update application review")
}

// DeleteApplication removes an application and its encrypted payload.
func (s *SQLiteStorage) DeleteApplication(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return requireRowAffected(result, "delete application")
}

func scanApplication(scan func(...any) error) (*Application, error) {
	var app Application
	var reviewedBy sql.NullInt64
	err := scan(&app.ID, &app.Name, &app.Email, &app.Phone, &app.ExperienceYears,
		&app.CDLClass, &app.SSNEncrypted, &app.Status, &reviewedBy, &app.Notes,
		&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if reviewedBy.Valid {
		v := reviewedBy.Int64
		app.ReviewedBy = &v
	}
	return &app, nil
}

// pageBounds converts 1-based page/limit into LIMIT/OFFSET values.
func pageBounds(page, limit int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if page <= 1 {
		return limit, 0
	}
	return limit, (page - 1) * limit
}
