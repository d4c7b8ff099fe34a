package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateAuditLog appends one audit entry. The table is append-only; there is
// no update or delete path. Callers treat failures as non-fatal (logged,
// never propagated to the action that triggered the entry).
func (s *SQLiteStorage) CreateAuditLog(ctx context.Context, entry *AuditLog) error {
	var adminID any
	if entry.AdminID != nil {
		adminID = *entry.AdminID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_logs (admin_id, admin_email, action, resource_type, resource_id, details, ip_address, user_agent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		adminID, entry.AdminEmail, entry.Action, entry.ResourceType, entry.ResourceID,
		entry.Details, entry.IPAddress, entry.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns a page of the audit trail, newest first.
func (s *SQLiteStorage) ListAuditLogs(ctx context.Context, limit, offset int) ([]*AuditLog, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, admin_id, admin_email, action, resource_type, resource_id, details, ip_address, user_agent, created_at
		 FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	entries := []*AuditLog{}
	for rows.Next() {
		var e AuditLog
		var adminID sql.NullInt64
		if err := rows.Scan(&e.ID, &adminID, &e.AdminEmail, &e.Action, &e.ResourceType,
			&e.ResourceID, &e.Details, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		if adminID.Valid {
			v := adminID.Int64
			e.AdminID = &v
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}
	return entries, nil
}
