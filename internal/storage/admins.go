package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// NormalizeEmail lowercases and trims an email address. All storage and
// lookup paths use the normalized form, making emails case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint error.
// The extended error code for UNIQUE is 2067; 19 is the base constraint code.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == 2067 || (sqliteErr.Code()&0xFF) == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// CreateAdmin creates a new admin account.
// Returns ErrDuplicate if an admin with this email already exists.
func (s *SQLiteStorage) CreateAdmin(ctx context.Context, email, passwordHash, name, role string) (*Admin, error) {
	email = NormalizeEmail(email)

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO admins (email, password_hash, name, role) VALUES (?, ?, ?, ?)",
		email, passwordHash, name, role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return s.GetAdminByID(ctx, id)
}

// GetAdminByID retrieves an admin by ID.
// Returns ErrNotFound if the admin doesn't exist.
func (s *SQLiteStorage) GetAdminByID(ctx context.Context, id int64) (*Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, name, role, created_at FROM admins WHERE id = ?",
		id).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin by ID: %w", err)
	}
	return &a, nil
}

// GetAdminByEmail retrieves an admin by email (case-insensitive).
// Returns ErrNotFound if no admin has this email.
func (s *SQLiteStorage) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, name, role, created_at FROM admins WHERE email = ?",
		NormalizeEmail(email)).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return &a, nil
}

// ListAdmins returns all admin accounts ordered by creation time.
func (s *SQLiteStorage) ListAdmins(ctx context.Context) ([]*Admin, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, password_hash, name, role, created_at FROM admins ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var admins []*Admin
	for rows.Next() {
		var a Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin row: %w", err)
		}
		admins = append(admins, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}

	if admins == nil {
		admins = []*Admin{}
	}
	return admins, nil
}

// UpdateAdminRole changes an admin's role.
// The new role takes effect on the admin's next token refresh.
func (s *SQLiteStorage) UpdateAdminRole(ctx context.Context, id int64, role string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE admins SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return fmt.Errorf("failed to update admin role: %w", err)
	}
	return requireRowAffected(result, "update admin role")
}

// UpdateAdminPassword replaces an admin's password hash.
func (s *SQLiteStorage) UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE admins SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	return requireRowAffected(result, "update admin password")
}

// DeleteAdmin removes an admin account. The refresh_tokens cascade removes
// the admin's sessions and applications.reviewed_by references are set to
// NULL, so reviewed applications survive with the reviewer cleared.
func (s *SQLiteStorage) DeleteAdmin(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM admins WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	return requireRowAffected(result, "delete admin")
}

// requireRowAffected converts a zero-row write into ErrNotFound.
func requireRowAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
