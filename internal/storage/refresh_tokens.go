package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateRefreshToken persists a new opaque refresh token.
// Returns ErrDuplicate if the token value already exists (vanishingly
// unlikely with 64 random bytes, but the UNIQUE constraint is checked).
func (s *SQLiteStorage) CreateRefreshToken(ctx context.Context, token string, adminID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (token, admin_id, expires_at) VALUES (?, ?, ?)",
		token, adminID, expiresAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken retrieves a refresh token row by its opaque value.
// The caller decides validity (expiry, revocation); this only looks it up.
// Returns ErrNotFound if no such token exists.
func (s *SQLiteStorage) GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	var rt RefreshToken
	var revokedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		"SELECT token, admin_id, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token = ?",
		token).
		Scan(&rt.Token, &rt.AdminID, &rt.ExpiresAt, &revokedAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		rt.RevokedAt = &t
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token revoked at the current time.
// Idempotent: revoking an already-revoked or unknown token is a no-op.
func (s *SQLiteStorage) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL",
		time.Now().UTC(), token)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeRefreshTokensForAdmin revokes every active token owned by an admin.
// Idempotent.
func (s *SQLiteStorage) RevokeRefreshTokensForAdmin(ctx context.Context, adminID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE admin_id = ? AND revoked_at IS NULL",
		time.Now().UTC(), adminID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for admin: %w", err)
	}
	return nil
}

// PurgeRefreshTokens deletes rows that stopped being usable before the
// given cutoff: expired rows, and rows revoked before the cutoff.
// Returns the number of rows removed.
func (s *SQLiteStorage) PurgeRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)",
		before.UTC(), before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get purge row count: %w", err)
	}
	return n, nil
}
