// Package auth issues, verifies, and revokes admin session credentials and
// enforces role-based access on admin routes.
//
// Two credentials back a session: a short-lived signed access token (JWT,
// HS256) carried in a cookie and never persisted, and a long-lived opaque
// refresh token persisted server-side and exchangeable for fresh access
// tokens. Revoking the refresh token ends the session within the access
// token's 15-minute window.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ridgeline-transport/admin-api/internal/storage"
)

const (
	// AccessTokenTTL bounds how long a signed access token is honored.
	// The cookie carrying it uses the same lifetime.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the absolute lifetime of a refresh token.
	RefreshTokenTTL = 7 * 24 * time.Hour

	refreshTokenBytes = 64
	minSigningKeyLen  = 32
)

var (
	// ErrInvalidCredentials is returned for any email/password mismatch.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken is returned for any unusable token: malformed,
	// expired, revoked, bad signature, or owner no longer exists.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrShortSigningKey is returned by NewTokenManager for keys under 32 bytes.
	ErrShortSigningKey = errors.New("auth: signing key must be at least 32 bytes")
)

// dummyHash is compared against on unknown-email logins so both failure
// paths cost one bcrypt verification.
var dummyHash = sync.OnceValue(func() string {
	h, _ := HashPassword("not-a-real-password") //nolint:errcheck
	return h
})

// Identity is the authenticated caller attached to each request.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Storage is the subset of persistence operations the token manager needs.
type Storage interface {
	GetAdminByID(ctx context.Context, id int64) (*storage.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*storage.Admin, error)
	CreateRefreshToken(ctx context.Context, token string, adminID int64, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*storage.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeRefreshTokensForAdmin(ctx context.Context, adminID int64) error
}

// accessClaims is the JWT payload for access tokens.
type accessClaims struct {
	AdminID int64  `json:"aid"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies session credentials.
type TokenManager struct {
	signingKey []byte
	store      Storage
	now        func() time.Time
}

// NewTokenManager creates a TokenManager.
// A missing or short signing key is a configuration error the caller should
// treat as fatal at startup.
func NewTokenManager(signingKey []byte, store Storage) (*TokenManager, error) {
	if len(signingKey) < minSigningKeyLen {
		return nil, ErrShortSigningKey
	}
	return &TokenManager{
		signingKey: signingKey,
		store:      store,
		now:        time.Now,
	}, nil
}

// Authenticate verifies an email/password pair against the stored credential.
// On success it returns the admin's current identity; on any mismatch it
// returns ErrInvalidCredentials without revealing which part failed.
func (tm *TokenManager) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	admin, err := tm.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Burn comparable time so unknown emails are not
			// distinguishable from wrong passwords by latency.
			_ = VerifyPassword(password, dummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if VerifyPassword(password, admin.PasswordHash) != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{ID: admin.ID, Email: admin.Email, Role: Role(admin.Role)}, nil
}

// IssueAccessToken signs a short-lived access token embedding the identity.
func (tm *TokenManager) IssueAccessToken(id Identity) (string, error) {
	now := tm.now()
	claims := accessClaims{
		AdminID: id.ID,
		Email:   id.Email,
		Role:    string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.signingKey)
}

// VerifyAccessToken checks a token's signature and expiry.
// Any failure, including malformed input, yields ErrInvalidToken.
func (tm *TokenManager) VerifyAccessToken(tokenStr string) (*Identity, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.signingKey, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: claims.AdminID, Email: claims.Email, Role: Role(claims.Role)}, nil
}

// IssueRefreshToken generates an opaque refresh token for an admin and
// persists it with a 7-day absolute expiry. The raw value is returned once
// and cannot be re-derived from storage.
func (tm *TokenManager) IssueRefreshToken(ctx context.Context, adminID int64) (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	if err := tm.store.CreateRefreshToken(ctx, token, adminID, tm.now().Add(RefreshTokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// VerifyRefreshToken validates an opaque refresh token and returns its
// owner's current identity. The role comes from the admin row, not from
// issuance time, so role changes take effect on the next refresh.
// Any failure yields ErrInvalidToken.
func (tm *TokenManager) VerifyRefreshToken(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	rt, err := tm.store.GetRefreshToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if rt.RevokedAt != nil || !tm.now().Before(rt.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	admin, err := tm.store.GetAdminByID(ctx, rt.AdminID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: admin.ID, Email: admin.Email, Role: Role(admin.Role)}, nil
}

// Revoke marks a refresh token revoked. Idempotent.
func (tm *TokenManager) Revoke(ctx context.Context, token string) error {
	return tm.store.RevokeRefreshToken(ctx, token)
}

// RevokeAll revokes every active refresh token owned by an admin. Idempotent.
func (tm *TokenManager) RevokeAll(ctx context.Context, adminID int64) error {
	return tm.store.RevokeRefreshTokensForAdmin(ctx, adminID)
}
