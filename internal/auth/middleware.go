package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ridgeline-transport/admin-api/internal/metrics"
)

// Cookie names for the session credentials.
const (
	// AccessCookieName carries the signed access token.
	AccessCookieName = "token"
	// RefreshCookieName carries the opaque refresh token.
	RefreshCookieName = "refreshToken"
)

// Middleware resolves the caller's identity from request cookies and
// enforces a minimum role on each request.
type Middleware struct {
	tokens       *TokenManager
	store        Storage
	logger       *slog.Logger
	cookieSecure bool
}

// NewMiddleware creates the authorization middleware.
func NewMiddleware(tokens *TokenManager, store Storage, logger *slog.Logger, cookieSecure bool) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{
		tokens:       tokens,
		store:        store,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

// RequireRole authenticates the request and enforces a minimum role.
//
// Resolution order: access-token cookie, then refresh-token cookie. A valid
// refresh token silently mints a new access token onto the response, so an
// active session slides past the 15-minute access window. The admin row is
// re-fetched on every request: deleted admins are locked out immediately and
// role changes take effect without waiting for re-login.
//
// Unauthenticated requests get 401; authenticated but under-privileged
// requests get 403. Pass RoleAny to accept any authenticated admin.
func (m *Middleware) RequireRole(min Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := m.resolveIdentity(w, r)
			if identity == nil {
				metrics.RecordAuthFailure("unauthenticated")
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
				return
			}

			// Re-resolve the account from the system of record; token
			// claims alone are never trusted for authorization.
			admin, err := m.store.GetAdminByID(r.Context(), identity.ID)
			if err != nil {
				metrics.RecordAuthFailure("unknown_admin")
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
				return
			}

			current := Identity{ID: admin.ID, Email: admin.Email, Role: Role(admin.Role)}
			if !current.Role.Meets(min) {
				metrics.RecordAuthFailure("forbidden")
				writeAuthError(w, http.StatusForbidden, "forbidden", "Insufficient privileges")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), current)))
		})
	}
}

// resolveIdentity tries the access cookie, then falls back to the refresh
// cookie, re-issuing the access cookie on a successful refresh. Returns nil
// if neither path yields a valid identity.
func (m *Middleware) resolveIdentity(w http.ResponseWriter, r *http.Request) *Identity {
	if cookie, err := r.Cookie(AccessCookieName); err == nil {
		if id, err := m.tokens.VerifyAccessToken(cookie.Value); err == nil {
			return id
		}
	}

	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return nil
	}

	id, err := m.tokens.VerifyRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}

	// Sliding renewal. Two concurrent requests may both refresh; both
	// resulting access tokens are valid, so the race is benign.
	access, err := m.tokens.IssueAccessToken(*id)
	if err != nil {
		m.logger.Error("failed to mint access token during refresh", "error", err)
		return nil
	}
	SetAccessCookie(w, access, m.cookieSecure)

	return id
}

// SetAccessCookie attaches the access-token cookie. Its MaxAge matches the
// token's own 15-minute expiry.
func SetAccessCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(AccessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetRefreshCookie attaches the refresh-token cookie with a 7-day lifetime.
func SetRefreshCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookies expires both session cookies on the response.
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// writeAuthError emits the same JSON error envelope the admin API uses.
// Duplicated here rather than imported to keep auth free of handler deps.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{Error: code, Message: message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Response already started, nothing we can do
		_ = err
	}
}
