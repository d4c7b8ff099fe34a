package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ridgeline-transport/admin-api/internal/auth"
)

// HandleLogin authenticates an admin and starts a session.
// POST /admin/api/login {"email": ..., "password": ...}
//
// Both session cookies are set on success. Failures are uniform: the
// response never reveals whether the email exists.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	identity, err := h.tokens.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Warn("failed login attempt", "remote_addr", r.RemoteAddr)
			h.audit(r, auditLoginFailed, "session", "", map[string]any{"email": req.Email})
			WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password")
			return
		}
		h.logger.Error("login failed", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Login failed")
		return
	}

	access, err := h.tokens.IssueAccessToken(*identity)
	if err != nil {
		h.logger.Error("failed to issue access token", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Login failed")
		return
	}
	refresh, err := h.tokens.IssueRefreshToken(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("failed to issue refresh token", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Login failed")
		return
	}

	auth.SetAccessCookie(w, access, h.cookieSecure)
	auth.SetRefreshCookie(w, refresh, h.cookieSecure)

	// Attribute the audit entry to the fresh session.
	r = r.WithContext(auth.WithIdentity(r.Context(), *identity))
	h.audit(r, auditLogin, "session", "", nil)

	h.logger.Info("admin login", "admin_id", identity.ID)
	writeJSON(w, http.StatusOK, map[string]any{"admin": identity})
}

// HandleLogout revokes the current refresh token and clears cookies.
// POST /admin/api/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.RefreshCookieName); err == nil {
		if err := h.tokens.Revoke(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to revoke refresh token on logout", "error", err)
		}
	}
	auth.ClearSessionCookies(w, h.cookieSecure)
	h.audit(r, auditLogout, "session", "", nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "logged out"})
}

// HandleLogoutAll revokes every session of the calling admin.
// POST /admin/api/logout-all
func (h *Handler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, ErrCodeUnauthenticated, "Authentication required")
		return
	}

	if err := h.tokens.RevokeAll(r.Context(), identity.ID); err != nil {
		h.logger.Error("failed to revoke sessions", "admin_id", identity.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to revoke sessions")
		return
	}
	auth.ClearSessionCookies(w, h.cookieSecure)
	h.audit(r, auditLogoutAll, "session", "", nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "all sessions revoked"})
}

// HandleChangePassword rotates the calling admin's own password.
// POST /admin/api/me/password {"current_password": ..., "new_password": ...}
//
// The current password must be re-proven even with a valid session. Every
// session of the admin is revoked afterwards, so the caller logs in again
// with the new password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, ErrCodeUnauthenticated, "Authentication required")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	admin, err := h.store.GetAdminByID(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("failed to load admin for password change", "admin_id", identity.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to change password")
		return
	}
	if err := auth.VerifyPassword(req.CurrentPassword, admin.PasswordHash); err != nil {
		h.logger.Warn("password change with wrong current password", "admin_id", identity.ID)
		WriteError(w, http.StatusForbidden, ErrCodeInvalidCredentials, "Current password is incorrect")
		return
	}

	if msg := auth.ValidatePassword(req.NewPassword); msg != "" {
		WriteError(w, http.StatusBadRequest, ErrCodeWeakPassword, msg)
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to change password")
		return
	}

	if err := h.store.UpdateAdminPassword(r.Context(), identity.ID, hash); err != nil {
		h.logger.Error("failed to update password", "admin_id", identity.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to change password")
		return
	}

	// Old sessions could belong to whoever prompted the rotation.
	if err := h.tokens.RevokeAll(r.Context(), identity.ID); err != nil {
		h.logger.Error("failed to revoke sessions after password change", "admin_id", identity.ID, "error", err)
	}
	auth.ClearSessionCookies(w, h.cookieSecure)

	h.audit(r, auditPasswordChange, "admin", strconv.FormatInt(identity.ID, 10), nil)
	h.logger.Info("admin password changed", "admin_id", identity.ID)
	writeJSON(w, http.StatusOK, map[string]any{"status": "password changed"})
}

// HandleMe returns the calling admin's identity.
// GET /admin/api/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, ErrCodeUnauthenticated, "Authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"admin": identity})
}
