package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ridgeline-transport/admin-api/internal/auth"
	"github.com/ridgeline-transport/admin-api/internal/storage"
)

type adminResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func toAdminResponse(a *storage.Admin) adminResponse {
	return adminResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		CreatedAt: a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// HandleListAdmins lists all admin accounts. Password hashes never leave storage.
// GET /admin/api/admins
func (h *Handler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.store.ListAdmins(r.Context())
	if err != nil {
		h.logger.Error("failed to list admins", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list admins")
		return
	}

	out := make([]adminResponse, 0, len(admins))
	for _, a := range admins {
		out = append(out, toAdminResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"admins": out})
}

// HandleCreateAdmin creates a new admin account.
// POST /admin/api/admins {"email": ..., "password": ..., "name": ..., "role": ...}
func (h *Handler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Email is required")
		return
	}
	if !auth.Role(req.Role).Valid() {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid role")
		return
	}
	if msg := auth.ValidatePassword(req.Password); msg != "" {
		WriteError(w, http.StatusBadRequest, ErrCodeWeakPassword, msg)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to create admin")
		return
	}

	created, err := h.store.CreateAdmin(r.Context(), req.Email, hash, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			WriteError(w, http.StatusConflict, ErrCodeDuplicate, "An admin with this email already exists")
			return
		}
		h.logger.Error("failed to create admin", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to create admin")
		return
	}

	h.audit(r, auditCreate, "admin", strconv.FormatInt(created.ID, 10),
		map[string]any{"email": created.Email, "role": created.Role})
	writeJSON(w, http.StatusCreated, map[string]any{"admin": toAdminResponse(created)})
}

// HandleUpdateAdminRole changes an admin's role. The change takes effect on
// the target's next token refresh, within the access token's 15-minute window.
// PATCH /admin/api/admins/{id}/role {"role": ...}
func (h *Handler) HandleUpdateAdminRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !auth.Role(req.Role).Valid() {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid role")
		return
	}

	if err := h.store.UpdateAdminRole(r.Context(), id, req.Role); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Admin not found")
			return
		}
		h.logger.Error("failed to update admin role", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to update role")
		return
	}

	h.audit(r, auditRoleChange, "admin", strconv.FormatInt(id, 10),
		map[string]any{"role": req.Role})
	writeJSON(w, http.StatusOK, map[string]any{"role": req.Role})
}

// HandleDeleteAdmin removes an admin account. Self-deletion is refused so
// the portal cannot lock out its last operator by accident. Applications the
// admin reviewed keep their data with the reviewer reference cleared.
// DELETE /admin/api/admins/{id}
func (h *Handler) HandleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	if identity.ID == id {
		WriteError(w, http.StatusBadRequest, ErrCodeCannotDeleteSelf, "You cannot delete your own account")
		return
	}

	if err := h.store.DeleteAdmin(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Admin not found")
			return
		}
		h.logger.Error("failed to delete admin", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to delete admin")
		return
	}

	h.audit(r, auditDelete, "admin", strconv.FormatInt(id, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// HandleRevokeAdminSessions revokes every session of a target admin, forcing
// re-login once their current access token expires.
// POST /admin/api/admins/{id}/revoke-sessions
func (h *Handler) HandleRevokeAdminSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.store.GetAdminByID(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Admin not found")
			return
		}
		h.logger.Error("failed to get admin", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to revoke sessions")
		return
	}

	if err := h.tokens.RevokeAll(r.Context(), id); err != nil {
		h.logger.Error("failed to revoke sessions", "admin_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to revoke sessions")
		return
	}

	h.audit(r, auditSessionsRevoke, "admin", strconv.FormatInt(id, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "sessions revoked"})
}
