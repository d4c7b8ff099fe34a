package admin

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/ridgeline-transport/admin-api/internal/auth"
	"github.com/ridgeline-transport/admin-api/internal/storage"
)

// Audit actions.
const (
	auditLogin          = "LOGIN"
	auditLoginFailed    = "LOGIN_FAILED"
	auditLogout         = "LOGOUT"
	auditLogoutAll      = "LOGOUT_ALL"
	auditPasswordChange = "PASSWORD_CHANGE"
	auditReview         = "APPLICATION_REVIEW"
	auditSSNReveal      = "SSN_REVEAL"
	auditDelete         = "DELETE"
	auditCreate         = "CREATE"
	auditUpdate         = "UPDATE"
	auditRoleChange     = "ROLE_CHANGE"
	auditSessionsRevoke = "SESSIONS_REVOKE"
)

// audit appends an audit entry for the current request. Best-effort by
// contract: failures are logged and never propagate to the caller, so an
// audit outage cannot abort the action being audited.
func (h *Handler) audit(r *http.Request, action, resourceType, resourceID string, details map[string]any) {
	entry := &storage.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    clientIP(r),
		UserAgent:    r.UserAgent(),
	}

	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		adminID := id.ID
		entry.AdminID = &adminID
		entry.AdminEmail = id.Email
	}

	if details != nil {
		if payload, err := json.Marshal(details); err == nil {
			entry.Details = string(payload)
		}
	}

	if err := h.store.CreateAuditLog(r.Context(), entry); err != nil {
		h.logger.Error("audit log write failed", "action", action, "error", err)
	}
}

// clientIP extracts the caller's address, preferring X-Forwarded-For when a
// proxy set it.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// HandleListAuditLogs returns a page of the audit trail.
// GET /admin/api/audit?limit=&offset=
func (h *Handler) HandleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	entries, err := h.store.ListAuditLogs(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list audit logs", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": toAuditResponses(entries)})
}

type auditResponse struct {
	ID           int64  `json:"id"`
	AdminID      *int64 `json:"admin_id"`
	AdminEmail   string `json:"admin_email"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Details      string `json:"details"`
	IPAddress    string `json:"ip_address"`
	UserAgent    string `json:"user_agent"`
	CreatedAt    string `json:"created_at"`
}

func toAuditResponses(entries []*storage.AuditLog) []auditResponse {
	out := make([]auditResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditResponse{
			ID:           e.ID,
			AdminID:      e.AdminID,
			AdminEmail:   e.AdminEmail,
			Action:       e.Action,
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			Details:      e.Details,
			IPAddress:    e.IPAddress,
			UserAgent:    e.UserAgent,
			CreatedAt:    e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}
