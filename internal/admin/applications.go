package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ridgeline-transport/admin-api/internal/auth"
	"github.com/ridgeline-transport/admin-api/internal/cache"
	"github.com/ridgeline-transport/admin-api/internal/storage"
)

type applicationResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ExperienceYears int    `json:"experience_years"`
	CDLClass        string `json:"cdl_class"`
	HasSSN          bool   `json:"has_ssn"`
	Status          string `json:"status"`
	ReviewedBy      *int64 `json:"reviewed_by"`
	Notes           string `json:"notes"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// toApplicationResponse converts a storage row for API output.
// The encrypted national ID never leaves the server through listings; only
// the dedicated reveal endpoint returns the plaintext.
func toApplicationResponse(app *storage.Application) applicationResponse {
	return applicationResponse{
		ID:              app.ID,
		Name:            app.Name,
		Email:           app.Email,
		Phone:           app.Phone,
		ExperienceYears: app.ExperienceYears,
		CDLClass:        app.CDLClass,
		HasSSN:          app.SSNEncrypted != "",
		Status:          app.Status,
		ReviewedBy:      app.ReviewedBy,
		Notes:           app.Notes,
		CreatedAt:       app.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       app.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// applicationListKey builds the cache key for one listing variant. Every
// filter dimension participates so distinct pages never alias.
func applicationListKey(f storage.ApplicationFilter) string {
	return cache.Key("applications", "list",
		"status="+f.Status,
		"search="+f.Search,
		"page="+strconv.Itoa(f.Page),
		"limit="+strconv.Itoa(f.Limit))
}

// HandleSubmitApplication accepts a driver application from the public site.
// POST /api/applications
func (h *Handler) HandleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		ExperienceYears int    `json:"experience_years"`
		CDLClass        string `json:"cdl_class"`
		SSN             string `json:"ssn"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Name and email are required")
		return
	}

	app := &storage.Application{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ExperienceYears: req.ExperienceYears,
		CDLClass:        req.CDLClass,
	}

	if req.SSN != "" {
		sealed, err := storage.EncryptField(req.SSN, h.fieldKey)
		if err != nil {
			if errors.Is(err, storage.ErrMissingKey) {
				h.logger.Error("application submitted with SSN but no field encryption key is configured")
				WriteError(w, http.StatusInternalServerError, ErrCodeNotConfigured, "Unable to accept application")
				return
			}
			h.logger.Error("failed to encrypt applicant SSN", "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Unable to accept application")
			return
		}
		app.SSNEncrypted = sealed
	}

	created, err := h.store.CreateApplication(r.Context(), app)
	if err != nil {
		h.logger.Error("failed to create application", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Unable to accept application")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("applications"))
	writeJSON(w, http.StatusCreated, map[string]any{"id": created.ID, "status": created.Status})
}

// HandleListApplications returns a filtered, paginated application listing.
// GET /admin/api/applications?status=&search=&page=&limit=
func (h *Handler) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	f := storage.ApplicationFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}

	apps, err := cache.GetCached(r.Context(), h.cache, applicationListKey(f), applicationListTTL,
		func(ctx context.Context) ([]*storage.Application, error) {
			return h.store.ListApplications(ctx, f)
		})
	if err != nil {
		h.logger.Error("failed to list applications", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list applications")
		return
	}

	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": out, "page": f.Page, "limit": f.Limit})
}

// HandleGetApplication returns one application.
// GET /admin/api/applications/{id}
func (h *Handler) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	app, err := h.store.GetApplication(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Application not found")
			return
		}
		h.logger.Error("failed to get application", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to get application")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"application": toApplicationResponse(app)})
}

// HandleReviewApplication records a review decision.
// PATCH /admin/api/applications/{id} {"status": ..., "notes": ...}
func (h *Handler) HandleReviewApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	switch req.Status {
	case storage.ApplicationStatusNew, storage.ApplicationStatusReviewing,
		storage.ApplicationStatusApproved, storage.ApplicationStatusRejected:
	default:
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid application status")
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	err := h.store.UpdateApplicationReview(r.Context(), id, req.Status, identity.ID, req.Notes)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Application not found")
			return
		}
		h.logger.Error("failed to review application", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to update application")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("applications"))
	h.audit(r, auditReview, "application", strconv.FormatInt(id, 10),
		map[string]any{"status": req.Status})
	writeJSON(w, http.StatusOK, map[string]any{"status": req.Status})
}

// HandleRevealSSN decrypts an applicant's national ID for a privileged viewer.
// POST /admin/api/applications/{id}/ssn {"password": ...}
//
// Step-up check: the caller re-proves their password even though the route is
// already SUPER_ADMIN-gated, so a hijacked session cannot read SSNs silently.
// Every reveal lands in the audit trail.
func (h *Handler) HandleRevealSSN(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, ErrCodeUnauthenticated, "Authentication required")
		return
	}
	if _, err := h.tokens.Authenticate(r.Context(), identity.Email, req.Password); err != nil {
		WriteError(w, http.StatusForbidden, ErrCodeForbidden, "Password confirmation failed")
		return
	}

	app, err := h.store.GetApplication(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Application not found")
			return
		}
		h.logger.Error("failed to get application", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to get application")
		return
	}
	if app.SSNEncrypted == "" {
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Application has no SSN on file")
		return
	}

	plain, err := storage.DecryptField(app.SSNEncrypted, h.fieldKey)
	if err != nil {
		if errors.Is(err, storage.ErrMissingKey) {
			WriteError(w, http.StatusInternalServerError, ErrCodeNotConfigured, "Field encryption is not configured")
			return
		}
		h.logger.Error("failed to decrypt applicant SSN", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to decrypt field")
		return
	}

	h.audit(r, auditSSNReveal, "application", strconv.FormatInt(id, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"ssn": plain})
}

// HandleDeleteApplication removes an application entirely.
// DELETE /admin/api/applications/{id}
func (h *Handler) HandleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteApplication(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Application not found")
			return
		}
		h.logger.Error("failed to delete application", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to delete application")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("applications"))
	h.audit(r, auditDelete, "application", strconv.FormatInt(id, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
