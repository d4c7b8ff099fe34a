package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ridgeline-transport/admin-api/internal/cache"
	"github.com/ridgeline-transport/admin-api/internal/storage"
)

// requestListKey builds the cache key for one inbox listing variant.
func requestListKey(f storage.RequestFilter) string {
	return cache.Key("requests", "list",
		"kind="+f.Kind,
		"status="+f.Status,
		"page="+strconv.Itoa(f.Page),
		"limit="+strconv.Itoa(f.Limit))
}

// HandleSubmitQuote accepts a freight quote request from the public site.
// POST /api/quotes
func (h *Handler) HandleSubmitQuote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		Phone          string `json:"phone"`
		OriginCity     string `json:"origin_city"`
		DestCity       string `json:"dest_city"`
		FreightDetails string `json:"freight_details"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.OriginCity == "" || req.DestCity == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest,
			"Name, email, origin and destination are required")
		return
	}

	created, err := h.store.CreateRequest(r.Context(), &storage.Request{
		Kind:           storage.RequestKindQuote,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		OriginCity:     req.OriginCity,
		DestCity:       req.DestCity,
		FreightDetails: req.FreightDetails,
	})
	if err != nil {
		h.logger.Error("failed to create quote request", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Unable to accept request")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("requests"))
	writeJSON(w, http.StatusCreated, map[string]any{"id": created.ID, "status": created.Status})
}

// HandleSubmitContact accepts a contact message from the public site.
// POST /api/contact
func (h *Handler) HandleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Name, email and message are required")
		return
	}

	created, err := h.store.CreateRequest(r.Context(), &storage.Request{
		Kind:    storage.RequestKindContact,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		h.logger.Error("failed to create contact request", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Unable to accept request")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("requests"))
	writeJSON(w, http.StatusCreated, map[string]any{"id": created.ID, "status": created.Status})
}

// HandleListRequests returns a page of the inbox.
// GET /admin/api/requests?kind=&status=&page=&limit=
func (h *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	f := storage.RequestFilter{
		Kind:   r.URL.Query().Get("kind"),
		Status: r.URL.Query().Get("status"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}

	requests, err := cache.GetCached(r.Context(), h.cache, requestListKey(f), requestListTTL,
		func(ctx context.Context) ([]*storage.Request, error) {
			return h.store.ListRequests(ctx, f)
		})
	if err != nil {
		h.logger.Error("failed to list requests", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list requests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"requests": requests, "page": f.Page, "limit": f.Limit})
}

// HandleUpdateRequestStatus moves an inbox entry through its workflow.
// PATCH /admin/api/requests/{id} {"status": ...}
func (h *Handler) HandleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	switch req.Status {
	case storage.RequestStatusNew, storage.RequestStatusContacted, storage.RequestStatusClosed:
	default:
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request status")
		return
	}

	if err := h.store.UpdateRequestStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Request not found")
			return
		}
		h.logger.Error("failed to update request", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to update request")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("requests"))
	h.audit(r, auditUpdate, "request", strconv.FormatInt(id, 10),
		map[string]any{"status": req.Status})
	writeJSON(w, http.StatusOK, map[string]any{"status": req.Status})
}

// HandleDeleteRequest removes an inbox entry.
// DELETE /admin/api/requests/{id}
func (h *Handler) HandleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteRequest(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Request not found")
			return
		}
		h.logger.Error("failed to delete request", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to delete request")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("requests"))
	h.audit(r, auditDelete, "request", strconv.FormatInt(id, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
