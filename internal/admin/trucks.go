package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ridgeline-transport/admin-api/internal/cache"
	"github.com/ridgeline-transport/admin-api/internal/storage"
)

const truckListCacheKey = "trucks:list:all"

type truckRequest struct {
	UnitNumber string `json:"unit_number"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	VIN        string `json:"vin"`
	Mileage    int64  `json:"mileage"`
	Status     string `json:"status"`
}

func (req *truckRequest) validate() string {
	if req.UnitNumber == "" {
		return "Unit number is required"
	}
	switch req.Status {
	case "", storage.TruckStatusActive, storage.TruckStatusInShop, storage.TruckStatusRetired:
		return ""
	}
	return "Invalid truck status"
}

// HandleListTrucks returns the fleet.
// GET /admin/api/trucks
func (h *Handler) HandleListTrucks(w http.ResponseWriter, r *http.Request) {
	trucks, err := cache.GetCached(r.Context(), h.cache, truckListCacheKey, truckListTTL,
		func(ctx context.Context) ([]*storage.Truck, error) {
			return h.store.ListTrucks(ctx)
		})
	if err != nil {
		h.logger.Error("failed to list trucks", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list trucks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trucks": trucks})
}

// HandleGetTruck returns one truck with its oil-change log.
// GET /admin/api/trucks/{id}
func (h *Handler) HandleGetTruck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	truck, err := h.store.GetTruck(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Truck not found")
			return
		}
		h.logger.Error("failed to get truck", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to get truck")
		return
	}

	oilChanges, err := h.store.ListOilChanges(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list oil changes", "truck_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to get truck")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"truck": truck, "oil_changes": oilChanges})
}

// HandleCreateTruck adds a truck to the fleet.
// POST /admin/api/trucks
func (h *Handler) HandleCreateTruck(w http.ResponseWriter, r *http.Request) {
	var req truckRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return
	}

	truck, err := h.store.CreateTruck(r.Context(), &storage.Truck{
		UnitNumber: req.UnitNumber,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		VIN:        req.VIN,
		Mileage:    req.Mileage,
		Status:     req.Status,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			WriteError(w, http.StatusConflict, ErrCodeDuplicate, "Unit number already in use")
			return
		}
		h.logger.Error("failed to create truck", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to create truck")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("trucks"))
	h.audit(r, auditCreate, "truck", strconv.FormatInt(truck.ID, 10),
		map[string]any{"unit_number": truck.UnitNumber})
	writeJSON(w, http.StatusCreated, map[string]any{"truck": truck})
}

// HandleUpdateTruck replaces a truck's mutable fields.
// PUT /admin/api/trucks/{id}
func (h *Handler) HandleUpdateTruck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req truckRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return
	}
	if req.Status == "" {
		req.Status = storage.TruckStatusActive
	}

	err := h.store.UpdateTruck(r.Context(), &storage.Truck{
		ID:         id,
		UnitNumber: req.UnitNumber,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		VIN:        req.VIN,
		Mileage:    req.Mileage,
		Status:     req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Truck not found")
		case errors.Is(err, storage.ErrDuplicate):
			WriteError(w, http.StatusConflict, ErrCodeDuplicate, "Unit number already in use")
		default:
			h.logger.Error("failed to update truck", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to update truck")
		}
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("trucks"))
	h.audit(r, auditUpdate, "truck", strconv.FormatInt(id, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
}

// HandleDeleteTruck removes a truck and its maintenance log.
// DELETE /admin/api/trucks/{id}
func (h *Handler) HandleDeleteTruck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteTruck(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Truck not found")
			return
		}
		h.logger.Error("failed to delete truck", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to delete truck")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("trucks"))
	h.audit(r, auditDelete, "truck", strconv.FormatInt(id, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// HandleAddOilChange appends a maintenance entry.
// POST /admin/api/trucks/{id}/oil-changes {"mileage": ..., "performed_at": RFC3339, "notes": ...}
func (h *Handler) HandleAddOilChange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Mileage     int64  `json:"mileage"`
		PerformedAt string `json:"performed_at"`
		Notes       string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	performedAt := time.Now()
	if req.PerformedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.PerformedAt)
		if err != nil {
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "performed_at must be RFC3339")
			return
		}
		performedAt = parsed
	}

	oc, err := h.store.AddOilChange(r.Context(), &storage.OilChange{
		TruckID:     id,
		Mileage:     req.Mileage,
		PerformedAt: performedAt,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Truck not found")
			return
		}
		h.logger.Error("failed to add oil change", "truck_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to add oil change")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("trucks"))
	h.audit(r, auditCreate, "oil_change", strconv.FormatInt(oc.ID, 10),
		map[string]any{"truck_id": id, "mileage": req.Mileage})
	writeJSON(w, http.StatusCreated, map[string]any{"oil_change": oc})
}

// HandleDeleteOilChange removes a maintenance entry.
// DELETE /admin/api/trucks/{id}/oil-changes/{ocid}
func (h *Handler) HandleDeleteOilChange(w http.ResponseWriter, r *http.Request) {
	ocid, err := strconv.ParseInt(chi.URLParam(r, "ocid"), 10, 64)
	if err != nil || ocid <= 0 {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid resource ID")
		return
	}

	if err := h.store.DeleteOilChange(r.Context(), ocid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Oil change not found")
			return
		}
		h.logger.Error("failed to delete oil change", "id", ocid, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to delete oil change")
		return
	}

	h.cache.Invalidate(r.Context(), cache.ListPattern("trucks"))
	h.audit(r, auditDelete, "oil_change", strconv.FormatInt(ocid, 10), nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
