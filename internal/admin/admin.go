// Package admin provides the HTTP API for the public site forms and the
// back-office portal.
package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ridgeline-transport/admin-api/internal/auth"
	"github.com/ridgeline-transport/admin-api/internal/cache"
	"github.com/ridgeline-transport/admin-api/internal/storage"
)

// Cache TTLs for listing endpoints.
const (
	applicationListTTL = 60 * time.Second
	truckListTTL       = 5 * time.Minute
	requestListTTL     = 60 * time.Second
)

// Handler provides all HTTP endpoints.
type Handler struct {
	store        storage.Storage
	tokens       *auth.TokenManager
	authmw       *auth.Middleware
	cache        *cache.Gate
	fieldKey     []byte
	logger       *slog.Logger
	logLevel     *slog.LevelVar
	cookieSecure bool
}

// NewHandler creates the API handler.
// fieldKey may be nil; endpoints that need field encryption then fail with a
// configuration error when invoked.
func NewHandler(store storage.Storage, tokens *auth.TokenManager, gate *cache.Gate,
	fieldKey []byte, logLevel *slog.LevelVar, logger *slog.Logger, cookieSecure bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}
	if gate == nil {
		gate = cache.New(nil, logger)
	}

	return &Handler{
		store:        store,
		tokens:       tokens,
		authmw:       auth.NewMiddleware(tokens, store, logger, cookieSecure),
		cache:        gate,
		fieldKey:     fieldKey,
		logger:       logger,
		logLevel:     logLevel,
		cookieSecure: cookieSecure,
	}
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Response already started, nothing we can do
		_ = err
	}
}

// decodeJSON parses a request body into dst, returning false (and writing
// the error response) on malformed or oversized input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "Request body too large")
			return false
		}
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body")
		return false
	}
	return true
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or unparseable.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// pathID parses the {id} URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid resource ID")
		return 0, false
	}
	return id, true
}
