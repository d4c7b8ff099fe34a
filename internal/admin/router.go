package admin

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ridgeline-transport/admin-api/internal/auth"
	"github.com/ridgeline-transport/admin-api/internal/middleware"
)

// maxRequestBody caps JSON request bodies. The largest legitimate payload is
// a driver application; 1 MiB leaves generous headroom.
const maxRequestBody = 1 << 20

// NewRouter creates the full HTTP router: public site endpoints plus the
// authenticated back-office API under /admin/api.
func (h *Handler) NewRouter(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	originGuard := middleware.NewOriginGuard(allowedOrigins, []string{"/admin"})

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Instrument)
	r.Use(chimw.Recoverer)
	r.Use(middleware.MaxBodySize(maxRequestBody))
	r.Use(originGuard.Handler)

	// Liveness and readiness
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)

	// Public site intake (no auth, lenient origin check)
	r.Post("/api/quotes", h.HandleSubmitQuote)
	r.Post("/api/contact", h.HandleSubmitContact)
	r.Post("/api/applications", h.HandleSubmitApplication)

	// Back-office API
	r.Route("/admin/api", func(r chi.Router) {
		// Session endpoints. Login is unauthenticated; the rest require a
		// session of any role.
		r.Post("/login", h.HandleLogin)
		r.Group(func(r chi.Router) {
			r.Use(h.authmw.RequireRole(auth.RoleAny))
			r.Post("/logout", h.HandleLogout)
			r.Post("/logout-all", h.HandleLogoutAll)
			r.Get("/me", h.HandleMe)
			r.Post("/me/password", h.HandleChangePassword)
		})

		// Read endpoints (any admin)
		r.Group(func(r chi.Router) {
			r.Use(h.authmw.RequireRole(auth.RoleViewer))
			r.Get("/applications", h.HandleListApplications)
			r.Get("/applications/{id}", h.HandleGetApplication)
			r.Get("/trucks", h.HandleListTrucks)
			r.Get("/trucks/{id}", h.HandleGetTruck)
			r.Get("/requests", h.HandleListRequests)
		})

		// Operational mutations
		r.Group(func(r chi.Router) {
			r.Use(h.authmw.RequireRole(auth.RoleManager))
			r.Patch("/applications/{id}", h.HandleReviewApplication)
			r.Post("/trucks", h.HandleCreateTruck)
			r.Put("/trucks/{id}", h.HandleUpdateTruck)
			r.Delete("/trucks/{id}", h.HandleDeleteTruck)
			r.Post("/trucks/{id}/oil-changes", h.HandleAddOilChange)
			r.Delete("/trucks/{id}/oil-changes/{ocid}", h.HandleDeleteOilChange)
			r.Patch("/requests/{id}", h.HandleUpdateRequestStatus)
			r.Delete("/requests/{id}", h.HandleDeleteRequest)
			r.Get("/audit", h.HandleListAuditLogs)
		})

		// Privileged operations
		r.Group(func(r chi.Router) {
			r.Use(h.authmw.RequireRole(auth.RoleSuperAdmin))
			r.Post("/applications/{id}/ssn", h.HandleRevealSSN)
			r.Delete("/applications/{id}", h.HandleDeleteApplication)
			r.Get("/admins", h.HandleListAdmins)
			r.Post("/admins", h.HandleCreateAdmin)
			r.Patch("/admins/{id}/role", h.HandleUpdateAdminRole)
			r.Delete("/admins/{id}", h.HandleDeleteAdmin)
			r.Post("/admins/{id}/revoke-sessions", h.HandleRevokeAdminSessions)
			r.Post("/loglevel", h.HandleSetLogLevel)
		})
	})

	return r
}
