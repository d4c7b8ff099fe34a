package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// OriginGuard rejects cross-site mutating requests that would otherwise ride
// on ambient cookies.
//
// Only mutating methods are checked. The Origin header, when present, must
// match the allow-list; the Referer header, when present, is validated
// independently the same way. Paths under strict prefixes (admin and auth
// routes) additionally require at least one of the two headers to be present
// at all. Lenient paths (public form intake) pass header-less requests
// through but still fail on a mismatching header. A header that does not
// parse as a URL is a validation failure, not an ignorable oddity.
type OriginGuard struct {
	allowed        map[string]bool // scheme://host values
	strictPrefixes []string
}

// NewOriginGuard builds a guard from allow-listed origins (scheme://host,
// no trailing slash) and path prefixes that require an origin proof.
func NewOriginGuard(allowedOrigins, strictPrefixes []string) *OriginGuard {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = true
	}
	return &OriginGuard{allowed: allowed, strictPrefixes: strictPrefixes}
}

// Handler is the middleware entry point.
func (g *OriginGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isMutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		origin := r.Header.Get("Origin")
		referer := r.Header.Get("Referer")

		if origin == "" && referer == "" {
			if g.isStrictPath(r.URL.Path) {
				writeOriginRejection(w)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if origin != "" && !g.originAllowed(origin) {
			writeOriginRejection(w)
			return
		}
		if referer != "" && !g.refererAllowed(referer) {
			writeOriginRejection(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func (g *OriginGuard) isStrictPath(path string) bool {
	for _, prefix := range g.strictPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// originAllowed checks an Origin header value (scheme://host).
func (g *OriginGuard) originAllowed(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return g.allowed[u.Scheme+"://"+u.Host]
}

// refererAllowed checks a Referer header value, which carries a full URL.
func (g *OriginGuard) refererAllowed(referer string) bool {
	u, err := url.Parse(referer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return g.allowed[u.Scheme+"://"+u.Host]
}

func writeOriginRejection(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	resp := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{Error: "origin_rejected", Message: "Cross-origin request rejected"}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		_ = err
	}
}
