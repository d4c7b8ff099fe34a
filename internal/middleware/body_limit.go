package middleware

import "net/http"

// MaxBodySize returns middleware that caps request body size. Handlers that
// read past the limit get a *http.MaxBytesError and the connection is closed
// after the response.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
