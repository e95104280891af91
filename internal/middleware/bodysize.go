package middleware

import (
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies. Only the admin login posts a body.
const DefaultMaxBodyBytes = 4 << 10

// LimitRequestBody creates a middleware that enforces request body size limits.
//
// Parameters:
//   - maxBytes: maximum allowed request body size in bytes
//
// Returns a middleware function that wraps an http.Handler.
func LimitRequestBody(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// PrivatePage sets headers that keep responses out of caches, search
// indexes and Referer headers.
func PrivatePage() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Cache-Control", "no-store")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("X-Robots-Tag", "noindex, nofollow")
			h.Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	}
}
