package middleware

import (
	"log/slog"
	"net/http"
)

// Allower decides whether a request for a key may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimit creates a middleware that enforces rate limiting per client IP.
//
// Parameters:
//   - limiter: the rate limiter instance
//   - resolver: extracts the client IP from the request
//   - logger: logs refused requests at debug level
//
// Returns a middleware function that wraps an http.Handler.
func RateLimit(limiter Allower, resolver *IPResolver, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolver.ClientIP(r)
			if !limiter.Allow(ip) {
				logger.Debug("Rate limited", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
