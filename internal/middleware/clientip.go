package middleware

import (
	"net"
	"net/http"
	"strings"
)

// IPResolver extracts the client IP address from HTTP requests.
type IPResolver struct {
	trustProxy bool
}

// NewIPResolver creates a new IP resolver.
//
// Parameters:
//   - trustProxy: whether to trust X-Forwarded-For and X-Real-IP headers
//
// Returns a new IPResolver instance.
func NewIPResolver(trustProxy bool) *IPResolver {
	return &IPResolver{trustProxy: trustProxy}
}

// ClientIP returns the client IP address of r.
//
// When proxies are trusted, the first valid address in X-Forwarded-For
// wins, then X-Real-IP. Otherwise, and when neither header holds a valid
// address, the host part of RemoteAddr is used.
func (resolver *IPResolver) ClientIP(r *http.Request) string {
	if resolver.trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
