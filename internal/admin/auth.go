// Package admin serves the organizer dashboard of the reveal server.
package admin

import (
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DashboardPath is where the organizer dashboard is mounted.
	DashboardPath = "/organizer"
	// LoginPath exchanges a token query parameter for a session cookie.
	LoginPath = DashboardPath + "/login"

	tokenBytes   = 24
	cookieName   = "giftdraw_organizer"
	cookieMaxAge = 7 * 24 * 3600 // one week, long enough for the exchange
)

// Authenticator guards the organizer dashboard with a single random token.
type Authenticator struct {
	token    string
	useHTTPS bool
}

// NewAuthenticator creates an authenticator with a fresh random token.
//
// Parameters:
//   - useHTTPS: whether the server is reached over HTTPS (sets the cookie Secure flag)
//
// Returns a new Authenticator instance or an error if random generation fails.
func NewAuthenticator(useHTTPS bool) (*Authenticator, error) {
	b := make([]byte, tokenBytes)
	if _, err := cryptorand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate organizer token: %w", err)
	}
	return &Authenticator{
		token:    base64.RawURLEncoding.EncodeToString(b),
		useHTTPS: useHTTPS,
	}, nil
}

// Token returns the organizer token.
func (a *Authenticator) Token() string {
	return a.token
}

// Valid reports whether token matches, in constant time.
func (a *Authenticator) Valid(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

// RequestToken extracts the token from the session cookie, falling back to
// an "Authorization: Bearer" header.
func (a *Authenticator) RequestToken(r *http.Request) string {
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	if auth, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(auth)
	}
	return ""
}

// Authenticated reports whether r carries the organizer token.
func (a *Authenticator) Authenticated(r *http.Request) bool {
	return a.Valid(a.RequestToken(r))
}

// SetCookie stores the token in an HttpOnly, SameSite=Strict cookie.
func (a *Authenticator) SetCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    a.token,
		Path:     DashboardPath,
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   a.useHTTPS,
	})
}

// BaseURL returns the scheme and host for building absolute links.
func (a *Authenticator) BaseURL(host string) string {
	scheme := "http"
	if a.useHTTPS {
		scheme = "https"
	}
	return scheme + "://" + host
}

// LoginURL returns the one-click login link printed for the organizer.
func (a *Authenticator) LoginURL(host string) string {
	return a.BaseURL(host) + LoginPath + "?token=" + a.token
}
