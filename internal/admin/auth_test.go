package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewAuthenticator(t *testing.T) {
	tests := []struct {
		name     string
		useHTTPS bool
	}{
		{"with HTTPS", true},
		{"without HTTPS", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := NewAuthenticator(tt.useHTTPS)
			if err != nil {
				t.Fatalf("NewAuthenticator() error = %v", err)
			}
			if len(auth.Token()) != 32 {
				t.Errorf("token length = %d, want 32", len(auth.Token()))
			}
			if auth.useHTTPS != tt.useHTTPS {
				t.Errorf("useHTTPS = %v, want %v", auth.useHTTPS, tt.useHTTPS)
			}
		})
	}
}

func TestNewAuthenticator_Uniqueness(t *testing.T) {
	tokens := make(map[string]bool)
	for i := 0; i < 10; i++ {
		auth, err := NewAuthenticator(false)
		if err != nil {
			t.Fatalf("NewAuthenticator() error = %v", err)
		}
		if tokens[auth.Token()] {
			t.Error("NewAuthenticator() produced duplicate token")
		}
		tokens[auth.Token()] = true
	}
}

func TestValid(t *testing.T) {
	auth, _ := NewAuthenticator(false)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid token", auth.Token(), true},
		{"invalid token", "wrongtoken", false},
		{"empty token", "", false},
		{"different case", strings.ToUpper(auth.Token()), false},
		{"prefix", auth.Token()[:10], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := auth.Valid(tt.token); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestToken(t *testing.T) {
	auth, _ := NewAuthenticator(false)

	tests := []struct {
		name      string
		setupReq  func(*http.Request)
		wantToken string
	}{
		{
			name: "cookie",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookieName, Value: "cookietoken"})
			},
			wantToken: "cookietoken",
		},
		{
			name: "bearer header",
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer headertoken")
			},
			wantToken: "headertoken",
		},
		{
			name: "cookie takes precedence over header",
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer headertoken")
				r.AddCookie(&http.Cookie{Name: cookieName, Value: "cookietoken"})
			},
			wantToken: "cookietoken",
		},
		{
			name: "query parameter is not a session",
			setupReq: func(r *http.Request) {
				r.URL.RawQuery = "token=querytoken"
			},
			wantToken: "",
		},
		{
			name:      "no token",
			setupReq:  func(r *http.Request) {},
			wantToken: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, DashboardPath, nil)
			tt.setupReq(req)
			if got := auth.RequestToken(req); got != tt.wantToken {
				t.Errorf("RequestToken() = %q, want %q", got, tt.wantToken)
			}
		})
	}
}

func TestSetCookie(t *testing.T) {
	for _, useHTTPS := range []bool{true, false} {
		auth, _ := NewAuthenticator(useHTTPS)
		w := httptest.NewRecorder()

		auth.SetCookie(w)

		cookies := w.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("got %d cookies, want 1", len(cookies))
		}
		cookie := cookies[0]
		if cookie.Name != cookieName || cookie.Value != auth.Token() {
			t.Errorf("cookie = %s=%s", cookie.Name, cookie.Value)
		}
		if !cookie.HttpOnly {
			t.Error("cookie should be HttpOnly")
		}
		if cookie.SameSite != http.SameSiteStrictMode {
			t.Error("cookie should have SameSite=Strict")
		}
		if cookie.Secure != useHTTPS {
			t.Errorf("cookie Secure = %v, want %v", cookie.Secure, useHTTPS)
		}
		if cookie.Path != DashboardPath {
			t.Errorf("cookie Path = %q, want %q", cookie.Path, DashboardPath)
		}
	}
}

func TestLoginURL(t *testing.T) {
	tests := []struct {
		name     string
		useHTTPS bool
		host     string
		prefix   string
	}{
		{"http", false, "localhost:8000", "http://localhost:8000/organizer/login?token="},
		{"https", true, "santa.example.com", "https://santa.example.com/organizer/login?token="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, _ := NewAuthenticator(tt.useHTTPS)
			got := auth.LoginURL(tt.host)
			if got != tt.prefix+auth.Token() {
				t.Errorf("LoginURL() = %q, want prefix %q and token", got, tt.prefix)
			}
		})
	}
}

func BenchmarkValid(b *testing.B) {
	auth, _ := NewAuthenticator(false)
	token := auth.Token()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		auth.Valid(token)
	}
}
