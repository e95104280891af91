package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rampantspark/giftdraw/internal/content"
	"github.com/rampantspark/giftdraw/internal/ledger"
	"github.com/rampantspark/giftdraw/internal/santa"
)

type recorder struct {
	mu    sync.Mutex
	views []ledger.View
	err   error
}

func (r *recorder) RecordView(ctx context.Context, view ledger.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
	return r.err
}

func testPages() []content.Page {
	return []content.Page{
		{Giver: santa.Participant{Name: "Chloé", Family: "A"}, FileName: "Chloé.html", HTML: "<p>Louis</p>"},
		{Giver: santa.Participant{Name: "Louis", Family: "C"}, FileName: "Louis.html", HTML: "<p>Chloé</p>"},
	}
}

func newTestHandler(rec ViewRecorder) (*RevealHandler, http.Handler) {
	h := NewRevealHandler(uuid.New(), testPages(), rec, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time { return time.Date(2025, 12, 2, 9, 0, 0, 0, time.UTC) }
	mux := http.NewServeMux()
	h.Register(mux)
	return h, mux
}

func get(t *testing.T, mux http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRevealHandler_ServesPage(t *testing.T) {
	h, mux := newTestHandler(nil)
	links := h.Links()
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}

	rec := get(t, mux, links[0].Path())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "<p>Louis</p>" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRevealHandler_UnknownToken(t *testing.T) {
	_, mux := newTestHandler(nil)

	tests := []struct {
		name string
		path string
	}{
		{"random uuid", RevealPrefix + uuid.NewString()},
		{"malformed token", RevealPrefix + "Chloé"},
		{"no token", RevealPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(t, mux, tt.path); rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
		})
	}
}

func TestRevealHandler_RecordsFirstViewOnly(t *testing.T) {
	rec := &recorder{}
	h, mux := newTestHandler(rec)
	link := h.Links()[1]

	get(t, mux, link.Path())
	get(t, mux, link.Path())

	if len(rec.views) != 1 {
		t.Fatalf("recorded %d views, want 1", len(rec.views))
	}
	if rec.views[0].Giver != "Louis" {
		t.Errorf("recorded giver = %q, want Louis", rec.views[0].Giver)
	}
	if h.Viewed() != 1 {
		t.Errorf("Viewed() = %d, want 1", h.Viewed())
	}

	links := h.Links()
	if links[0].Viewed() {
		t.Error("unopened link reported as viewed")
	}
	if !links[1].Viewed() {
		t.Error("opened link not reported as viewed")
	}
}

func TestRevealHandler_RecorderErrorStillServes(t *testing.T) {
	h, mux := newTestHandler(&recorder{err: errors.New("disk full")})

	rec := get(t, mux, h.Links()[0].Path())
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRevealHandler_TokensAreUnique(t *testing.T) {
	h, _ := newTestHandler(nil)
	links := h.Links()
	if links[0].Token == links[1].Token {
		t.Error("tokens should be unique per giver")
	}
}
