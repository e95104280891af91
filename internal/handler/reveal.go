// Package handler serves the private reveal pages.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rampantspark/giftdraw/internal/content"
	"github.com/rampantspark/giftdraw/internal/ledger"
	"github.com/rampantspark/giftdraw/internal/santa"
)

// RevealPrefix is the path under which reveal pages are served.
const RevealPrefix = "/reveal/"

// ViewRecorder persists the first view of a reveal link.
type ViewRecorder interface {
	RecordView(ctx context.Context, view ledger.View) error
}

// Link is the public status of one reveal page. It never carries the
// recipient.
type Link struct {
	Token    uuid.UUID
	Giver    santa.Participant
	ViewedAt time.Time // zero until first opened
}

// Path returns the URL path of the link.
func (l Link) Path() string {
	return RevealPrefix + l.Token.String()
}

// Viewed reports whether the giver has opened the page.
func (l Link) Viewed() bool {
	return !l.ViewedAt.IsZero()
}

type revealPage struct {
	link Link
	html string
}

// RevealHandler maps unguessable tokens to rendered pages.
//
// Each giver gets one random UUID token. The handler remembers when each
// page is first opened and, if a recorder is set, stores that view.
type RevealHandler struct {
	mu       sync.RWMutex
	pages    map[uuid.UUID]*revealPage
	order    []uuid.UUID
	runID    uuid.UUID
	recorder ViewRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewRevealHandler creates a new reveal handler.
//
// Parameters:
//   - runID: ledger run the pages belong to (used only when recording views)
//   - pages: rendered instruction pages, one per giver
//   - recorder: optional persistence for first views (can be nil)
//   - logger: structured logger instance
//
// Returns a new RevealHandler instance.
func NewRevealHandler(runID uuid.UUID, pages []content.Page, recorder ViewRecorder, logger *slog.Logger) *RevealHandler {
	h := &RevealHandler{
		pages:    make(map[uuid.UUID]*revealPage, len(pages)),
		order:    make([]uuid.UUID, 0, len(pages)),
		runID:    runID,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
	for _, page := range pages {
		token := uuid.New()
		h.pages[token] = &revealPage{
			link: Link{Token: token, Giver: page.Giver},
			html: page.HTML,
		}
		h.order = append(h.order, token)
	}
	return h
}

// Register adds the reveal route to mux.
func (h *RevealHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+RevealPrefix+"{token}", h.Handle)
}

// Handle serves the page for the token in the request path.
//
// Unknown or malformed tokens get 404 Not Found, with no hint of which
// tokens exist.
func (h *RevealHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(r.PathValue("token"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	h.mu.Lock()
	page, ok := h.pages[token]
	first := false
	if ok && page.link.ViewedAt.IsZero() {
		page.link.ViewedAt = h.now().UTC()
		first = true
	}
	var view ledger.View
	var body string
	if ok {
		view = ledger.View{RunID: h.runID, Giver: page.link.Giver.Name, ViewedAt: page.link.ViewedAt}
		body = page.html
	}
	h.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if first {
		h.logger.Info("Reveal page opened", "giver", view.Giver)
		if h.recorder != nil {
			if err := h.recorder.RecordView(r.Context(), view); err != nil {
				h.logger.Warn("Failed to record view", "giver", view.Giver, "error", err)
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, body)
}

// Links returns the status of every link, in page order.
func (h *RevealHandler) Links() []Link {
	h.mu.RLock()
	defer h.mu.RUnlock()

	links := make([]Link, 0, len(h.order))
	for _, token := range h.order {
		links = append(links, h.pages[token].link)
	}
	return links
}

// Viewed returns how many links have been opened at least once.
func (h *RevealHandler) Viewed() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, page := range h.pages {
		if page.link.Viewed() {
			n++
		}
	}
	return n
}
