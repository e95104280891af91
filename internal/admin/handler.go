package admin

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/rampantspark/giftdraw/internal/handler"
	"github.com/rampantspark/giftdraw/internal/ledger"
)

// recentRuns is how many ledger runs the dashboard lists.
const recentRuns = 10

// LinkSource provides the reveal link status.
type LinkSource interface {
	Links() []handler.Link
}

// RunSource provides recent ledger runs and their recorded views.
type RunSource interface {
	RecentRuns(ctx context.Context, limit int) ([]ledger.Run, error)
	Views(ctx context.Context, runID uuid.UUID) ([]ledger.View, error)
}

// RunStatus is a ledger run with the number of reveal pages opened during
// it, including views recorded by earlier server sessions.
type RunStatus struct {
	ledger.Run
	Opened int
}

const forbiddenPage = "<!DOCTYPE html>\n<html>\n<head><title>Access Denied</title></head>\n<body>\n<h1>403 Forbidden</h1>\n<p>Invalid or missing organizer token.</p>\n</body>\n</html>"

// Handler handles organizer dashboard HTTP requests.
type Handler struct {
	auth   *Authenticator
	links  LinkSource
	runs   RunSource
	logger *slog.Logger
}

// NewHandler creates a new dashboard handler.
//
// Parameters:
//   - auth: authenticator instance
//   - links: reveal link status source
//   - runs: ledger run source (can be nil when no ledger is configured)
//   - logger: structured logger instance
//
// Returns a new Handler instance.
func NewHandler(auth *Authenticator, links LinkSource, runs RunSource, logger *slog.Logger) *Handler {
	return &Handler{
		auth:   auth,
		links:  links,
		runs:   runs,
		logger: logger,
	}
}

// Register adds the dashboard routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+LoginPath, h.HandleLogin)
	mux.HandleFunc("GET "+DashboardPath, h.HandleDashboard)
}

// HandleLogin validates the token query parameter, sets the session
// cookie and redirects to the dashboard.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Valid(r.URL.Query().Get("token")) {
		h.logger.Warn("Failed organizer login attempt",
			"remote_addr", r.RemoteAddr,
			"user_agent", r.Header.Get("User-Agent"))
		h.forbidden(w)
		return
	}

	h.logger.Info("Organizer logged in", "remote_addr", r.RemoteAddr)
	h.auth.SetCookie(w)
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}

// HandleDashboard renders the dashboard for an authenticated organizer.
//
// Reveal links are listed with their view status. Recipients are never
// shown.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.auth.Authenticated(r) {
		h.forbidden(w)
		return
	}

	runs := h.loadRuns(ctx)
	if ctx.Err() != nil {
		return
	}

	page := NewRenderer(h.auth.BaseURL(r.Host)).RenderDashboard(h.links.Links(), runs)

	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
}

// loadRuns returns the recent runs with their view counts. Ledger errors
// are logged and yield no runs.
func (h *Handler) loadRuns(ctx context.Context) []RunStatus {
	if h.runs == nil {
		return nil
	}
	runs, err := h.runs.RecentRuns(ctx, recentRuns)
	if err != nil {
		h.logger.Warn("Failed to load ledger runs", "error", err)
		return nil
	}

	statuses := make([]RunStatus, 0, len(runs))
	for _, run := range runs {
		views, err := h.runs.Views(ctx, run.ID)
		if err != nil {
			h.logger.Warn("Failed to load reveal views", "run_id", run.ID, "error", err)
		}
		statuses = append(statuses, RunStatus{Run: run, Opened: len(views)})
	}
	return statuses
}

func (h *Handler) forbidden(w http.ResponseWriter) {
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	io.WriteString(w, forbiddenPage)
}

// setSecurityHeaders sets the dashboard security headers. The dashboard
// has no scripts, so the policy forbids them outright.
func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy",
		"default-src 'none'; "+
			"style-src 'unsafe-inline'; "+
			"frame-ancestors 'none'")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "no-referrer")
}
