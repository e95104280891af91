// Package main implements giftdraw, a Secret Santa draw for families.
//
// It reads a roster of participants, draws a giver to recipient assignment
// in which nobody gives to themselves and intra-family pairings are capped,
// validates it, and writes one private HTML instruction page per giver.
// With -serve, the pages are also served behind unguessable links and an
// organizer dashboard tracks which ones were opened.
//
// Usage:
//
//	giftdraw -r participants.yaml -b 40 -m 1
//	giftdraw -r family.json -scope per-family -ledger runs.db -serve -p 8000
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rampantspark/giftdraw/internal/admin"
	"github.com/rampantspark/giftdraw/internal/config"
	"github.com/rampantspark/giftdraw/internal/content"
	"github.com/rampantspark/giftdraw/internal/handler"
	"github.com/rampantspark/giftdraw/internal/ledger"
	"github.com/rampantspark/giftdraw/internal/logging"
	"github.com/rampantspark/giftdraw/internal/middleware"
	"github.com/rampantspark/giftdraw/internal/output"
	"github.com/rampantspark/giftdraw/internal/random"
	"github.com/rampantspark/giftdraw/internal/ratelimit"
	"github.com/rampantspark/giftdraw/internal/roster"
	"github.com/rampantspark/giftdraw/internal/santa"
	"github.com/rampantspark/giftdraw/internal/server"
	"github.com/rampantspark/giftdraw/internal/ui"
)

// limiterSweepInterval is how often idle rate limiter entries are dropped.
const limiterSweepInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one giftdraw invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	envFile := os.Getenv(config.EnvPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		ui.PrintError(stderr, "Invalid environment", err)
		return 1
	}

	flags := flag.NewFlagSet("giftdraw", flag.ContinueOnError)
	flags.SetOutput(stderr)
	cfg.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := cfg.Validate(); err != nil {
		ui.PrintError(stderr, "Invalid configuration", err)
		return 1
	}

	logger := logging.New(stderr, cfg.Format(), cfg.Verbose)
	ui.PrintBanner(stdout)

	app := &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	if err := app.run(ctx); err != nil {
		return 1
	}
	return 0
}

// app holds the state of one invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
	ledger *ledger.Ledger
}

func (a *app) fail(message string, err error) error {
	ui.PrintError(a.stderr, message, err)
	return err
}

func (a *app) run(ctx context.Context) error {
	cfg := a.cfg
	scope, _ := cfg.Scope() // checked by Validate

	participants, err := roster.Load(cfg.Roster)
	if err != nil {
		return a.fail("Failed to load roster", err)
	}
	a.logger.Debug("Roster loaded", "path", cfg.Roster, "participants", len(participants))

	assignment, src, err := a.draw(participants, scope)
	if err != nil {
		return a.fail("No valid assignment found", err)
	}
	if err := santa.Validate(participants, assignment); err != nil {
		return a.fail("Invalid assignments ("+santa.Reason(err)+")", err)
	}
	if err := santa.CheckFamilyCap(assignment, cfg.MaxIntraFamily, scope); err != nil {
		return a.fail("Invalid assignments ("+santa.Reason(err)+")", err)
	}

	pages, templateSummary, err := a.render(assignment)
	if err != nil {
		return a.fail("Failed to render pages", err)
	}

	// Nothing touches the output directory until the run is recorded.
	runID, ledgerSummary, err := a.record(ctx, assignment, scope)
	if err != nil {
		return a.fail("Failed to record run", err)
	}
	if a.ledger != nil {
		defer a.ledger.Close()
	}

	sink := output.NewSink(cfg.OutputDir, a.logger)
	if _, err := sink.Clear(); err != nil {
		return a.fail("Failed to clear output directory", err)
	}
	if _, err := sink.WriteAll(pages); err != nil {
		return a.fail("Failed to write pages", err)
	}

	seed := uint64(0)
	if src.Seeded() {
		seed = src.Seed()
	}
	ui.PrintSummary(a.stdout, ui.Summary{
		Participants: len(participants),
		Families:     assignment.Families(),
		Attempts:     assignment.Attempts,
		IntraFamily:  assignment.IntraFamilyCount(),
		Cap:          ui.BuildCapSummary(cfg.MaxIntraFamily, scope),
		Template:     templateSummary,
		Seed:         seed,
		OutputDir:    sink.Dir(),
		Pages:        len(pages),
		Ledger:       ledgerSummary,
	})
	if cfg.Print {
		ui.PrintAssignments(a.stdout, assignment)
	}
	a.logger.Info("Instructions generated", "dir", sink.Dir(), "pages", len(pages))

	if !cfg.Serve {
		return nil
	}
	if err := a.serve(ctx, runID, pages); err != nil {
		return a.fail("Reveal server failed", err)
	}
	return nil
}

// draw runs the generator with a seeded source when a seed is configured.
func (a *app) draw(participants []santa.Participant, scope santa.CapScope) (santa.Assignment, *random.Source, error) {
	src := random.NewSource()
	if a.cfg.Seed != 0 {
		src = random.NewSeededSource(a.cfg.Seed)
	}

	gen := santa.NewGenerator(src,
		santa.WithMaxAttempts(a.cfg.MaxAttempts),
		santa.WithCapScope(scope),
		santa.WithLogger(a.logger),
	)
	assignment, err := gen.Generate(participants, a.cfg.MaxIntraFamily)
	return assignment, src, err
}

func (a *app) render(assignment santa.Assignment) ([]content.Page, string, error) {
	tmpl, err := content.LoadTemplate(a.cfg.Template)
	if err != nil {
		return nil, "", err
	}
	image, err := content.EncodeImage(a.cfg.Image)
	if err != nil {
		return nil, "", err
	}

	renderer := content.NewRenderer(tmpl, a.cfg.Language, a.cfg.MaxBudget, a.cfg.Currency, image)
	a.logger.Debug("Rendering pages", "language", renderer.Language(), "image", a.cfg.Image != "")
	pages, err := renderer.RenderAll(assignment)
	if err != nil {
		return nil, "", err
	}
	return pages, ui.BuildTemplateSummary(a.cfg.Template, len(tmpl)), nil
}

// record stores the run in the ledger when one is configured. Without a
// ledger the run still gets an ID for the reveal server.
func (a *app) record(ctx context.Context, assignment santa.Assignment, scope santa.CapScope) (uuid.UUID, string, error) {
	if a.cfg.LedgerPath == "" {
		return uuid.New(), "", nil
	}

	l, err := ledger.Open(a.cfg.LedgerPath, a.logger)
	if err != nil {
		return uuid.Nil, "", err
	}
	run, err := l.RecordRun(ctx, ledger.Run{
		Participants:     assignment.Len(),
		Families:         assignment.Families(),
		Attempts:         assignment.Attempts,
		IntraFamilyPairs: assignment.IntraFamilyCount(),
		MaxIntraFamily:   a.cfg.MaxIntraFamily,
		CapScope:         string(scope),
		OutputDir:        a.cfg.OutputDir,
	})
	if err != nil {
		l.Close()
		return uuid.Nil, "", err
	}
	a.ledger = l

	count, err := l.Count(ctx)
	if err != nil {
		a.logger.Warn("Failed to count ledger runs", "error", err)
	}
	var previous time.Time
	if recent, err := l.RecentRuns(ctx, 2); err == nil && len(recent) == 2 {
		previous = recent[1].CreatedAt
	}
	return run.ID, ui.BuildLedgerSummary(a.cfg.LedgerPath, count, previous), nil
}

// serve runs the reveal server until ctx is cancelled.
func (a *app) serve(ctx context.Context, runID uuid.UUID, pages []content.Page) error {
	cfg := a.cfg

	var recorder handler.ViewRecorder
	var runs admin.RunSource
	if a.ledger != nil {
		recorder = a.ledger
		runs = a.ledger
	}
	reveal := handler.NewRevealHandler(runID, pages, recorder, a.logger)

	auth, err := admin.NewAuthenticator(cfg.UseHTTPS)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	reveal.Register(mux)
	admin.NewHandler(auth, reveal, runs, a.logger).Register(mux)

	limiter := ratelimit.New(float64(cfg.RateLimit), cfg.RateBurst)
	go limiter.Run(ctx, limiterSweepInterval)

	h := middleware.Chain(mux,
		middleware.RecoverPanic(a.logger),
		middleware.LimitRequestBody(middleware.DefaultMaxBodyBytes),
		middleware.RateLimit(limiter, middleware.NewIPResolver(cfg.TrustProxy), a.logger),
		middleware.PrivatePage(),
	)
	srv := server.New(server.DefaultConfig(cfg.Port), h, a.logger)

	host := "localhost:" + cfg.Port
	links := reveal.Links()
	lines := make([]ui.RevealLink, 0, len(links))
	for _, link := range links {
		lines = append(lines, ui.RevealLink{Giver: link.Giver.Name, URL: auth.BaseURL(host) + link.Path()})
	}
	ui.PrintServerInfo(a.stdout, ui.ServerInfo{
		Addr:      srv.Addr(),
		LoginURL:  auth.LoginURL(host),
		RateLimit: ui.BuildRateLimitSummary(cfg.RateLimit, cfg.RateBurst),
		Links:     lines,
	})

	if err := srv.Run(ctx, server.DefaultShutdownTimeout); err != nil {
		return fmt.Errorf("port %s: %w", cfg.Port, err)
	}
	ui.PrintShutdown(a.stdout, reveal.Viewed(), len(links))
	return nil
}
