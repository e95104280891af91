// Package ui prints the terminal output of giftdraw.
package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rampantspark/giftdraw/internal/santa"
)

// Banner is the ASCII art banner for giftdraw
const Banner = `
       _  __ _      _
  __ _(_)/ _| |_ __| |_ __ __ ___      __
 / _' | | |_| __/ _' | '__/ _' \ \ /\ / /
| (_| | |  _| || (_| | | | (_| |\ V  V /
 \__, |_|_|  \__\__,_|_|  \__,_| \_/\_/
 |___/
`

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Summary describes a finished draw.
type Summary struct {
	Participants int
	Families     int
	Attempts     int
	IntraFamily  int
	Cap          string
	Template     string
	Seed         uint64
	OutputDir    string
	Pages        int
	Ledger       string
}

// ServerInfo describes the running reveal server.
type ServerInfo struct {
	Addr      string
	LoginURL  string
	RateLimit string
	Links     []RevealLink
}

// RevealLink is one line of the reveal link list.
type RevealLink struct {
	Giver string
	URL   string
}

// PrintBanner prints the ASCII banner
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, Banner)
}

// PrintSummary prints a clean summary of the draw
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Draw completed at %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  DRAW")
	fmt.Fprintf(w, "     Participants:    %d in %d families\n", s.Participants, s.Families)
	fmt.Fprintf(w, "     Attempts:        %d\n", s.Attempts)
	fmt.Fprintf(w, "     Intra-family:    %d (cap: %s)\n", s.IntraFamily, s.Cap)
	if s.Seed != 0 {
		fmt.Fprintf(w, "     Seed:            %d\n", s.Seed)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  OUTPUT")
	fmt.Fprintf(w, "     Directory:       %s\n", s.OutputDir)
	fmt.Fprintf(w, "     Pages:           %d\n", s.Pages)
	if s.Template != "" {
		fmt.Fprintf(w, "     Template:        %s\n", s.Template)
	} else {
		fmt.Fprintf(w, "     Template:        Built-in\n")
	}
	if s.Ledger != "" {
		fmt.Fprintf(w, "     Ledger:          %s\n", s.Ledger)
	}
	fmt.Fprintln(w)
}

// PrintAssignments prints every pair for verification. It spoils the
// surprise for whoever reads the terminal.
func PrintAssignments(w io.Writer, a santa.Assignment) {
	fmt.Fprintln(w, "Attributions de l'échange de cadeau:")
	for _, pair := range a.Pairs {
		fmt.Fprintf(w, "%s => %s\n", pair.Giver.Name, pair.Recipient.Name)
	}
	fmt.Fprintln(w)
}

// PrintServerInfo prints the reveal server address, organizer login and
// the private link of every giver
func PrintServerInfo(w io.Writer, info ServerInfo) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Reveal server listening on %s\n", info.Addr)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  SERVER")
	fmt.Fprintf(w, "     Rate Limiting:   %s\n", info.RateLimit)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  REVEAL LINKS")
	for _, link := range info.Links {
		fmt.Fprintf(w, "     %-16s %s\n", link.Giver, link.URL)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  ORGANIZER")
	fmt.Fprintf(w, "     Login URL:       %s\n", info.LoginURL)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  ⚠️  Send each link only to its giver.")
	fmt.Fprintln(w, "     The login URL contains the organizer token.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  Press Ctrl+C to stop the server")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// PrintShutdown prints a shutdown message
func PrintShutdown(w io.Writer, viewed, total int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Server stopped (%d of %d pages opened)\n", viewed, total)
	fmt.Fprintln(w, rule)
}

// PrintError prints a formatted error message
func PrintError(w io.Writer, message string, err error) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  ❌ ERROR: %s\n", message)
	if err != nil {
		fmt.Fprintf(w, "     %v\n", err)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// BuildTemplateSummary creates a summary string for template info
func BuildTemplateSummary(filename string, size int) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("%s (%s)", filename, humanize.Bytes(uint64(size)))
}

// BuildCapSummary creates a summary string for the intra-family cap
func BuildCapSummary(max int, scope santa.CapScope) string {
	if scope == santa.CapPerFamily {
		return fmt.Sprintf("%d per family", max)
	}
	return fmt.Sprintf("%d total", max)
}

// BuildRateLimitSummary creates a summary string for rate limiting
func BuildRateLimitSummary(requestsPerSec, burst int) string {
	return fmt.Sprintf("%d req/sec (burst: %d)", requestsPerSec, burst)
}

// BuildLedgerSummary creates a summary string for the run ledger
func BuildLedgerSummary(path string, runs int, last time.Time) string {
	if path == "" {
		return ""
	}
	if runs <= 1 || last.IsZero() {
		return fmt.Sprintf("%s (first run)", path)
	}
	return fmt.Sprintf("%s (%s runs, previous %s)", path, humanize.Comma(int64(runs)), humanize.Time(last))
}
