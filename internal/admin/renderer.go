package admin

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/rampantspark/giftdraw/internal/handler"
)

// timeLayout is used for every timestamp on the dashboard.
const timeLayout = "2006-01-02 15:04"

// Renderer handles HTML generation for the organizer dashboard.
type Renderer struct {
	baseURL string
}

// NewRenderer creates a new renderer.
//
// Parameters:
//   - baseURL: scheme and host prefixed to reveal paths (e.g. "http://localhost:8000")
//
// Returns a new Renderer instance.
func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: strings.TrimRight(baseURL, "/")}
}

// RenderDashboard generates the complete dashboard HTML.
//
// Parameters:
//   - links: reveal link status per giver
//   - runs: recent ledger runs with view counts, newest first (can be empty)
//
// Returns the complete HTML as a string.
func (r *Renderer) RenderDashboard(links []handler.Link, runs []RunStatus) string {
	var sb strings.Builder

	r.writeHTMLHeader(&sb)
	r.writeSummaryBox(&sb, links)
	r.writeLinksSection(&sb, links)
	r.writeRunsSection(&sb, runs)
	sb.WriteString("</body>\n</html>")

	return sb.String()
}

func (r *Renderer) writeHTMLHeader(sb *strings.Builder) {
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>giftdraw - organizer</title>\n")
	sb.WriteString("<style>\n")
	sb.WriteString("body { font-family: sans-serif; margin: 20px; background: #fbf7f0; }\n")
	sb.WriteString("h1 { color: #b3282d; }\n")
	sb.WriteString(".box { background: white; padding: 15px; margin: 10px 0; border-radius: 5px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }\n")
	sb.WriteString("table { width: 100%; border-collapse: collapse; margin-top: 10px; }\n")
	sb.WriteString("th, td { padding: 8px; text-align: left; border-bottom: 1px solid #ddd; }\n")
	sb.WriteString("th { background-color: #2e6b3f; color: white; }\n")
	sb.WriteString(".link { font-family: monospace; font-size: 0.9em; }\n")
	sb.WriteString(".opened { color: #2e6b3f; }\n")
	sb.WriteString(".pending { color: #999; }\n")
	sb.WriteString("</style>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString("<h1>giftdraw</h1>\n")
}

func (r *Renderer) writeSummaryBox(sb *strings.Builder, links []handler.Link) {
	opened := 0
	for _, link := range links {
		if link.Viewed() {
			opened++
		}
	}

	sb.WriteString("<div class=\"box\">\n")
	sb.WriteString("<h2>Exchange</h2>\n")
	sb.WriteString("<p><strong>Participants:</strong> " + strconv.Itoa(len(links)) + "</p>\n")
	sb.WriteString("<p><strong>Pages opened:</strong> " + strconv.Itoa(opened) + " / " + strconv.Itoa(len(links)) + "</p>\n")
	sb.WriteString("</div>\n")
}

func (r *Renderer) writeLinksSection(sb *strings.Builder, links []handler.Link) {
	sb.WriteString("<div class=\"box\">\n")
	sb.WriteString("<h2>Reveal links</h2>\n")
	if len(links) == 0 {
		sb.WriteString("<p>No pages.</p>\n</div>\n")
		return
	}

	sb.WriteString("<table>\n")
	sb.WriteString("<tr><th>Giver</th><th>Family</th><th>Link</th><th>Status</th></tr>\n")
	for _, link := range links {
		url := html.EscapeString(r.baseURL + link.Path())
		sb.WriteString("<tr><td>")
		sb.WriteString(html.EscapeString(link.Giver.Name))
		sb.WriteString("</td><td>")
		sb.WriteString(html.EscapeString(link.Giver.Family))
		sb.WriteString("</td><td class=\"link\">")
		sb.WriteString(url)
		sb.WriteString("</td><td>")
		if link.Viewed() {
			sb.WriteString("<span class=\"opened\">Opened " + html.EscapeString(formatTime(link.ViewedAt)) + "</span>")
		} else {
			sb.WriteString("<span class=\"pending\">Not yet</span>")
		}
		sb.WriteString("</td></tr>\n")
	}
	sb.WriteString("</table>\n")
	sb.WriteString("</div>\n")
}

func (r *Renderer) writeRunsSection(sb *strings.Builder, runs []RunStatus) {
	if len(runs) == 0 {
		return
	}

	sb.WriteString("<div class=\"box\">\n")
	sb.WriteString("<h2>Recent draws</h2>\n")
	sb.WriteString("<table>\n")
	sb.WriteString("<tr><th>When</th><th>Participants</th><th>Families</th><th>Attempts</th><th>Intra-family</th><th>Cap</th><th>Opened</th></tr>\n")
	for _, run := range runs {
		sb.WriteString("<tr><td>")
		sb.WriteString(html.EscapeString(formatTime(run.CreatedAt)))
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.Itoa(run.Participants))
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.Itoa(run.Families))
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.Itoa(run.Attempts))
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.Itoa(run.IntraFamilyPairs))
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.Itoa(run.MaxIntraFamily) + " " + html.EscapeString(run.CapScope))
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.Itoa(run.Opened) + " / " + strconv.Itoa(run.Participants))
		sb.WriteString("</td></tr>\n")
	}
	sb.WriteString("</table>\n")
	sb.WriteString("</div>\n")
}

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}
