package content

import (
	_ "embed"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rampantspark/giftdraw/internal/santa"
)

// DefaultTemplate is used when no template file is configured.
//
//go:embed template.html
var DefaultTemplate string

// ErrFileNameCollision is returned when two givers map to the same page
// file name.
var ErrFileNameCollision = errors.New("page file name collision")

// Page is one rendered instruction page.
type Page struct {
	Giver    santa.Participant
	FileName string
	HTML     string
}

// Renderer fills the instruction template for each pair.
type Renderer struct {
	template string
	lang     Language
	budget   int
	currency string
	image    string // base64 payload, inserted unescaped
	year     int
}

// NewRenderer creates a new page renderer.
//
// Parameters:
//   - template: HTML template content; empty uses DefaultTemplate
//   - lang: page language tag, matched against the supported greetings
//   - budget: maximum gift budget shown on every page
//   - currency: currency symbol shown next to the budget
//   - imageBase64: base64-encoded picture (see EncodeImage), may be empty
//
// Returns a new Renderer instance.
func NewRenderer(template, lang string, budget int, currency, imageBase64 string) *Renderer {
	if template == "" {
		template = DefaultTemplate
	}
	return &Renderer{
		template: template,
		lang:     MatchLanguage(lang),
		budget:   budget,
		currency: currency,
		image:    imageBase64,
		year:     time.Now().Year(),
	}
}

// Language returns the matched page language.
func (r *Renderer) Language() Language {
	return r.lang
}

// Render returns the page telling pair.Giver who to buy for.
//
// Every value except the image payload is HTML-escaped.
func (r *Renderer) Render(pair santa.Pair) string {
	replacer := strings.NewReplacer(
		PlaceholderImage, r.image,
		PlaceholderGreeting, html.EscapeString(Greeting(pair.Giver, r.lang)),
		PlaceholderAssignedTo, html.EscapeString(pair.Recipient.Name),
		PlaceholderMaxBudget, strconv.Itoa(r.budget),
		PlaceholderCurrency, html.EscapeString(r.currency),
		PlaceholderYear, strconv.Itoa(r.year),
	)
	return replacer.Replace(r.template)
}

// RenderAll renders one page per pair, in assignment order.
//
// Returns an error wrapping ErrFileNameCollision when two givers would
// share a page file, for example "A/B" and "A_B". Names that differ only
// in case also collide, since some file systems ignore case.
func (r *Renderer) RenderAll(a santa.Assignment) ([]Page, error) {
	pages := make([]Page, 0, len(a.Pairs))
	owners := make(map[string]string, len(a.Pairs))
	for _, pair := range a.Pairs {
		name := FileName(pair.Giver.Name)
		if other, taken := owners[strings.ToLower(name)]; taken {
			return nil, fmt.Errorf("%w: %q and %q both map to %s", ErrFileNameCollision, other, pair.Giver.Name, name)
		}
		owners[strings.ToLower(name)] = pair.Giver.Name

		pages = append(pages, Page{
			Giver:    pair.Giver,
			FileName: name,
			HTML:     r.Render(pair),
		})
	}
	return pages, nil
}

// FileName returns the page file name for a participant name.
//
// Path separators, control characters and leading dots are dropped so the
// result always names a file directly inside the output directory.
func FileName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':':
			sb.WriteRune('_')
		case unicode.IsControl(r):
		default:
			sb.WriteRune(r)
		}
	}
	safe := strings.TrimLeft(strings.TrimSpace(sb.String()), ".")
	if safe == "" {
		safe = "participant"
	}
	return safe + PageExtension
}
