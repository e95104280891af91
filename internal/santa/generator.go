package santa

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rampantspark/giftdraw/internal/random"
)

// DefaultMaxAttempts is the attempt budget used when none is configured.
const DefaultMaxAttempts = 1000

// CapScope selects how intra-family pairings are counted against the cap.
type CapScope string

const (
	// CapGlobal counts intra-family pairings across all families together.
	CapGlobal CapScope = "global"
	// CapPerFamily applies the cap to each family separately.
	CapPerFamily CapScope = "per-family"
)

// ParseCapScope parses a cap scope name. An empty string means CapGlobal.
func ParseCapScope(s string) (CapScope, error) {
	switch CapScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", CapGlobal:
		return CapGlobal, nil
	case CapPerFamily, "family", "perfamily":
		return CapPerFamily, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidCapScope, s, CapGlobal, CapPerFamily)
	}
}

// Rand is the randomness the generator needs. *random.Source implements it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Generator draws constrained assignments.
//
// A Generator holds no per-draw state and may be reused. It is safe for
// concurrent use when its Rand is.
type Generator struct {
	rand        Rand
	maxAttempts int
	scope       CapScope
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxAttempts sets the attempt budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithCapScope sets how intra-family pairings are counted.
func WithCapScope(scope CapScope) Option {
	return func(g *Generator) {
		if scope != "" {
			g.scope = scope
		}
	}
}

// WithLogger sets the logger used to report attempt statistics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a new generator.
//
// Parameters:
//   - rand: randomness for shuffling and choosing recipients (nil uses a
//     crypto-seeded random.Source)
//   - opts: optional settings (attempt budget, cap scope, logger)
//
// Returns a new Generator instance.
func NewGenerator(rand Rand, opts ...Option) *Generator {
	g := &Generator{
		rand:        rand,
		maxAttempts: DefaultMaxAttempts,
		scope:       CapGlobal,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if g.rand == nil {
		g.rand = random.NewSource()
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxAttempts returns the attempt budget.
func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Scope returns the cap scope.
func (g *Generator) Scope() CapScope {
	return g.scope
}

// Generate draws an assignment with crypto randomness and default settings.
func Generate(participants []Participant, maxIntraFamily int) (Assignment, error) {
	return NewGenerator(random.NewSource()).Generate(participants, maxIntraFamily)
}

// Generate draws an assignment for participants with at most maxIntraFamily
// same-family pairings (counted according to the generator's cap scope).
//
// Each attempt shuffles the giving order, then gives every giver a random
// recipient from the remaining pool, excluding themself and preferring other
// families whenever more than one candidate is left and at least one of them
// is from another family. The attempt is abandoned when a giver has no
// candidate or the cap is exceeded.
//
// The caller's slice is not modified.
//
// Returns the assignment, or an error wrapping ErrGenerationExhausted when
// every attempt failed. Invalid input returns ErrNoParticipants, ErrInvalidCap
// or ErrDuplicateParticipant without attempting a draw.
func (g *Generator) Generate(participants []Participant, maxIntraFamily int) (Assignment, error) {
	if len(participants) == 0 {
		return Assignment{}, ErrNoParticipants
	}
	if maxIntraFamily < 0 {
		return Assignment{}, fmt.Errorf("%w: %d", ErrInvalidCap, maxIntraFamily)
	}

	position := make(map[string]int, len(participants))
	for i, p := range participants {
		if _, dup := position[p.Name]; dup {
			return Assignment{}, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.Name)
		}
		position[p.Name] = i
	}

	d := newDraw(participants, g.scope, maxIntraFamily)
	var deadEnds, capBreaks int

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		result := d.attempt(g.rand)
		if result != attemptOK {
			g.logger.Debug("Draw attempt failed", "attempt", attempt, "reason", result.String())
		}
		switch result {
		case attemptOK:
			pairs := make([]Pair, len(participants))
			for _, p := range d.pairs {
				pairs[position[p.Giver.Name]] = p
			}
			a := Assignment{Pairs: pairs, Attempts: attempt}
			g.logger.Debug("Draw succeeded",
				"attempts", attempt,
				"participants", len(participants),
				"intra_family", a.IntraFamilyCount())
			return a, nil
		case attemptDeadEnd:
			deadEnds++
		case attemptCapExceeded:
			capBreaks++
		}
	}

	g.logger.Warn("Draw exhausted attempt budget",
		"attempts", g.maxAttempts,
		"participants", len(participants),
		"max_intra_family", maxIntraFamily,
		"scope", string(g.scope),
		"dead_ends", deadEnds,
		"cap_exceeded", capBreaks)

	return Assignment{}, fmt.Errorf("%w: %d attempts, %d participants, max intra-family %d (%s)",
		ErrGenerationExhausted, g.maxAttempts, len(participants), maxIntraFamily, g.scope)
}

type attemptResult int

const (
	attemptOK attemptResult = iota
	attemptDeadEnd
	attemptCapExceeded
)

func (r attemptResult) String() string {
	switch r {
	case attemptOK:
		return "ok"
	case attemptDeadEnd:
		return "dead end"
	case attemptCapExceeded:
		return "cap exceeded"
	default:
		return "unknown"
	}
}

// draw holds the scratch buffers reused across attempts of one Generate call.
type draw struct {
	order      []Participant
	pool       []Participant
	candidates []Participant
	inter      []Participant
	pairs      []Pair
	counter    familyCounter
}

func newDraw(participants []Participant, scope CapScope, maxIntraFamily int) *draw {
	n := len(participants)
	return &draw{
		order:      append(make([]Participant, 0, n), participants...),
		pool:       make([]Participant, 0, n),
		candidates: make([]Participant, 0, n),
		inter:      make([]Participant, 0, n),
		pairs:      make([]Pair, 0, n),
		counter:    familyCounter{scope: scope, max: maxIntraFamily},
	}
}

func (d *draw) attempt(rnd Rand) attemptResult {
	rnd.Shuffle(len(d.order), func(i, j int) { d.order[i], d.order[j] = d.order[j], d.order[i] })
	d.pool = append(d.pool[:0], d.order...)
	d.pairs = d.pairs[:0]
	d.counter.reset()

	for _, giver := range d.order {
		d.candidates = d.candidates[:0]
		for _, r := range d.pool {
			if r.Name != giver.Name {
				d.candidates = append(d.candidates, r)
			}
		}

		choices := d.candidates
		if len(choices) > 1 {
			d.inter = d.inter[:0]
			for _, r := range choices {
				if r.Family != giver.Family {
					d.inter = append(d.inter, r)
				}
			}
			if len(d.inter) > 0 {
				choices = d.inter
			}
		}

		if len(choices) == 0 {
			return attemptDeadEnd
		}

		chosen := choices[rnd.Intn(len(choices))]
		d.removeFromPool(chosen.Name)
		d.pairs = append(d.pairs, Pair{Giver: giver, Recipient: chosen})

		if chosen.Family == giver.Family && d.counter.add(giver.Family) {
			return attemptCapExceeded
		}
	}

	return attemptOK
}

func (d *draw) removeFromPool(name string) {
	for i, r := range d.pool {
		if r.Name == name {
			d.pool = append(d.pool[:i], d.pool[i+1:]...)
			return
		}
	}
}

// familyCounter counts intra-family pairings within one attempt.
type familyCounter struct {
	scope     CapScope
	max       int
	total     int
	perFamily map[string]int
}

func (c *familyCounter) reset() {
	c.total = 0
	clear(c.perFamily)
}

// add records one intra-family pairing and reports whether the cap is now
// exceeded.
func (c *familyCounter) add(family string) bool {
	if c.scope == CapPerFamily {
		if c.perFamily == nil {
			c.perFamily = make(map[string]int)
		}
		c.perFamily[family]++
		return c.perFamily[family] > c.max
	}
	c.total++
	return c.total > c.max
}
