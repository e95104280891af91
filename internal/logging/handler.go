// Package logging provides the slog handlers used by the CLI.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format selects the log output format.
type Format string

const (
	// FormatText writes human-readable lines.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// New creates a logger writing to w in the given format.
//
// Parameters:
//   - w: destination (os.Stderr when nil)
//   - format: FormatText or FormatJSON (anything else means text)
//   - verbose: enables Debug level
//
// Returns a configured *slog.Logger.
func New(w io.Writer, format Format, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop timestamps from text output; the CLI runs are short-lived.
			if format != FormatJSON && len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewHumanReadableHandler(w, opts))
}

// HumanReadableHandler is a custom slog handler that formats logs as
// "message (key=value, key=value)".
type HumanReadableHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	opts   slog.HandlerOptions
	attrs  []slog.Attr // pre-formatted with group prefix applied
	group  string      // dotted prefix for attributes added later
}

// NewHumanReadableHandler creates a new human-readable log handler.
func NewHumanReadableHandler(w io.Writer, opts *slog.HandlerOptions) *HumanReadableHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &HumanReadableHandler{
		mu:     &sync.Mutex{},
		writer: w,
		opts:   *opts,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *HumanReadableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes the log record.
func (h *HumanReadableHandler) Handle(ctx context.Context, r slog.Record) error {
	// Record fields go through ReplaceAttr like any other attribute so it can
	// filter time, level, and msg.
	attrs := []slog.Attr{
		slog.Time(slog.TimeKey, r.Time),
		slog.Any(slog.LevelKey, r.Level),
		slog.String(slog.MessageKey, r.Message),
	}
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))
		return true
	})

	var msg string
	var hasMsg bool
	var others []slog.Attr
	for _, a := range attrs {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}
		if a.Key == "" {
			continue
		}
		switch a.Key {
		case slog.MessageKey:
			msg, hasMsg = a.Value.String(), true
		case slog.LevelKey:
			// Info is the common case and stays implicit.
			if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == slog.LevelInfo {
				continue
			}
			others = append(others, a)
		default:
			others = append(others, a)
		}
	}

	var buf strings.Builder
	if hasMsg {
		buf.WriteString(msg)
	}
	if len(others) > 0 {
		if hasMsg {
			buf.WriteString(" (")
		}
		for i, a := range others {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeAttr(&buf, a)
		}
		if hasMsg {
			buf.WriteString(")")
		}
	}
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, buf.String())
	return err
}

// WithAttrs returns a new handler with the given attributes.
func (h *HumanReadableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

// WithGroup returns a new handler with the given group name.
func (h *HumanReadableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.group + name + "."
	return &clone
}

func (h *HumanReadableHandler) qualify(a slog.Attr) slog.Attr {
	if h.group == "" {
		return a
	}
	return slog.Attr{Key: h.group + a.Key, Value: a.Value}
}

func writeAttr(buf *strings.Builder, a slog.Attr) {
	if a.Value.Kind() == slog.KindGroup {
		for i, ga := range a.Value.Group() {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeAttr(buf, slog.Attr{Key: a.Key + "." + ga.Key, Value: ga.Value})
		}
		return
	}

	buf.WriteString(a.Key)
	buf.WriteString("=")
	// Quote strings that contain spaces or '='
	val := a.Value.Resolve().Any()
	if str, ok := val.(string); ok && (strings.Contains(str, " ") || strings.Contains(str, "=")) {
		buf.WriteString(`"`)
		buf.WriteString(str)
		buf.WriteString(`"`)
		return
	}
	fmt.Fprintf(buf, "%v", val)
}
