// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/weld/internal/ui/output"
	"go.trai.ch/weld/internal/ui/style"
)

// moduleKey is the attribute rendered as a "[module] " line prefix, the way the
// linear build output labels its lines.
const moduleKey = "module"

type levelMark struct {
	icon  string
	color lipgloss.Color
}

var levelMarks = map[slog.Level]levelMark{
	slog.LevelWarn:  {icon: style.Warning, color: style.Yellow},
	slog.LevelError: {icon: style.Cross, color: style.Red},
}

// PrettyHandler is a slog.Handler writing one coloured line per record.
// Attributes added through WithAttrs are rendered once, under the group that was
// open when they were added.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	module string
	fields []string
	group  string
}

// NewPrettyHandler creates a PrettyHandler writing to w, or os.Stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record as "<mark> [module] message key=value...".
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	mark, ok := levelMarks[r.Level]
	if !ok {
		mark = levelMark{color: style.Slate}
	}

	module := h.module
	fields := slices.Clone(h.fields)
	r.Attrs(func(attr slog.Attr) bool {
		module, fields = h.appendAttr(module, fields, attr)
		return true
	})

	var line strings.Builder
	if mark.icon != "" {
		line.WriteString(mark.icon + " ")
	}
	if module != "" {
		line.WriteString("[" + module + "] ")
	}
	line.WriteString(r.Message)
	if len(fields) > 0 {
		line.WriteString(" " + strings.Join(fields, " "))
	}

	styled := h.out.String(line.String()).Foreground(termenv.RGBColor(string(mark.color)))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = slices.Clone(h.fields)
	for _, attr := range attrs {
		next.module, next.fields = h.appendAttr(next.module, next.fields, attr)
	}
	return &next
}

// appendAttr routes an ungrouped string module attribute to the prefix and renders
// everything else as a field.
func (h *PrettyHandler) appendAttr(module string, fields []string, attr slog.Attr) (string, []string) {
	if h.group == "" && attr.Key == moduleKey && attr.Value.Kind() == slog.KindString {
		return attr.Value.String(), fields
	}
	return module, append(fields, formatAttr(h.group, attr))
}

// WithGroup returns a handler that prefixes attribute keys with name.
// An empty name returns the receiver unchanged.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

// formatAttr renders key=value. Group values are flattened into dotted keys and
// values containing whitespace are quoted.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}

	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		parts := make([]string, 0, len(value.Group()))
		for _, sub := range value.Group() {
			parts = append(parts, formatAttr(key, sub))
		}
		return strings.Join(parts, " ")
	}

	s := value.String()
	if strings.ContainsAny(s, " \t\n") {
		s = strconv.Quote(s)
	}
	return key + "=" + s
}
