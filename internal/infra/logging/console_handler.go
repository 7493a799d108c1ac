package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals
var (
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	attrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Underline(true)

	levelStyles = map[slog.Level]lipgloss.Style{
		slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// ConsoleHandler implements slog.Handler to format log records with colours
// and human-readable output suitable for a terminal.
type ConsoleHandler struct {
	// Output is the destination for log output (typically os.Stderr)
	Output io.Writer
	// Level is the minimum level for log records to be processed
	Level slog.Leveler
	// PkgLevels maps logger names to minimum log levels
	PkgLevels map[string]slog.Level
	// AddSource appends the calling function and file to each record
	AddSource bool

	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	attrs = append(attrs, h.attrs...)

	if !h.pkgEnabled(loggerName(attrs), r.Level) {
		return nil
	}

	var b strings.Builder

	b.WriteString(timeStyle.Render(r.Time.Format("15:04:05.000000")))
	b.WriteString(" ")
	b.WriteString(levelStyle(r.Level).Render("[" + r.Level.String() + "]"))
	b.WriteString(" ")
	b.WriteString(r.Message)

	var prefix string

	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	if len(attrs) > 0 {
		b.WriteString(" " + attrStyle.Render("|"))
		h.renderAttrs(&b, prefix, attrs)
	}

	if h.AddSource && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		fn := strings.Split(f.Function, string(os.PathSeparator))

		b.WriteString("\n-> " + attrStyle.Render(fn[len(fn)-1]+"()"))
		b.WriteString(" in " + sourceStyle.Render(f.File+":"+strconv.Itoa(f.Line)))
	}

	_, err := fmt.Fprintln(h.Output, b.String())

	return err //nolint:wrapcheck
}

// pkgEnabled applies the most specific package filter matching name.
// A filter for "svc" also covers "svc.cartsvc"; the empty key matches everything.
func (h *ConsoleHandler) pkgEnabled(name string, level slog.Level) bool {
	parts := strings.Split(name, ".")

	for i := len(parts); i >= 0; i-- {
		key := strings.Join(parts[:i], ".")

		if minLevel, ok := h.PkgLevels[key]; ok {
			return level >= minLevel
		}
	}

	return true
}

func (h *ConsoleHandler) renderAttrs(b *strings.Builder, prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		if attr.Value.Kind() == slog.KindGroup {
			h.renderAttrs(b, prefix+attr.Key+".", attr.Value.Group())

			continue
		}

		b.WriteString(" " + prefix + attr.Key + "=" + attrStyle.Render(attr.Value.String()))
	}
}

// WithAttrs implements slog.Handler.WithAttrs.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &clone
}

// WithGroup implements slog.Handler.WithGroup.
func (h *ConsoleHandler) WithGroup(name string) Handler {
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)

	return &clone
}

// Enabled implements slog.Handler.Enabled.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.Level.Level() <= level
}

func loggerName(attrs []slog.Attr) string {
	for _, attr := range attrs {
		if attr.Key == "logger" {
			return attr.Value.String()
		}
	}

	return ""
}

func levelStyle(level slog.Level) lipgloss.Style {
	if style, ok := levelStyles[level]; ok {
		return style
	}

	return lipgloss.NewStyle()
}
