package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color" // Colorized printf helpers, one *color.Color per level
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode selects how the logger decides whether to emit ANSI colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Color only when stdout is a terminal and the environment allows it
	ColorAlways ColorMode = "always" // Always emit ANSI sequences
	ColorNever  ColorMode = "never"  // Never emit ANSI sequences
)

// ParseColorMode converts a --color flag value into a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto|always|never)", s)
}

// Logger prints leveled, colorized messages to a single writer.
// A Logger is built once at startup and handed to every component that prints,
// so color and debug settings are never read from package globals.
type Logger struct {
	out     io.Writer
	debug   bool
	info    *color.Color
	warn    *color.Color
	err     *color.Color
	note    *color.Color
	section *color.Color
	trace   *color.Color
}

// New builds a Logger writing to out.
//   - useColor: whether ANSI sequences are emitted at all.
//   - debug: whether Debug messages are printed.
func New(out io.Writer, useColor, debug bool) *Logger {
	l := &Logger{
		out:     out,
		debug:   debug,
		info:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow, color.Bold),
		err:     color.New(color.FgRed),
		note:    color.New(color.FgBlue),
		section: color.New(color.FgCyan),
		trace:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{l.info, l.warn, l.err, l.note, l.section, l.trace} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return l
}

// NewStdout builds the process logger on stdout, resolving mode against the
// terminal and the NO_COLOR / CLICOLOR_FORCE conventions.
func NewStdout(mode ColorMode, debug bool) *Logger {
	return New(colorable.NewColorableStdout(), ShouldColor(mode, os.Stdout), debug)
}

// ShouldColor resolves a ColorMode for the given output file.
func ShouldColor(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f == nil {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).EnvColorProfile() != termenv.Ascii
}

// Discard returns a Logger that prints nothing. Useful in tests.
func Discard() *Logger {
	return New(io.Discard, false, false)
}

// Writer exposes the underlying writer for plain, uncolored output.
func (l *Logger) Writer() io.Writer { return l.out }

// Info prints a success or progress message in green.
func (l *Logger) Info(format string, a ...any) { _, _ = l.info.Fprintf(l.out, format, a...) }

// Warn prints a warning in bold yellow.
func (l *Logger) Warn(format string, a ...any) { _, _ = l.warn.Fprintf(l.out, format, a...) }

// Error prints a failure in red.
func (l *Logger) Error(format string, a ...any) { _, _ = l.err.Fprintf(l.out, format, a...) }

// Note prints neutral detail (paths, chosen values) in blue.
func (l *Logger) Note(format string, a ...any) { _, _ = l.note.Fprintf(l.out, format, a...) }

// Plain prints without color.
func (l *Logger) Plain(format string, a ...any) { _, _ = fmt.Fprintf(l.out, format, a...) }

// Debug prints a cyan trace line only when debug output is enabled.
func (l *Logger) Debug(format string, a ...any) {
	if !l.debug {
		return
	}
	_, _ = l.trace.Fprintf(l.out, format, a...)
}

// Section prints a framed heading used between setup stages.
func (l *Logger) Section(title string) {
	const rule = "════════════════════════════════════════════════════════════"
	l.Plain("\n")
	_, _ = l.section.Fprintln(l.out, rule)
	_, _ = l.section.Fprintf(l.out, "%24s%s\n", "", title)
	_, _ = l.section.Fprintln(l.out, rule)
	l.Plain("\n")
}

// Colorize wraps s in the note color, for embedding values inside other output.
func (l *Logger) Colorize(s string) string { return l.note.Sprint(s) }
