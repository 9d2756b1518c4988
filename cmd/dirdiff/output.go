package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"dirdiff/internal/diff"
	"dirdiff/internal/logging"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// consoleReporter prints progress in cyan and errors in red.
type consoleReporter struct {
	mu   sync.Mutex
	out  io.Writer
	info *color.Color
	err  *color.Color
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{
		out:  out,
		info: color.New(color.FgCyan),
		err:  color.New(color.FgRed),
	}
}

func (r *consoleReporter) Message(msg string, fields ...zap.Field) {
	r.print(r.info, msg, fields)
}

func (r *consoleReporter) Error(msg string, fields ...zap.Field) {
	r.print(r.err, msg, fields)
}

func (r *consoleReporter) print(c *color.Color, msg string, fields []zap.Field) {
	line := render(msg, fields)
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Fprintln(r.out, line)
}

// render appends the fields to msg as sorted key=value pairs.
func render(msg string, fields []zap.Field) string {
	if len(fields) == 0 {
		return msg
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	var b strings.Builder
	b.WriteString(msg)
	for _, k := range slices.Sorted(maps.Keys(enc.Fields)) {
		fmt.Fprintf(&b, " %s=%v", k, enc.Fields[k])
	}
	return b.String()
}

// errorsOnly drops progress messages.
type errorsOnly struct {
	logging.Reporter
}

func (errorsOnly) Message(string, ...zap.Field) {}

var (
	headerColor    = color.New(color.FgCyan, color.Bold)
	sectionColor   = color.New(color.Bold)
	differentColor = color.New(color.FgYellow)
	leftColor      = color.New(color.FgRed)
	rightColor     = color.New(color.FgGreen)
	renamedColor   = color.New(color.FgMagenta)
)

func printColoredResult(w io.Writer, r *diff.Result) {
	lines := strings.Split(strings.TrimSuffix(r.Format(), "\n"), "\n")
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			headerColor.Fprintln(w, line)
		case strings.HasPrefix(line, diff.MarkerIdentical+" "):
			fmt.Fprintln(w, line)
		case strings.HasPrefix(line, diff.MarkerDifferent+" "):
			differentColor.Fprintln(w, line)
		case strings.HasPrefix(line, diff.MarkerUniqueLeft+" "):
			leftColor.Fprintln(w, line)
		case strings.HasPrefix(line, diff.MarkerUniqueRight+" "):
			rightColor.Fprintln(w, line)
		case strings.HasPrefix(line, diff.MarkerRenamed+" "):
			renamedColor.Fprintln(w, line)
		default:
			sectionColor.Fprintln(w, line)
		}
	}
}

func summaryLine(r *diff.Result) string {
	s := r.Summary()
	return fmt.Sprintf("%d identical, %d different, %d unique left, %d unique right, %d renamed or duplicated",
		s.Identical, s.Different, s.UniqueLeft, s.UniqueRight, s.Renamed)
}
