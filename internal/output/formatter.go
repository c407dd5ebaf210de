// Package output renders pipeline diagnostics and the change summary
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/commitgate/commitgate/internal/checks"
	cgerrors "github.com/commitgate/commitgate/internal/errors"
	"github.com/commitgate/commitgate/internal/git"
)

// Formatter handles all user-facing output. Diagnostics go to the
// error stream; the change summary goes to the output stream
// regardless of verdict. Color state is explicit, never global.
type Formatter struct {
	colorEnabled bool
	out          io.Writer
	err          io.Writer
}

// Options for configuring the formatter
type Options struct {
	ColorEnabled bool
	Out          io.Writer
	Err          io.Writer
}

// New creates a formatter with the given options
func New(opts Options) *Formatter {
	f := &Formatter{
		colorEnabled: opts.ColorEnabled,
		out:          opts.Out,
		err:          opts.Err,
	}
	if f.out == nil {
		f.out = os.Stdout
	}
	if f.err == nil {
		f.err = os.Stderr
	}
	return f
}

// ColorMode represents the color output mode
type ColorMode int

const (
	// ColorAuto automatically detects the best color setting
	ColorAuto ColorMode = iota
	// ColorAlways always enables color output
	ColorAlways
	// ColorNever never enables color output
	ColorNever
)

// NewWithColorMode creates a formatter with the specified color mode
func NewWithColorMode(mode ColorMode) *Formatter {
	return New(Options{ColorEnabled: shouldUseColor(mode)})
}

// NewDefault creates a formatter with auto-detected color settings
func NewDefault() *Formatter {
	return NewWithColorMode(ColorAuto)
}

// shouldUseColor determines if color output should be enabled
func shouldUseColor(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		if isCI() {
			return false
		}
		return isatty.IsTerminal(os.Stderr.Fd())
	default:
		return false
	}
}

// isCI detects common CI environments
func isCI() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"CIRCLECI",
		"TRAVIS",
		"BUILDKITE",
	}
	for _, envVar := range ciEnvVars {
		if value := os.Getenv(envVar); value == "true" || value == "1" || (envVar != "CI" && value != "") {
			return true
		}
	}
	return false
}

// Success prints a success message to the error stream
func (f *Formatter) Success(format string, args ...interface{}) {
	f.fprintf(f.err, color.FgGreen, "✓ "+format+"\n", args...)
}

// Error prints an error message to the error stream
func (f *Formatter) Error(format string, args ...interface{}) {
	f.fprintf(f.err, color.FgRed, "✗ "+format+"\n", args...)
}

// Warning prints a warning message to the error stream
func (f *Formatter) Warning(format string, args ...interface{}) {
	f.fprintf(f.err, color.FgYellow, "⚠ "+format+"\n", args...)
}

// Info prints an informational message to the error stream
func (f *Formatter) Info(format string, args ...interface{}) {
	f.fprintf(f.err, color.FgBlue, "ℹ "+format+"\n", args...)
}

// Detail prints indented detail lines to the error stream
func (f *Formatter) Detail(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		_, _ = fmt.Fprintf(f.err, "  %s\n", line)
	}
}

// Suggest prints an actionable remediation hint
func (f *Formatter) Suggest(hint string) {
	if hint == "" {
		return
	}
	f.fprintf(f.err, color.FgMagenta, "→ %s\n", hint)
}

// StageResult renders one stage result as it arrives
func (f *Formatter) StageResult(result checks.Result) {
	switch result.Status {
	case checks.Pass:
		f.Success("%s", result.Stage)
	case checks.Violation:
		f.Error("%s", result.Stage)
		for _, msg := range result.Messages {
			f.Detail(msg)
		}
		f.Suggest(result.Suggestion)
	case checks.Error:
		f.Error("%s could not run", result.Stage)
		for _, msg := range result.Messages {
			f.Detail(msg)
		}
		f.Suggest(result.Suggestion)
	}
}

// EnvironmentError renders a fatal pre-stage failure
func (f *Formatter) EnvironmentError(err *cgerrors.EnvironmentError) {
	f.Error("environment: %s", err.Error())
	f.Suggest(err.Hint)
}

// ChangeSummary renders the per-file insertion/deletion breakdown to
// the output stream. It is printed for every run, accepted or not.
func (f *Formatter) ChangeSummary(summary *git.ChangeSummary) {
	if summary == nil || len(summary.Files) == 0 {
		return
	}

	width := 0
	for _, stat := range summary.Files {
		if len(stat.Path) > width {
			width = len(stat.Path)
		}
	}

	for _, stat := range summary.Files {
		if stat.Binary {
			_, _ = fmt.Fprintf(f.out, " %-*s | Bin\n", width, stat.Path)
			continue
		}
		_, _ = fmt.Fprintf(f.out, " %-*s | %d %s\n", width, stat.Path,
			stat.Insertions+stat.Deletions, plusMinus(stat.Insertions, stat.Deletions))
	}

	_, _ = fmt.Fprintf(f.out, " %d file%s changed, %d insertions(+), %d deletions(-)\n",
		len(summary.Files), pluralSuffix(len(summary.Files)), summary.Insertions, summary.Deletions)
}

// fprintf writes with optional color
func (f *Formatter) fprintf(w io.Writer, attr color.Attribute, format string, args ...interface{}) {
	if f.colorEnabled {
		_, _ = color.New(attr).Fprintf(w, format, args...)
		return
	}
	_, _ = fmt.Fprintf(w, format, args...)
}

// plusMinus builds the "+++---" bar of a diffstat line
func plusMinus(insertions, deletions int) string {
	const maxBar = 40
	total := insertions + deletions
	if total > maxBar {
		insertions = insertions * maxBar / total
		deletions = deletions * maxBar / total
	}
	return strings.Repeat("+", insertions) + strings.Repeat("-", deletions)
}

// pluralSuffix returns "s" for counts other than one
func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
