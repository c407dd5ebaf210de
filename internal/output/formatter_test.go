package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commitgate/commitgate/internal/checks"
	cgerrors "github.com/commitgate/commitgate/internal/errors"
	"github.com/commitgate/commitgate/internal/git"
)

// newTestFormatter returns a colorless formatter with captured streams
func newTestFormatter() (*Formatter, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	f := New(Options{ColorEnabled: false, Out: out, Err: errBuf})
	return f, out, errBuf
}

func TestShouldUseColor(t *testing.T) {
	assert.True(t, shouldUseColor(ColorAlways))
	assert.False(t, shouldUseColor(ColorNever))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, shouldUseColor(ColorAuto))
}

func TestShouldUseColorDumbTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.False(t, shouldUseColor(ColorAuto))
}

func TestShouldUseColorCI(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm")
	t.Setenv("CI", "true")
	assert.False(t, shouldUseColor(ColorAuto))
}

func TestMessagesGoToErrorStream(t *testing.T) {
	f, out, errBuf := newTestFormatter()

	f.Success("all stages passed")
	f.Error("stage failed")
	f.Warning("gate disabled")
	f.Info("10 stages registered")

	assert.Empty(t, out.String(), "diagnostics must not pollute stdout")
	assert.Contains(t, errBuf.String(), "✓ all stages passed")
	assert.Contains(t, errBuf.String(), "✗ stage failed")
	assert.Contains(t, errBuf.String(), "⚠ gate disabled")
	assert.Contains(t, errBuf.String(), "ℹ 10 stages registered")
}

func TestStageResultPass(t *testing.T) {
	f, _, errBuf := newTestFormatter()

	f.StageResult(checks.Result{Stage: "conflict-markers", Status: checks.Pass})
	assert.Equal(t, "✓ conflict-markers\n", errBuf.String())
}

func TestStageResultViolation(t *testing.T) {
	f, _, errBuf := newTestFormatter()

	f.StageResult(checks.Result{
		Stage:      "banned-functions",
		Status:     checks.Violation,
		Messages:   []string{"a.c:1: call to strcpy"},
		Suggestion: "use strlcpy instead",
	})

	got := errBuf.String()
	assert.Contains(t, got, "✗ banned-functions")
	assert.Contains(t, got, "  a.c:1: call to strcpy")
	assert.Contains(t, got, "→ use strlcpy instead")
}

func TestStageResultError(t *testing.T) {
	f, _, errBuf := newTestFormatter()

	f.StageResult(checks.Result{
		Stage:    "static-analysis",
		Status:   checks.Error,
		Messages: []string{"cppcheck crashed"},
	})

	got := errBuf.String()
	assert.Contains(t, got, "✗ static-analysis could not run")
	assert.Contains(t, got, "  cppcheck crashed")
}

func TestEnvironmentError(t *testing.T) {
	f, _, errBuf := newTestFormatter()

	f.EnvironmentError(cgerrors.NewEnvironmentError("aspell", "not found in PATH", "apt install aspell"))

	got := errBuf.String()
	assert.Contains(t, got, "aspell")
	assert.Contains(t, got, "→ apt install aspell")
}

func TestChangeSummary(t *testing.T) {
	f, out, errBuf := newTestFormatter()

	f.ChangeSummary(&git.ChangeSummary{
		Files: []git.FileStat{
			{Path: "queue.c", Insertions: 3, Deletions: 1},
			{Path: "img.png", Binary: true},
		},
		Insertions: 3,
		Deletions:  1,
	})

	got := out.String()
	assert.Empty(t, errBuf.String(), "the summary belongs on stdout")
	assert.Contains(t, got, "queue.c")
	assert.Contains(t, got, "| 4 +++-")
	assert.Contains(t, got, "img.png")
	assert.Contains(t, got, "| Bin")
	assert.Contains(t, got, "2 files changed, 3 insertions(+), 1 deletions(-)")
}

func TestChangeSummaryEmpty(t *testing.T) {
	f, out, _ := newTestFormatter()

	f.ChangeSummary(nil)
	f.ChangeSummary(&git.ChangeSummary{})
	assert.Empty(t, out.String())
}

func TestPlusMinusScalesLargeChanges(t *testing.T) {
	bar := plusMinus(300, 100)
	assert.LessOrEqual(t, len(bar), 40)
	assert.Contains(t, bar, "+")
	assert.Contains(t, bar, "-")

	assert.Equal(t, "++", plusMinus(2, 0))
	assert.Equal(t, "", plusMinus(0, 0))
}
