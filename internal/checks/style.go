package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// StyleConformanceCheck runs the formatter over every staged source
// blob and reports any file whose formatted output differs. It
// accumulates across all files so a developer sees every
// non-conforming file in one run.
type StyleConformanceCheck struct {
	timeout time.Duration
}

// NewStyleConformanceCheck creates the style stage
func NewStyleConformanceCheck(timeout time.Duration) *StyleConformanceCheck {
	return &StyleConformanceCheck{timeout: timeout}
}

// Name returns the stage name
func (c *StyleConformanceCheck) Name() string { return "style" }

// Description returns what the stage verifies
func (c *StyleConformanceCheck) Description() string {
	return "Verify staged sources match the clang-format style"
}

// FatalOnViolation reports the abort policy
func (c *StyleConformanceCheck) FatalOnViolation() bool { return false }

// Run checks each staged source blob. The staged content is
// materialized in a private temporary directory so concurrent or
// repeated invocations never collide, and uncommitted working tree
// edits never influence the verdict.
func (c *StyleConformanceCheck) Run(ctx context.Context, env *Env) Result {
	sources := env.Files.Sources()
	if len(sources) == 0 {
		return passed(c.Name())
	}

	clangFormat, ok := env.Probe.Handle("clang-format")
	if !ok {
		return execError(c.Name(), cgerrors.ErrToolNotFound, "clang-format was not resolved by the tool probe")
	}
	diffTool, ok := env.Probe.Handle("diff")
	if !ok {
		return execError(c.Name(), cgerrors.ErrToolNotFound, "no diff tool was resolved by the tool probe")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "commitgate-style-*")
	if err != nil {
		return execError(c.Name(), err, "check that the system temp directory is writable")
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	// Point the formatter at the configured style file when it exists;
	// otherwise --style=file searches upward from the assumed filename.
	styleArg := "--style=file"
	if sf := env.Config.Paths.StyleFile; sf != "" {
		if abs := filepath.Join(env.Config.RepoRoot, sf); fileExists(abs) {
			styleArg = "--style=file:" + abs
		}
	}

	var messages []string
	var files []string

	for i, file := range sources {
		staged, err := env.Repo.StagedContent(ctx, file.Path)
		if err != nil {
			return execError(c.Name(), err, "check that git can read the staged blobs")
		}

		diff, err := c.formatDiff(ctx, tmpDir, i, file.Path, staged, clangFormat.Path, diffTool.Path, env.Config.RepoRoot, styleArg)
		if err != nil {
			return execError(c.Name(), err, fmt.Sprintf("run '%s %s' manually to see what failed", clangFormat.Path, file.Path))
		}

		if diff != "" {
			messages = append(messages, fmt.Sprintf("%s is not formatted:\n%s", file.Path, diff))
			files = append(files, file.Path)
		}
	}

	if len(files) > 0 {
		msgs := append([]string{cgerrors.ErrStyleIssues.Error() + ":"}, messages...)
		return violation(c.Name(), msgs, files,
			"run clang-format -i on the listed files and re-stage them")
	}
	return passed(c.Name())
}

// fileExists reports whether path names an existing file
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// formatDiff materializes one staged blob privately, formats it, and
// returns the unified diff between the blob and the formatter output.
// Empty means conforming.
func (c *StyleConformanceCheck) formatDiff(ctx context.Context, tmpDir string, seq int, path string, staged []byte, clangFormat, diffTool, repoRoot, styleArg string) (string, error) {
	// The materialized copy only feeds the diff; the sequence number
	// keeps files with equal basenames apart.
	base := fmt.Sprintf("%03d-%s", seq, filepath.Base(path))
	stagedCopy := filepath.Join(tmpDir, base)
	if err := os.WriteFile(stagedCopy, staged, 0o600); err != nil {
		return "", fmt.Errorf("failed to materialize staged blob for %s: %w", path, err)
	}

	// The blob goes in on stdin: clang-format honors --assume-filename
	// for stdin input only, and the repo path anchors both language
	// detection and the --style=file config search at the project.
	formatCmd := exec.CommandContext(ctx, clangFormat, //nolint:gosec // Path from LookPath
		styleArg, "--assume-filename="+filepath.Join(repoRoot, path))
	formatCmd.Stdin = bytes.NewReader(staged)
	var formatted, formatErr bytes.Buffer
	formatCmd.Stdout = &formatted
	formatCmd.Stderr = &formatErr

	if err := formatCmd.Run(); err != nil {
		return "", fmt.Errorf("clang-format failed on %s: %s: %w", path, bytes.TrimSpace(formatErr.Bytes()), err)
	}

	formattedCopy := stagedCopy + ".formatted"
	if err := os.WriteFile(formattedCopy, formatted.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write formatted copy for %s: %w", path, err)
	}

	diffCmd := exec.CommandContext(ctx, diffTool, "-u", stagedCopy, formattedCopy) //nolint:gosec // Path from LookPath
	var diffOut bytes.Buffer
	diffCmd.Stdout = &diffOut

	err := diffCmd.Run()
	if err == nil {
		return "", nil
	}
	// diff exits 1 when the files differ, anything else is a tool failure
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return diffOut.String(), nil
	}
	return "", fmt.Errorf("diff failed on %s: %w", path, err)
}
