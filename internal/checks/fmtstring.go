package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// fmtScannerPath is the project-local scanner binary, built on demand
const fmtScannerPath = "scripts/fmtscan"

// FormatStringCheck delegates to the purpose-built format-string
// scanner over the staged sources. Mistakes in diagnostic strings are
// correctness-adjacent, so a non-zero scanner exit is a fatal
// violation. The check is skipped on darwin, where the scanner is
// known unsupported.
type FormatStringCheck struct {
	timeout time.Duration
	goos    string
}

// NewFormatStringCheck creates the format string stage
func NewFormatStringCheck(timeout time.Duration) *FormatStringCheck {
	return &FormatStringCheck{timeout: timeout, goos: runtime.GOOS}
}

// Name returns the stage name
func (c *FormatStringCheck) Name() string { return "format-strings" }

// Description returns what the stage verifies
func (c *FormatStringCheck) Description() string {
	return "Scan staged sources with the format-string checker"
}

// FatalOnViolation reports the abort policy
func (c *FormatStringCheck) FatalOnViolation() bool { return true }

// Run builds the scanner when missing and runs it over the staged sources
func (c *FormatStringCheck) Run(ctx context.Context, env *Env) Result {
	if c.goos == "darwin" {
		return passed(c.Name())
	}

	sources := env.Files.Sources()
	if len(sources) == 0 {
		return passed(c.Name())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	scanner := filepath.Join(env.Config.RepoRoot, fmtScannerPath)
	if _, err := os.Stat(scanner); os.IsNotExist(err) {
		makeTool, ok := env.Probe.Handle("make")
		if !ok {
			return execError(c.Name(), cgerrors.ErrToolNotFound, "make was not resolved by the tool probe")
		}
		if err := c.buildScanner(ctx, env.Config.RepoRoot, makeTool.Path); err != nil {
			return execError(c.Name(), err, "run 'make fmtscan' manually and inspect the build output")
		}
	}

	args := make([]string, 0, len(sources))
	for _, f := range sources {
		args = append(args, f.Path)
	}

	cmd := exec.CommandContext(ctx, scanner, args...) //nolint:gosec // Project-local tool
	cmd.Dir = env.Config.RepoRoot
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err == nil {
		return passed(c.Name())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msgs := []string{cgerrors.ErrFormatStringIssues.Error() + ":", output.String()}
		files := make([]string, 0, len(sources))
		for _, f := range sources {
			files = append(files, f.Path)
		}
		return violation(c.Name(), msgs, files,
			fmt.Sprintf("fix the strings reported by %s and re-stage", fmtScannerPath))
	}
	return execError(c.Name(), err, fmt.Sprintf("run '%s' manually to see what failed", fmtScannerPath))
}

// buildScanner builds the scanner via the project Makefile. A failed
// build is a fatal environment problem.
func (c *FormatStringCheck) buildScanner(ctx context.Context, repoRoot, makePath string) error {
	cmd := exec.CommandContext(ctx, makePath, "fmtscan") //nolint:gosec // Tool from the probe
	cmd.Dir = repoRoot
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return &cgerrors.EnvironmentError{
			Resource: fmtScannerPath,
			Reason:   fmt.Sprintf("scanner build failed: %s", bytes.TrimSpace(output.Bytes())),
			Hint:     "run 'make fmtscan' manually and fix the build",
			Err:      err,
		}
	}
	return nil
}
