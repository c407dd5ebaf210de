package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/commitgate/commitgate/internal/cppcheck"
	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// StaticAnalysisCheck runs the external analyzer once over all staged
// sources with a dynamically assembled configuration: the suppression
// catalog, one generated unmatched-suppression entry per tracked
// source file, and preprocessor defines matching the probed compiler.
// It is typically the slowest stage and must not hide results already
// computed, so violations accumulate.
type StaticAnalysisCheck struct {
	timeout time.Duration
}

// NewStaticAnalysisCheck creates the static analysis stage
func NewStaticAnalysisCheck(timeout time.Duration) *StaticAnalysisCheck {
	return &StaticAnalysisCheck{timeout: timeout}
}

// Name returns the stage name
func (c *StaticAnalysisCheck) Name() string { return "static-analysis" }

// Description returns what the stage verifies
func (c *StaticAnalysisCheck) Description() string {
	return "Run cppcheck over the staged sources"
}

// FatalOnViolation reports the abort policy
func (c *StaticAnalysisCheck) FatalOnViolation() bool { return false }

// Run assembles the analyzer configuration and invokes it once
func (c *StaticAnalysisCheck) Run(ctx context.Context, env *Env) Result {
	sources := env.Files.Sources()
	if len(sources) == 0 {
		return passed(c.Name())
	}

	handle, ok := env.Probe.Handle("cppcheck")
	if !ok {
		return execError(c.Name(), cgerrors.ErrToolNotFound, "cppcheck was not resolved by the tool probe")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	catalog, err := c.loadCatalog(env)
	if err != nil {
		return execError(c.Name(), err, "fix the suppression catalog and retry")
	}

	tracked, err := env.Repo.TrackedSourceFiles(ctx)
	if err != nil {
		return execError(c.Name(), err, "check that git can list tracked files")
	}

	args := []string{"--enable=all", "--error-exitcode=1", "--quiet", "--inline-suppr"}
	args = append(args, catalog.BuildArgs(tracked)...)

	// Feed the analyzer the dialect the real compiler would use; on
	// probe failure run without injected defines rather than abort.
	if tc, err := cppcheck.ProbeToolchain(ctx, env.Config.Tools.CC); err == nil {
		args = append(args, tc.Defines()...)
		if std := tc.Std(); std != "" {
			args = append(args, "--std="+std)
		}
	}

	var files []string
	for _, f := range sources {
		args = append(args, f.Path)
		files = append(files, f.Path)
	}

	cmd := exec.CommandContext(ctx, handle.Path, args...) //nolint:gosec // Analyzer path from the tool probe
	cmd.Dir = env.Config.RepoRoot
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err = cmd.Run()
	if err == nil {
		return passed(c.Name())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		msgs := []string{cgerrors.ErrAnalysisIssues.Error() + ":", strings.TrimSpace(output.String())}
		return violation(c.Name(), msgs, files,
			fmt.Sprintf("fix the diagnostics above or suppress false positives, then retry; reproduce with 'cppcheck %s'", strings.Join(files, " ")))
	}
	return execError(c.Name(), fmt.Errorf("cppcheck: %s: %w", strings.TrimSpace(output.String()), err),
		"run cppcheck manually to see what failed")
}

// loadCatalog picks the repo override when configured, otherwise the
// embedded default.
func (c *StaticAnalysisCheck) loadCatalog(env *Env) (*cppcheck.Catalog, error) {
	if env.Config.Paths.Suppressions != "" {
		return cppcheck.LoadCatalog(env.Config.Paths.Suppressions)
	}
	return cppcheck.DefaultCatalog()
}
