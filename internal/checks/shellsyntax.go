package checks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// ShellSyntaxCheck parses the maintained automation scripts with the
// shell's parse-only mode. A syntax error here is a correctness break
// for the gate itself, so any failure is fatal.
type ShellSyntaxCheck struct {
	timeout time.Duration
}

// NewShellSyntaxCheck creates the shell syntax stage
func NewShellSyntaxCheck(timeout time.Duration) *ShellSyntaxCheck {
	return &ShellSyntaxCheck{timeout: timeout}
}

// Name returns the stage name
func (c *ShellSyntaxCheck) Name() string { return "shell-syntax" }

// Description returns what the stage verifies
func (c *ShellSyntaxCheck) Description() string {
	return "Parse the maintained automation scripts with sh -n"
}

// FatalOnViolation reports the abort policy
func (c *ShellSyntaxCheck) FatalOnViolation() bool { return true }

// Run parses each allow-listed script. Only the fixed allow-list is
// checked, not arbitrary staged scripts.
func (c *ShellSyntaxCheck) Run(ctx context.Context, env *Env) Result {
	shell, ok := env.Probe.Handle("sh")
	if !ok {
		return execError(c.Name(), cgerrors.ErrToolNotFound, "sh was not resolved by the tool probe")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for _, script := range env.Config.Paths.Scripts {
		path := filepath.Join(env.Config.RepoRoot, script)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		cmd := exec.CommandContext(ctx, shell.Path, "-n", path) //nolint:gosec // Shell from the tool probe
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			msg := fmt.Sprintf("%s: %s: %s", cgerrors.ErrShellSyntax.Error(), script, bytes.TrimSpace(stderr.Bytes()))
			return violation(c.Name(), []string{msg}, []string{script},
				fmt.Sprintf("fix the syntax error reported by 'sh -n %s'", script))
		}
	}
	return passed(c.Name())
}
