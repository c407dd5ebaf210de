package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// hookMarker identifies hooks managed by commitgate
const hookMarker = "# managed by commitgate"

// hookScript is the pre-commit hook written by Install. It locates
// the commitgate binary and delegates to `commitgate run`.
const hookScript = `#!/bin/sh
` + hookMarker + ` - do not edit manually

BINARY="$(command -v commitgate 2>/dev/null)"
if [ -z "$BINARY" ]; then
    echo "commitgate binary not found in PATH" >&2
    echo "install it with: go install github.com/commitgate/commitgate/cmd/commitgate@latest" >&2
    exit 1
fi

exec "$BINARY" run
`

// Installer manages the pre-commit hook file
type Installer struct {
	repoRoot string
	hookDir  string
}

// NewInstaller creates a hook installer for a repository. hookDir is
// relative to the repository root.
func NewInstaller(repoRoot, hookDir string) *Installer {
	return &Installer{repoRoot: repoRoot, hookDir: hookDir}
}

// HookPath returns the absolute path of the managed pre-commit hook
func (i *Installer) HookPath() string {
	return filepath.Join(i.repoRoot, i.hookDir, "pre-commit")
}

// Install writes the pre-commit hook. An existing unmanaged hook is
// preserved with a timestamped .backup suffix unless force is set.
func (i *Installer) Install(force bool) error {
	hookPath := i.HookPath()

	if err := os.MkdirAll(filepath.Dir(hookPath), 0o750); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	if existing, err := os.ReadFile(hookPath); err == nil { //nolint:gosec // Path derives from the repo root
		if strings.Contains(string(existing), hookMarker) {
			// Already ours, overwrite in place
		} else if force {
			backup := fmt.Sprintf("%s.backup.%d", hookPath, time.Now().Unix())
			if err := os.Rename(hookPath, backup); err != nil {
				return fmt.Errorf("failed to back up existing hook: %w", err)
			}
		} else {
			return fmt.Errorf("a pre-commit hook already exists at %s (use --force to replace it)", hookPath)
		}
	}

	if err := os.WriteFile(hookPath, []byte(hookScript), 0o700); err != nil { //nolint:gosec // Hooks must be executable
		return fmt.Errorf("failed to write hook: %w", err)
	}
	return nil
}

// Uninstall removes the hook if commitgate manages it
func (i *Installer) Uninstall() error {
	hookPath := i.HookPath()

	content, err := os.ReadFile(hookPath) //nolint:gosec // Path derives from the repo root
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read hook: %w", err)
	}

	if !strings.Contains(string(content), hookMarker) {
		return fmt.Errorf("hook at %s is not managed by commitgate, refusing to remove it", hookPath)
	}

	if err := os.Remove(hookPath); err != nil {
		return fmt.Errorf("failed to remove hook: %w", err)
	}
	return nil
}

// IsInstalled reports whether the managed hook is in place
func (i *Installer) IsInstalled() bool {
	content, err := os.ReadFile(i.HookPath()) //nolint:gosec // Path derives from the repo root
	return err == nil && strings.Contains(string(content), hookMarker)
}
