package checks

import (
	"context"
	"fmt"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// NonASCIIPathCheck rejects newly added files whose paths carry
// non-ASCII bytes. Such paths round-trip badly across platforms and
// filesystems, so they accumulate as violations with that rationale.
type NonASCIIPathCheck struct{}

// NewNonASCIIPathCheck creates the added-path stage
func NewNonASCIIPathCheck() *NonASCIIPathCheck {
	return &NonASCIIPathCheck{}
}

// Name returns the stage name
func (c *NonASCIIPathCheck) Name() string { return "ascii-paths" }

// Description returns what the stage verifies
func (c *NonASCIIPathCheck) Description() string {
	return "Reject newly added files with non-ASCII path bytes"
}

// FatalOnViolation reports the abort policy
func (c *NonASCIIPathCheck) FatalOnViolation() bool { return false }

// Run checks every newly added path
func (c *NonASCIIPathCheck) Run(_ context.Context, env *Env) Result {
	var files []string
	var messages []string

	for _, f := range env.Files.Added() {
		if !isASCII(f.Path) {
			files = append(files, f.Path)
			messages = append(messages, fmt.Sprintf("%s: path contains non-ASCII characters, which breaks cross-platform portability", f.Path))
		}
	}

	if len(files) > 0 {
		msgs := append([]string{cgerrors.ErrNonASCIIPath.Error() + ":"}, messages...)
		return violation(c.Name(), msgs, files, "rename the files to ASCII-only paths before committing")
	}
	return passed(c.Name())
}

// CheckWorkspacePath verifies the root working directory's path is
// ASCII only. Every subsequent tool invocation assumes an ASCII-safe
// path, so this runs once at startup and a violation is fatal.
func CheckWorkspacePath(root string) error {
	if isASCII(root) {
		return nil
	}
	return &cgerrors.EnvironmentError{
		Resource: root,
		Reason:   "working directory path contains non-ASCII characters",
		Hint:     "move the repository to an ASCII-only path",
		Err:      cgerrors.ErrNonASCIIPath,
	}
}

// isASCII reports whether every byte of s is 7-bit ASCII
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
