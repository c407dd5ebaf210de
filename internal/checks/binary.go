package checks

import (
	"context"
	"fmt"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// BinaryContentCheck enumerates staged files whose content is binary.
// Detection is advisory but must always be visible, so violations
// accumulate rather than abort.
type BinaryContentCheck struct{}

// NewBinaryContentCheck creates the binary content stage
func NewBinaryContentCheck() *BinaryContentCheck {
	return &BinaryContentCheck{}
}

// Name returns the stage name
func (c *BinaryContentCheck) Name() string { return "binary-content" }

// Description returns what the stage verifies
func (c *BinaryContentCheck) Description() string {
	return "Enumerate staged files with binary content"
}

// FatalOnViolation reports the abort policy
func (c *BinaryContentCheck) FatalOnViolation() bool { return false }

// Run reports every staged file classified as binary. Classification
// happened at capture time from the staged blobs, by content rather
// than filename.
func (c *BinaryContentCheck) Run(_ context.Context, env *Env) Result {
	var files []string
	var messages []string

	for _, f := range env.Files.General() {
		if f.IsBinary {
			files = append(files, f.Path)
			messages = append(messages, fmt.Sprintf("%s (%s) contains binary content", f.Path, f.Kind))
		}
	}

	if len(files) > 0 {
		msgs := append([]string{cgerrors.ErrBinaryFiles.Error() + ":"}, messages...)
		return violation(c.Name(), msgs, files,
			"unstage the binary files with 'git restore --staged <file>'")
	}
	return passed(c.Name())
}
