package checks

import (
	"context"
	"fmt"
	"strings"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// ConflictMarkerCheck scans the staged diff for merge conflict marker
// lines. It is fatal on violation: a commit carrying literal markers
// should never reach the style or analysis stages.
type ConflictMarkerCheck struct{}

// NewConflictMarkerCheck creates the conflict marker stage
func NewConflictMarkerCheck() *ConflictMarkerCheck {
	return &ConflictMarkerCheck{}
}

// Name returns the stage name
func (c *ConflictMarkerCheck) Name() string { return "conflict-markers" }

// Description returns what the stage verifies
func (c *ConflictMarkerCheck) Description() string {
	return "Reject staged changes containing merge conflict markers"
}

// FatalOnViolation reports the abort policy
func (c *ConflictMarkerCheck) FatalOnViolation() bool { return true }

// Run scans added diff lines for conflict markers. The gate's own
// hook scripts are excluded so marker strings in them never false
// positive.
func (c *ConflictMarkerCheck) Run(ctx context.Context, env *Env) Result {
	diff, err := env.Repo.StagedDiff(ctx, env.Config.Paths.Scripts)
	if err != nil {
		return execError(c.Name(), err, "check that git can read the staging area")
	}

	var messages []string
	seen := make(map[string]bool)
	var files []string

	current := ""
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			current = strings.TrimPrefix(line, "+++ b/")
			continue
		}
		// Only added lines count; context lines may legitimately
		// quote a marker that is already committed.
		if !strings.HasPrefix(line, "+") {
			continue
		}
		body := line[1:]
		if isConflictMarker(body) {
			messages = append(messages, fmt.Sprintf("%s: %s", current, body))
			if current != "" && !seen[current] {
				seen[current] = true
				files = append(files, current)
			}
		}
	}

	if len(messages) > 0 {
		msgs := append([]string{cgerrors.ErrConflictMarkers.Error() + ":"}, messages...)
		return violation(c.Name(), msgs, files, "resolve the merge conflicts and re-stage the files")
	}
	return passed(c.Name())
}

// isConflictMarker reports whether a line starts with one of the
// three-way merge marker prefixes.
func isConflictMarker(line string) bool {
	return strings.HasPrefix(line, "<<<<<<< ") ||
		strings.HasPrefix(line, ">>>>>>> ") ||
		line == "=======" ||
		strings.HasPrefix(line, "||||||| ")
}
