package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// bannedPatterns match calls to unsafe standard functions line by
// line. Each pattern requires the name to start an identifier: the
// preceding character must not be part of one, so the safe fgets is
// never flagged as a gets call.
var bannedPatterns = []struct {
	name    string
	pattern *regexp.Regexp
	advice  string
}{
	{"strcpy", regexp.MustCompile(`(^|[^_[:alnum:]])strcpy\s*\(`), "use strlcpy or snprintf instead"},
	{"strcat", regexp.MustCompile(`(^|[^_[:alnum:]])strcat\s*\(`), "use strlcat instead"},
	{"sprintf", regexp.MustCompile(`(^|[^_[:alnum:]])sprintf\s*\(`), "use snprintf instead"},
	{"gets", regexp.MustCompile(`(^|[^_[:alnum:]])gets\s*\(`), "use fgets instead"},
}

// DangerousFunctionCheck scans staged sources line by line for calls
// to deny-listed unsafe functions. Every match across every file is
// reported; exhaustive reporting is the goal, so nothing aborts early.
type DangerousFunctionCheck struct{}

// NewDangerousFunctionCheck creates the dangerous function stage
func NewDangerousFunctionCheck() *DangerousFunctionCheck {
	return &DangerousFunctionCheck{}
}

// Name returns the stage name
func (c *DangerousFunctionCheck) Name() string { return "banned-functions" }

// Description returns what the stage verifies
func (c *DangerousFunctionCheck) Description() string {
	return "Reject calls to unsafe standard functions"
}

// FatalOnViolation reports the abort policy
func (c *DangerousFunctionCheck) FatalOnViolation() bool { return false }

// Run scans the staged blob of every source file
func (c *DangerousFunctionCheck) Run(ctx context.Context, env *Env) Result {
	var messages []string
	var files []string
	seen := make(map[string]bool)

	for _, file := range env.Files.Sources() {
		staged, err := env.Repo.StagedContent(ctx, file.Path)
		if err != nil {
			return execError(c.Name(), err, "check that git can read the staged blobs")
		}

		for lineNo, line := range strings.Split(string(staged), "\n") {
			for _, banned := range bannedPatterns {
				if banned.pattern.MatchString(line) {
					messages = append(messages, fmt.Sprintf("%s:%d: call to %s (%s)",
						file.Path, lineNo+1, banned.name, banned.advice))
					if !seen[file.Path] {
						seen[file.Path] = true
						files = append(files, file.Path)
					}
				}
			}
		}
	}

	if len(messages) > 0 {
		msgs := append([]string{cgerrors.ErrDangerousFunctions.Error() + ":"}, messages...)
		return violation(c.Name(), msgs, files,
			"replace the unsafe calls with their bounded variants listed above")
	}
	return passed(c.Name())
}
