package checks

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// DictionarySanityCheck validates the maintained aspell personal
// dictionary: sorted case-insensitively, no duplicates. An unsorted
// dictionary silently breaks future spelling checks, so a violation
// is fatal.
type DictionarySanityCheck struct{}

// NewDictionarySanityCheck creates the dictionary stage
func NewDictionarySanityCheck() *DictionarySanityCheck {
	return &DictionarySanityCheck{}
}

// Name returns the stage name
func (c *DictionarySanityCheck) Name() string { return "dictionary" }

// Description returns what the stage verifies
func (c *DictionarySanityCheck) Description() string {
	return "Verify the personal dictionary is sorted and duplicate free"
}

// FatalOnViolation reports the abort policy
func (c *DictionarySanityCheck) FatalOnViolation() bool { return true }

// Run validates the dictionary word list, excluding its header line.
// Collation uses the caseless und locale so the result never depends
// on the machine's locale settings.
func (c *DictionarySanityCheck) Run(ctx context.Context, env *Env) Result {
	_ = ctx

	path := env.Config.DictionaryPath()
	file, err := os.Open(path) //nolint:gosec // Path from validated config
	if os.IsNotExist(err) {
		return passed(c.Name())
	}
	if err != nil {
		return execError(c.Name(), err, fmt.Sprintf("check permissions on %s", path))
	}
	defer func() {
		_ = file.Close()
	}()

	// Each word keeps its real file line so diagnostics stay exact
	// even with a missing header or interior blank lines.
	type dictWord struct {
		text string
		line int
	}

	var words []dictWord
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		// The aspell header line ("personal_ws-1.1 en ...") is not a
		// dictionary word.
		if lineNo == 1 && strings.HasPrefix(line, "personal_ws") {
			continue
		}
		if line != "" {
			words = append(words, dictWord{text: line, line: lineNo})
		}
	}
	if err := scanner.Err(); err != nil {
		return execError(c.Name(), err, fmt.Sprintf("check that %s is readable text", path))
	}

	coll := collate.New(language.Und, collate.IgnoreCase)
	fixCmd := fmt.Sprintf("(head -n 1 %s && tail -n +2 %s | LC_ALL=C sort -fu) > %s.fixed && mv %s.fixed %s",
		env.Config.Paths.Dictionary, env.Config.Paths.Dictionary, env.Config.Paths.Dictionary,
		env.Config.Paths.Dictionary, env.Config.Paths.Dictionary)

	for i := 1; i < len(words); i++ {
		prev, cur := words[i-1], words[i]
		switch cmp := coll.CompareString(prev.text, cur.text); {
		case cmp > 0:
			msg := fmt.Sprintf("%s: %s line %d: %q sorts before %q",
				cgerrors.ErrDictionaryOrder.Error(), env.Config.Paths.Dictionary, cur.line, cur.text, prev.text)
			return violation(c.Name(), []string{msg}, []string{env.Config.Paths.Dictionary}, fixCmd)
		case cmp == 0 && strings.EqualFold(prev.text, cur.text):
			msg := fmt.Sprintf("%s: %s line %d: duplicate entry %q",
				cgerrors.ErrDictionaryOrder.Error(), env.Config.Paths.Dictionary, cur.line, cur.text)
			return violation(c.Name(), []string{msg}, []string{env.Config.Paths.Dictionary}, fixCmd)
		}
	}

	return passed(c.Name())
}
