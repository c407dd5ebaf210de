package checks

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// ProtectedFileCheck verifies the checksum manifest covering files
// that define contracts depended on by the graded test harness.
// Tampering is a fatal violation.
type ProtectedFileCheck struct{}

// NewProtectedFileCheck creates the protected file stage
func NewProtectedFileCheck() *ProtectedFileCheck {
	return &ProtectedFileCheck{}
}

// Name returns the stage name
func (c *ProtectedFileCheck) Name() string { return "protected-files" }

// Description returns what the stage verifies
func (c *ProtectedFileCheck) Description() string {
	return "Verify the integrity checksums of protected files"
}

// FatalOnViolation reports the abort policy
func (c *ProtectedFileCheck) FatalOnViolation() bool { return true }

// Run verifies every manifest entry against the current working copy
func (c *ProtectedFileCheck) Run(_ context.Context, env *Env) Result {
	manifest, err := LoadManifest(env.Config.ManifestPath())
	if os.IsNotExist(err) {
		return passed(c.Name())
	}
	if err != nil {
		return execError(c.Name(), err, fmt.Sprintf("check the manifest at %s", env.Config.Paths.Manifest))
	}

	var files []string
	var messages []string

	for _, entry := range manifest {
		sum, err := hashFile(filepath.Join(env.Config.RepoRoot, entry.Path))
		if err != nil {
			files = append(files, entry.Path)
			messages = append(messages, fmt.Sprintf("%s: protected file unreadable: %v", entry.Path, err))
			continue
		}
		if sum != entry.Sum {
			files = append(files, entry.Path)
			messages = append(messages, fmt.Sprintf("%s: checksum mismatch, protected files must not be modified", entry.Path))
		}
	}

	if len(files) > 0 {
		msgs := append([]string{cgerrors.ErrProtectedFileModified.Error() + ":"}, messages...)
		return violation(c.Name(), msgs, files,
			"restore the protected files with 'git checkout -- <file>'")
	}
	return passed(c.Name())
}

// ManifestEntry is one line of the checksum manifest
type ManifestEntry struct {
	Sum  string
	Path string
}

// LoadManifest parses a manifest of "sha256hex  path" lines, in the
// format emitted by sha256sum.
func LoadManifest(path string) ([]ManifestEntry, error) {
	file, err := os.Open(path) //nolint:gosec // Path from validated config
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	var entries []ManifestEntry
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed manifest line %d: %q", lineNo, line)
		}
		if len(fields[0]) != sha256.Size*2 {
			return nil, fmt.Errorf("malformed checksum on manifest line %d: %q", lineNo, fields[0])
		}
		entries = append(entries, ManifestEntry{Sum: strings.ToLower(fields[0]), Path: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// hashFile computes the SHA-256 of a file's current content
func hashFile(path string) (string, error) {
	content, err := os.ReadFile(path) //nolint:gosec // Manifest-listed path
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}
