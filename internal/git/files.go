// Package git provides staged-change capture and classification for the commit gate
package git

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// ChangeKind describes how a staged file differs from HEAD
type ChangeKind int

// Change kinds reported by the staging area
const (
	Added ChangeKind = iota
	Copied
	Modified
	Renamed
)

// String returns the single-letter git status for the change kind
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "A"
	case Copied:
		return "C"
	case Modified:
		return "M"
	case Renamed:
		return "R"
	default:
		return "?"
	}
}

// StagedFile is one file proposed for commit. Identity is the path;
// the struct is an immutable snapshot for the duration of a run.
type StagedFile struct {
	Path     string
	Kind     ChangeKind
	IsBinary bool
	Ext      string
}

// FileSet is an ordered, path-deduplicated snapshot of staged files,
// captured once at pipeline start. Subsets are derived by filters,
// never by re-querying the staging area.
type FileSet struct {
	files []StagedFile
}

// NewFileSet builds a FileSet from staged files, deduplicating by path
// while preserving first-seen order.
func NewFileSet(files []StagedFile) *FileSet {
	seen := make(map[string]bool, len(files))
	deduped := make([]StagedFile, 0, len(files))
	for _, f := range files {
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		f.Ext = strings.ToLower(filepath.Ext(f.Path))
		deduped = append(deduped, f)
	}
	return &FileSet{files: deduped}
}

// All returns every staged file in capture order
func (s *FileSet) All() []StagedFile {
	return s.files
}

// Len returns the number of staged files
func (s *FileSet) Len() int {
	return len(s.files)
}

// Paths returns the paths of every staged file in capture order
func (s *FileSet) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for _, f := range s.files {
		paths = append(paths, f.Path)
	}
	return paths
}

// General returns the subset used by content checks: change kind in
// {Added, Copied, Modified}. Renames are excluded because the content
// is unchanged.
func (s *FileSet) General() []StagedFile {
	var out []StagedFile
	for _, f := range s.files {
		if f.Kind != Renamed {
			out = append(out, f)
		}
	}
	return out
}

// Sources returns the subset used by style and security checks: every
// change kind, restricted to C/C++ source and header extensions,
// sorted by path so report ordering is stable.
func (s *FileSet) Sources() []StagedFile {
	var out []StagedFile
	for _, f := range s.files {
		if sourceExtensions[f.Ext] {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Added returns the subset of newly added files
func (s *FileSet) Added() []StagedFile {
	var out []StagedFile
	for _, f := range s.files {
		if f.Kind == Added {
			out = append(out, f)
		}
	}
	return out
}

// sourceExtensions lists the extensions the style and security stages care about
var sourceExtensions = map[string]bool{
	".c":   true,
	".cc":  true,
	".cpp": true,
	".h":   true,
	".hpp": true,
}

// IsSourceFile reports whether a path has a C/C++ source or header extension
func IsSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsTextContent determines if content looks like text rather than
// binary. Classification is by content, not filename, because
// extension-based guesses are unreliable.
func IsTextContent(content []byte) bool {
	if len(content) == 0 {
		return true
	}

	if !utf8.Valid(content) {
		return false
	}

	if bytes.Contains(content, []byte{0}) {
		return false
	}

	controlChars := 0
	for _, b := range content {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' {
			controlChars++
		}
	}

	// If 30% or more are control characters, likely binary
	return float64(controlChars)/float64(len(content)) < 0.3
}

// parseKind maps a git name-status letter to a ChangeKind. Scores on
// rename/copy statuses ("R100") are ignored.
func parseKind(status string) (ChangeKind, bool) {
	if status == "" {
		return 0, false
	}
	switch status[0] {
	case 'A':
		return Added, true
	case 'C':
		return Copied, true
	case 'M':
		return Modified, true
	case 'R':
		return Renamed, true
	default:
		return 0, false
	}
}
