package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// Repository wraps read-only queries against one git repository
type Repository struct {
	root string
}

// NewRepository creates a new Repository instance
func NewRepository(root string) *Repository {
	return &Repository{root: root}
}

// Root returns the repository root directory
func (r *Repository) Root() string {
	return r.root
}

// FindRepositoryRoot finds the root directory of the enclosing git repository
func FindRepositoryRoot(ctx context.Context) (string, error) {
	output, err := runGit(ctx, "", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}

	root := strings.TrimSpace(string(output))
	if root == "" {
		return "", cgerrors.ErrRepositoryRootNotFound
	}
	return root, nil
}

// CaptureStagedFiles snapshots the staging area exactly once. The
// returned FileSet covers change kinds A, C, M and R; checks derive
// their subsets from it instead of re-querying git, so every stage
// sees a consistent set.
func (r *Repository) CaptureStagedFiles(ctx context.Context) (*FileSet, error) {
	output, err := runGit(ctx, r.root, "diff", "--cached", "--name-status", "--diff-filter=ACMR")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", cgerrors.ErrStagingAreaUnreadable, err)
	}

	var files []StagedFile
	for _, line := range strings.Split(strings.TrimRight(string(output), "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		kind, ok := parseKind(fields[0])
		if !ok {
			continue
		}
		// Renames and copies list source then destination; the
		// destination is what will be committed.
		path := fields[len(fields)-1]
		files = append(files, StagedFile{Path: path, Kind: kind})
	}

	set := NewFileSet(files)

	// Binary classification is derived from the staged blob, not the
	// working tree copy.
	for i := range set.files {
		content, err := r.StagedContent(ctx, set.files[i].Path)
		if err != nil {
			continue
		}
		if len(content) > 8000 {
			content = content[:8000]
		}
		set.files[i].IsBinary = !IsTextContent(content)
	}

	return set, nil
}

// StagedContent returns the staged blob for a path, the content about
// to be committed rather than the working tree copy.
func (r *Repository) StagedContent(ctx context.Context, path string) ([]byte, error) {
	output, err := runGit(ctx, r.root, "show", ":"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged content of %s: %w", path, err)
	}
	return output, nil
}

// StagedDiff returns the unified diff of the staging area against
// HEAD, with the given pathspecs excluded.
func (r *Repository) StagedDiff(ctx context.Context, exclude []string) (string, error) {
	args := []string{"diff", "--cached", "--"}
	args = append(args, ".")
	for _, e := range exclude {
		args = append(args, ":!"+e)
	}
	output, err := runGit(ctx, r.root, args...)
	if err != nil {
		return "", fmt.Errorf("failed to read staged diff: %w", err)
	}
	return string(output), nil
}

// FileStat holds per-file insertion/deletion counts for the change summary
type FileStat struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// ChangeSummary aggregates the staged numstat
type ChangeSummary struct {
	Files      []FileStat
	Insertions int
	Deletions  int
}

// StagedNumStat computes the change summary from the staged diff
func (r *Repository) StagedNumStat(ctx context.Context) (*ChangeSummary, error) {
	output, err := runGit(ctx, r.root, "diff", "--cached", "--numstat")
	if err != nil {
		return nil, fmt.Errorf("failed to read staged numstat: %w", err)
	}

	summary := &ChangeSummary{}
	for _, line := range strings.Split(strings.TrimRight(string(output), "\n"), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}

		stat := FileStat{Path: fields[2]}
		if fields[0] == "-" || fields[1] == "-" {
			// numstat reports "-" for binary files
			stat.Binary = true
		} else {
			stat.Insertions, _ = strconv.Atoi(fields[0])
			stat.Deletions, _ = strconv.Atoi(fields[1])
		}
		summary.Files = append(summary.Files, stat)
		summary.Insertions += stat.Insertions
		summary.Deletions += stat.Deletions
	}

	return summary, nil
}

// parseFileList parses newline-separated file list output
func parseFileList(output []byte) []string {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return []string{}
	}

	lines := bytes.Split(output, []byte("\n"))
	files := make([]string, 0, len(lines))
	for _, line := range lines {
		if file := string(bytes.TrimSpace(line)); file != "" {
			files = append(files, file)
		}
	}
	return files
}

// TrackedSourceFiles lists every tracked C/C++ source and header file
func (r *Repository) TrackedSourceFiles(ctx context.Context) ([]string, error) {
	output, err := runGit(ctx, r.root, "ls-files", "--", "*.c", "*.cc", "*.cpp", "*.h", "*.hpp")
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked sources: %w", err)
	}
	return parseFileList(output), nil
}

// runGit executes a git subcommand and returns its stdout. Path
// quoting is disabled so non-ASCII paths come back as raw bytes
// instead of escaped C strings.
func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	full := append([]string{"-c", "core.quotepath=off"}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return nil, fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), msg, err)
	}
	return stdout.Bytes(), nil
}
