package checks

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/commitgate/commitgate/internal/config"
	"github.com/commitgate/commitgate/internal/git"
	"github.com/commitgate/commitgate/internal/tools"
)

// newScratchRepo creates a throwaway git repository with an initial commit
func newScratchRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	runGit(t, root, "init")
	runGit(t, root, "config", "user.email", "gate@example.com")
	runGit(t, root, "config", "user.name", "gate")
	runGit(t, root, "config", "commit.gpgsign", "false")

	stageFile(t, root, ".gitignore", "*.o\n")
	runGit(t, root, "commit", "-m", "initial")

	return root
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// stageFile writes a file and stages it
func stageFile(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	runGit(t, root, "add", path)
}

// writeWorktreeFile writes a file without staging it
func writeWorktreeFile(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

// makeExecutable marks a repo-relative file executable
func makeExecutable(t *testing.T, root, path string) {
	t.Helper()
	require.NoError(t, os.Chmod(filepath.Join(root, path), 0o700))
}

// resolveTool registers a PATH-resolved tool on the environment's probe
func resolveTool(t *testing.T, env *Env, name string) {
	t.Helper()
	err := env.Probe.Resolve(context.Background(), []tools.Requirement{{Name: name}})
	require.NoError(t, err)
}

// newEnv captures the staging area and builds a stage environment
func newEnv(t *testing.T, root string) *Env {
	t.Helper()

	cfg, err := config.Load(root)
	require.NoError(t, err)

	repo := git.NewRepository(root)
	files, err := repo.CaptureStagedFiles(context.Background())
	require.NoError(t, err)

	return &Env{
		Config: cfg,
		Repo:   repo,
		Files:  files,
		Probe:  tools.NewProbe(),
	}
}
