package checks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitgate/commitgate/internal/tools"
)

func TestFormatStringsSkippedOnDarwin(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")

	check := NewFormatStringCheck(120 * time.Second)
	check.goos = "darwin"

	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}

func TestFormatStringsNoStagedSources(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "README.md", "docs only\n")

	check := NewFormatStringCheck(120 * time.Second)
	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}

func TestFormatStringsCleanScannerRun(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")
	writeWorktreeFile(t, root, "scripts/fmtscan", "#!/bin/sh\nexit 0\n")
	makeExecutable(t, root, "scripts/fmtscan")

	check := NewFormatStringCheck(120 * time.Second)
	check.goos = "linux"

	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}

func TestFormatStringsScannerReportsViolation(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")
	writeWorktreeFile(t, root, "scripts/fmtscan", "#!/bin/sh\necho 'queue.c: suspicious format string'\nexit 1\n")
	makeExecutable(t, root, "scripts/fmtscan")

	check := NewFormatStringCheck(120 * time.Second)
	check.goos = "linux"

	result := check.Run(context.Background(), newEnv(t, root))

	require.Equal(t, Violation, result.Status)
	assert.True(t, check.FatalOnViolation())
	assert.Contains(t, result.Messages[1], "suspicious format string")
	assert.Equal(t, []string{"queue.c"}, result.Files)
}

func TestFormatStringsMissingScannerBuildFails(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")

	// A make that always fails stands in for a broken on-demand build
	env := newEnv(t, root)
	stub := filepath.Join(t.TempDir(), "make")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nexit 2\n"), 0o700))
	err := env.Probe.Resolve(context.Background(), []tools.Requirement{{Name: "make", Binary: stub}})
	require.NoError(t, err)

	check := NewFormatStringCheck(120 * time.Second)
	check.goos = "linux"

	result := check.Run(context.Background(), env)
	assert.Equal(t, Error, result.Status)
}

func TestFormatStringsUnresolvedMakeIsExecutionError(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")

	check := NewFormatStringCheck(120 * time.Second)
	check.goos = "linux"

	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Error, result.Status)
}
