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

// stubFormatter registers a fake clang-format plus the real diff tool
// on the environment's probe.
func stubFormatter(t *testing.T, env *Env, script string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clang-format")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))

	err := env.Probe.Resolve(context.Background(), []tools.Requirement{
		{Name: "clang-format", Binary: path},
		{Name: "diff"},
	})
	require.NoError(t, err)
}

func TestStyleConformingSourcePasses(t *testing.T) {
	root := newScratchRepo(t)
	writeWorktreeFile(t, root, ".clang-format", "BasedOnStyle: LLVM\n")
	stageFile(t, root, "queue.c", "int n;\n")

	env := newEnv(t, root)
	// A formatter that reproduces its stdin verbatim means the staged
	// blob already conforms.
	stubFormatter(t, env, "#!/bin/sh\ncat\n")

	check := NewStyleConformanceCheck(60 * time.Second)
	result := check.Run(context.Background(), env)
	assert.Equal(t, Pass, result.Status)
}

func TestStyleNonConformingSourceViolation(t *testing.T) {
	root := newScratchRepo(t)
	writeWorktreeFile(t, root, ".clang-format", "BasedOnStyle: LLVM\n")
	stageFile(t, root, "queue.c", "int n;\n")

	env := newEnv(t, root)
	stubFormatter(t, env, "#!/bin/sh\ncat\nprintf 'int m;\\n'\n")

	check := NewStyleConformanceCheck(60 * time.Second)
	result := check.Run(context.Background(), env)

	require.Equal(t, Violation, result.Status)
	assert.False(t, check.FatalOnViolation())
	assert.Equal(t, []string{"queue.c"}, result.Files)

	joined := ""
	for _, m := range result.Messages {
		joined += m + "\n"
	}
	assert.Contains(t, joined, "queue.c is not formatted")
	assert.Contains(t, joined, "+int m;")
	assert.Contains(t, result.Suggestion, "clang-format -i")
}

func TestStyleFormatterSeesProjectConfig(t *testing.T) {
	root := newScratchRepo(t)
	writeWorktreeFile(t, root, ".clang-format", "BasedOnStyle: LLVM\n")
	stageFile(t, root, "queue.c", "int n;\n")

	env := newEnv(t, root)
	argsLog := filepath.Join(t.TempDir(), "args")
	stubFormatter(t, env,
		"#!/bin/sh\nprintf '%s\\n' \"$@\" > "+argsLog+"\ncat\n")

	check := NewStyleConformanceCheck(60 * time.Second)
	result := check.Run(context.Background(), env)
	require.Equal(t, Pass, result.Status)

	args, err := os.ReadFile(argsLog)
	require.NoError(t, err)
	assert.Contains(t, string(args), "--style=file:"+filepath.Join(root, ".clang-format"))
	assert.Contains(t, string(args), "--assume-filename="+filepath.Join(root, "queue.c"))
	// The blob arrives on stdin, never as a temp file argument
	assert.NotContains(t, string(args), "commitgate-style-")
}

func TestStyleWithoutProjectConfigSearchesByAssumedName(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")

	env := newEnv(t, root)
	argsLog := filepath.Join(t.TempDir(), "args")
	stubFormatter(t, env,
		"#!/bin/sh\nprintf '%s\\n' \"$@\" > "+argsLog+"\ncat\n")

	check := NewStyleConformanceCheck(60 * time.Second)
	result := check.Run(context.Background(), env)
	require.Equal(t, Pass, result.Status)

	args, err := os.ReadFile(argsLog)
	require.NoError(t, err)
	assert.Contains(t, string(args), "--style=file\n")
}

func TestStyleNoStagedSources(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "README.md", "docs only\n")

	check := NewStyleConformanceCheck(60 * time.Second)
	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}

func TestStyleUnresolvedToolIsExecutionError(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")

	// The probe in newEnv resolved nothing
	check := NewStyleConformanceCheck(60 * time.Second)
	result := check.Run(context.Background(), newEnv(t, root))

	assert.Equal(t, Error, result.Status)
	assert.False(t, check.FatalOnViolation())
}
