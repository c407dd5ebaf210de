package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictMarkersDetected(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", `int size(void)
{
<<<<<<< HEAD
    return len;
=======
    return count;
>>>>>>> feature
}
`)

	check := NewConflictMarkerCheck()
	result := check.Run(context.Background(), newEnv(t, root))

	require.Equal(t, Violation, result.Status)
	assert.True(t, check.FatalOnViolation())
	assert.Equal(t, []string{"queue.c"}, result.Files)
	assert.Contains(t, result.Suggestion, "resolve")
}

func TestConflictMarkersCleanDiff(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")

	check := NewConflictMarkerCheck()
	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}

func TestConflictMarkersIgnoreLookAlikes(t *testing.T) {
	root := newScratchRepo(t)
	// Shift operator and a short separator line are not markers
	stageFile(t, root, "queue.c", `int shifted = 1 <<<<<<<0;
/* ===== section ===== */
`)

	check := NewConflictMarkerCheck()
	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}

func TestConflictMarkersSkipHookScripts(t *testing.T) {
	root := newScratchRepo(t)
	// The gate's own scripts may embed marker strings
	stageFile(t, root, "scripts/pre-commit.hook", "cat <<'SAMPLE'\n<<<<<<< HEAD\nSAMPLE\n")

	check := NewConflictMarkerCheck()
	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}
