package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDangerousFunctionFlagsUnsafeCalls(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", `#include <string.h>
void copy(char *dst, const char *src)
{
    strcpy(dst, src);
    sprintf(dst, "%s", src);
}
`)

	check := NewDangerousFunctionCheck()
	result := check.Run(context.Background(), newEnv(t, root))

	require.Equal(t, Violation, result.Status)
	assert.False(t, check.FatalOnViolation())
	assert.Equal(t, []string{"queue.c"}, result.Files)

	joined := ""
	for _, m := range result.Messages {
		joined += m + "\n"
	}
	assert.Contains(t, joined, "queue.c:4: call to strcpy")
	assert.Contains(t, joined, "queue.c:5: call to sprintf")
	assert.Contains(t, joined, "strlcpy")
}

func TestDangerousFunctionIgnoresSafeLookAlikes(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "console.c", `#include <stdio.h>
char *read_line(char *buf, int n, FILE *fp)
{
    return fgets(buf, n, fp);
}
int my_strcpy_wrapper(void) { return 0; }
`)

	check := NewDangerousFunctionCheck()
	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}

func TestDangerousFunctionScansStagedBlobOnly(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "queue.c", "int n;\n")
	// Unsafe call only in the working tree, never staged
	writeWorktreeFile(t, root, "queue.c", "void f(char *d, char *s) { strcpy(d, s); }\n")

	check := NewDangerousFunctionCheck()
	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}

func TestDangerousFunctionSkipsNonSourceFiles(t *testing.T) {
	root := newScratchRepo(t)
	stageFile(t, root, "notes.md", "never call strcpy(dst, src) in C\n")

	check := NewDangerousFunctionCheck()
	result := check.Run(context.Background(), newEnv(t, root))
	assert.Equal(t, Pass, result.Status)
}
