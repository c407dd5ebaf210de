package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// fakeLookPath resolves only the names in the given map
func fakeLookPath(known map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if path, ok := known[name]; ok {
			return path, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func TestResolvePresenceOnly(t *testing.T) {
	p := NewProbe()
	p.lookPath = fakeLookPath(map[string]string{"clang-format": "/usr/bin/clang-format"})

	err := p.Resolve(context.Background(), []Requirement{{Name: "clang-format"}})
	require.NoError(t, err)

	h, ok := p.Handle("clang-format")
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/clang-format", h.Path)
	assert.False(t, h.Fallback)
}

func TestResolveUsesFallback(t *testing.T) {
	p := NewProbe()
	p.lookPath = fakeLookPath(map[string]string{"diff": "/usr/bin/diff"})

	err := p.Resolve(context.Background(), []Requirement{
		{Name: "diff", Binary: "colordiff", Fallback: "diff"},
	})
	require.NoError(t, err)

	h, ok := p.Handle("diff")
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/diff", h.Path)
	assert.True(t, h.Fallback)
}

func TestResolveMissingTool(t *testing.T) {
	p := NewProbe()
	p.lookPath = fakeLookPath(nil)

	err := p.Resolve(context.Background(), []Requirement{
		{Name: "aspell", Hint: "apt install aspell"},
	})
	require.Error(t, err)

	var envErr *cgerrors.EnvironmentError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "aspell", envErr.Resource)
	assert.Equal(t, "apt install aspell", envErr.Hint)
	assert.ErrorIs(t, err, cgerrors.ErrToolNotFound)
}

func TestResolveFailsFast(t *testing.T) {
	p := NewProbe()
	p.lookPath = fakeLookPath(map[string]string{"sh": "/bin/sh"})

	err := p.Resolve(context.Background(), []Requirement{
		{Name: "missing-first"},
		{Name: "sh"},
	})
	require.Error(t, err)

	// Nothing after the failing requirement is resolved
	_, ok := p.Handle("sh")
	assert.False(t, ok)
}

// writeVersionStub creates an executable that prints the given line
// for --version.
func writeVersionStub(t *testing.T, line string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stub")
	script := "#!/bin/sh\necho \"" + line + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path
}

func TestResolveAcceptsVersion(t *testing.T) {
	stub := writeVersionStub(t, "Cppcheck 2.13.0")

	p := NewProbe()
	p.lookPath = fakeLookPath(map[string]string{"cppcheck": stub})

	err := p.Resolve(context.Background(), []Requirement{
		{Name: "cppcheck", VersionOK: CppcheckVersionOK},
	})
	require.NoError(t, err)

	h, ok := p.Handle("cppcheck")
	require.True(t, ok)
	assert.Equal(t, "2.13.0", h.Version)
}

func TestResolveRejectsVersion(t *testing.T) {
	stub := writeVersionStub(t, "Cppcheck 1.82")

	p := NewProbe()
	p.lookPath = fakeLookPath(map[string]string{"cppcheck": stub})

	err := p.Resolve(context.Background(), []Requirement{
		{Name: "cppcheck", VersionOK: CppcheckVersionOK},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, cgerrors.ErrToolVersion)
}

func TestCppcheckVersionOK(t *testing.T) {
	tests := []struct {
		name  string
		major int
		minor int
		want  bool
	}{
		{name: "2.0", major: 2, minor: 0, want: true},
		{name: "2.13", major: 2, minor: 13, want: true},
		{name: "3.1", major: 3, minor: 1, want: true},
		{name: "1.90", major: 1, minor: 90, want: true},
		{name: "1.89", major: 1, minor: 89, want: false},
		{name: "0.9", major: 0, minor: 9, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CppcheckVersionOK(tt.major, tt.minor))
		})
	}
}
