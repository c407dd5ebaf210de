package cppcheck

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Toolchain describes the active compiler: which of the two supported
// families, and the C standard version it compiles by default.
type Toolchain struct {
	Family     string // "gcc" or "clang"
	StdVersion string // e.g. "201710L", empty if unknown
}

// stdVersionPattern extracts __STDC_VERSION__ from preprocessor output
var stdVersionPattern = regexp.MustCompile(`#define __STDC_VERSION__ (\d+L)`)

// ProbeToolchain asks the compiler for its family and default C
// standard so the analyzer can be fed the same dialect the real
// compiler uses. Errors are returned, not fatal: the caller degrades
// to running the analyzer without injected defines.
func ProbeToolchain(ctx context.Context, cc string) (*Toolchain, error) {
	tc := &Toolchain{}

	versionCmd := exec.CommandContext(ctx, cc, "--version") //nolint:gosec // Tool from validated config
	versionOut, err := versionCmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s --version: %w", cc, err)
	}
	switch {
	case bytes.Contains(versionOut, []byte("clang")):
		tc.Family = "clang"
	case bytes.Contains(versionOut, []byte("gcc")) || bytes.Contains(versionOut, []byte("Free Software Foundation")):
		tc.Family = "gcc"
	default:
		return nil, fmt.Errorf("unrecognized compiler family in %s --version output", cc)
	}

	// Dump the predefined macros for an empty translation unit
	dumpCmd := exec.CommandContext(ctx, cc, "-dM", "-E", "-x", "c", "/dev/null") //nolint:gosec // Tool from validated config
	dumpOut, err := dumpCmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s -dM -E: %w", cc, err)
	}
	if match := stdVersionPattern.FindSubmatch(dumpOut); match != nil {
		tc.StdVersion = string(match[1])
	}

	return tc, nil
}

// Defines returns the preprocessor defines to inject into the
// analyzer so it parses the dialect the probed compiler compiles.
func (t *Toolchain) Defines() []string {
	var defines []string
	switch t.Family {
	case "gcc":
		defines = append(defines, "-D__GNUC__")
	case "clang":
		defines = append(defines, "-D__clang__", "-D__GNUC__")
	}
	if t.StdVersion != "" {
		defines = append(defines, "-D__STDC_VERSION__="+t.StdVersion)
	}
	return defines
}

// Std maps the probed standard version to a cppcheck --std flag value
func (t *Toolchain) Std() string {
	switch strings.TrimSuffix(t.StdVersion, "L") {
	case "199901":
		return "c99"
	case "201112":
		return "c11"
	case "201710":
		return "c17"
	case "202311":
		return "c23"
	default:
		return ""
	}
}
