// Package tools resolves the external tools the pipeline depends on
package tools

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

// VersionPredicate decides whether a tool's reported version is
// acceptable. Comparison rules differ per tool, so each Requirement
// carries its own predicate rather than one global rule.
type VersionPredicate func(major, minor int) bool

// Requirement describes one external tool the pipeline needs
type Requirement struct {
	// Name is how checks refer to the tool
	Name string

	// Binary is the command to look up; defaults to Name
	Binary string

	// Fallback is resolved silently when Binary is absent (e.g. the
	// preferred diff tool vs the generic one). Fallbacks are presence
	// only.
	Fallback string

	// VersionOK validates the tool's version; nil means presence only
	VersionOK VersionPredicate

	// Hint tells the user how to fix a failed resolution
	Hint string
}

// Handle is a resolved tool: an absolute invocation path plus the
// version that was accepted.
type Handle struct {
	Name     string
	Path     string
	Version  string
	Fallback bool
}

// Probe resolves Requirements into Handles. Resolution happens once;
// checks depend only on the resolved handles, never on ambient tool
// discovery at call time.
type Probe struct {
	mu       sync.RWMutex
	resolved map[string]Handle
	lookPath func(string) (string, error)
}

// NewProbe creates a tool probe
func NewProbe() *Probe {
	return &Probe{
		resolved: make(map[string]Handle),
		lookPath: exec.LookPath,
	}
}

// Resolve processes requirements in order and fails fast on the first
// one that cannot be satisfied: no diagnostic value comes from
// continuing without a required tool.
func (p *Probe) Resolve(ctx context.Context, reqs []Requirement) error {
	for _, req := range reqs {
		handle, err := p.resolveOne(ctx, req)
		if err != nil {
			return err
		}
		p.mu.Lock()
		p.resolved[req.Name] = handle
		p.mu.Unlock()
	}
	return nil
}

// Handle returns the resolved handle for a tool name
func (p *Probe) Handle(name string) (Handle, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	h, ok := p.resolved[name]
	return h, ok
}

// resolveOne resolves a single requirement or returns a fatal EnvironmentError
func (p *Probe) resolveOne(ctx context.Context, req Requirement) (Handle, error) {
	binary := req.Binary
	if binary == "" {
		binary = req.Name
	}

	path, err := p.lookPath(binary)
	if err != nil {
		if req.Fallback != "" {
			if fbPath, fbErr := p.lookPath(req.Fallback); fbErr == nil {
				return Handle{Name: req.Name, Path: fbPath, Fallback: true}, nil
			}
		}
		hint := req.Hint
		if hint == "" {
			hint = fmt.Sprintf("install %s and ensure it is in PATH", binary)
		}
		return Handle{}, cgerrors.NewEnvironmentError(binary, "not found in PATH", hint)
	}

	handle := Handle{Name: req.Name, Path: path}
	if req.VersionOK == nil {
		return handle, nil
	}

	version, major, minor, err := queryVersion(ctx, path)
	if err != nil {
		return Handle{}, &cgerrors.EnvironmentError{
			Resource: binary,
			Reason:   fmt.Sprintf("unable to determine version: %v", err),
			Hint:     req.Hint,
			Err:      cgerrors.ErrToolVersion,
		}
	}
	if !req.VersionOK(major, minor) {
		return Handle{}, &cgerrors.EnvironmentError{
			Resource: binary,
			Reason:   fmt.Sprintf("version %s is not accepted", version),
			Hint:     req.Hint,
			Err:      cgerrors.ErrToolVersion,
		}
	}

	handle.Version = version
	return handle, nil
}

// versionPattern extracts the first dotted version number from --version output
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.\d+)?`)

// queryVersion runs `tool --version` and parses the first x.y it prints
func queryVersion(ctx context.Context, path string) (version string, major, minor int, err error) {
	cmd := exec.CommandContext(ctx, path, "--version") //nolint:gosec // Path comes from LookPath
	output, err := cmd.Output()
	if err != nil {
		return "", 0, 0, fmt.Errorf("%s --version: %w", path, err)
	}

	match := versionPattern.FindStringSubmatch(string(output))
	if match == nil {
		return "", 0, 0, fmt.Errorf("no version number in output of %s --version", path)
	}

	major, _ = strconv.Atoi(match[1])
	minor, _ = strconv.Atoi(match[2])
	return strings.TrimSpace(match[0]), major, minor, nil
}

// CppcheckVersionOK accepts any 2.x release; 1.x releases are only
// accepted from 1.90 on.
func CppcheckVersionOK(major, minor int) bool {
	if major >= 2 {
		return true
	}
	return major == 1 && minor >= 90
}
