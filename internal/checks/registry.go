package checks

import (
	"time"

	"github.com/commitgate/commitgate/internal/config"
)

// Registry holds the gate stages in their fixed execution order.
// Order is part of the contract: fatal stages run before the
// accumulating ones, and diagnostics appear in a predictable sequence.
type Registry struct {
	checks []Check
}

// NewRegistry builds the stage list for a configuration. Disabled
// stages are simply not registered.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{}

	if cfg.Checks.ConflictMarkers {
		r.Register(NewConflictMarkerCheck())
	}
	if cfg.Checks.ProtectedFiles {
		r.Register(NewProtectedFileCheck())
	}
	if cfg.Checks.Dictionary {
		r.Register(NewDictionarySanityCheck())
	}
	if cfg.Checks.ShellSyntax {
		r.Register(NewShellSyntaxCheck(time.Duration(cfg.StageTimeouts.ShellSyntax) * time.Second))
	}
	if cfg.Checks.Paths {
		r.Register(NewNonASCIIPathCheck())
	}
	if cfg.Checks.BinaryContent {
		r.Register(NewBinaryContentCheck())
	}
	if cfg.Checks.Style {
		r.Register(NewStyleConformanceCheck(time.Duration(cfg.StageTimeouts.Style) * time.Second))
	}
	if cfg.Checks.Banned {
		r.Register(NewDangerousFunctionCheck())
	}
	if cfg.Checks.FormatStrings {
		r.Register(NewFormatStringCheck(time.Duration(cfg.StageTimeouts.FormatStrings) * time.Second))
	}
	if cfg.Checks.Analysis {
		r.Register(NewStaticAnalysisCheck(time.Duration(cfg.StageTimeouts.Analysis) * time.Second))
	}

	return r
}

// Register appends a stage to the end of the order
func (r *Registry) Register(check Check) {
	r.checks = append(r.checks, check)
}

// Checks returns the stages in execution order
func (r *Registry) Checks() []Check {
	return r.checks
}

// Get returns a stage by name
func (r *Registry) Get(name string) (Check, bool) {
	for _, check := range r.checks {
		if check.Name() == name {
			return check, true
		}
	}
	return nil, false
}

// Names returns the stage names in execution order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.checks))
	for _, check := range r.checks {
		names = append(names, check.Name())
	}
	return names
}
