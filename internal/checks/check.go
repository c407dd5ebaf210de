// Package checks provides the stage contract and registry for the commit gate
package checks

import (
	"context"

	"github.com/commitgate/commitgate/internal/config"
	"github.com/commitgate/commitgate/internal/git"
	"github.com/commitgate/commitgate/internal/tools"
)

// Status is the outcome of one stage
type Status int

// Stage outcomes
const (
	// Pass means the stage's rule holds for the staged content
	Pass Status = iota

	// Violation means staged content broke the stage's rule
	Violation

	// Error means the stage could not execute at all
	Error
)

// String returns a human-readable status name
func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Violation:
		return "violation"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Result is created exactly once per stage per run and never mutated
// after creation.
type Result struct {
	// Stage is the name of the check that produced this result
	Stage string

	// Status is the outcome
	Status Status

	// Messages are the ordered diagnostics for the user
	Messages []string

	// Files are the paths that triggered the outcome
	Files []string

	// Suggestion is the corrective command or hint, where one exists
	Suggestion string
}

// Env bundles the read-only inputs every stage consumes. The staged
// file set is captured once before any stage runs and shared here.
type Env struct {
	Config *config.Config
	Repo   *git.Repository
	Files  *git.FileSet
	Probe  *tools.Probe
}

// Check is the contract every gate stage implements
type Check interface {
	// Name returns the unique stage name
	Name() string

	// Description returns a brief description of what the stage verifies
	Description() string

	// FatalOnViolation reports whether a Violation aborts the
	// remaining pipeline instead of accumulating.
	FatalOnViolation() bool

	// Run executes the stage against the captured staged file set
	Run(ctx context.Context, env *Env) Result
}

// passed builds a passing result for a stage
func passed(stage string) Result {
	return Result{Stage: stage, Status: Pass}
}

// violation builds a violating result
func violation(stage string, messages, files []string, suggestion string) Result {
	return Result{
		Stage:      stage,
		Status:     Violation,
		Messages:   messages,
		Files:      files,
		Suggestion: suggestion,
	}
}

// execError builds a stage-execution error result
func execError(stage string, err error, suggestion string) Result {
	return Result{
		Stage:      stage,
		Status:     Error,
		Messages:   []string{err.Error()},
		Suggestion: suggestion,
	}
}
