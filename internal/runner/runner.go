// Package runner provides the pipeline engine that executes the gate stages
package runner

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/commitgate/commitgate/internal/checks"
	"github.com/commitgate/commitgate/internal/config"
	cgerrors "github.com/commitgate/commitgate/internal/errors"
	"github.com/commitgate/commitgate/internal/git"
	"github.com/commitgate/commitgate/internal/tools"
)

// OverallStatus is the single pass/fail verdict of one run
type OverallStatus int

// Verdict outcomes
const (
	// Accepted means every stage passed
	Accepted OverallStatus = iota

	// Rejected means at least one violation or a fatal error occurred
	Rejected
)

// String returns a human-readable verdict name
func (s OverallStatus) String() string {
	if s == Accepted {
		return "accepted"
	}
	return "rejected"
}

// Verdict is assembled incrementally by the runner and finalized only
// after all stages complete, or at the point of a fatal abort.
type Verdict struct {
	Overall OverallStatus
	Results []checks.Result

	// Aborted is set when a fatal failure stopped the pipeline before
	// the remaining stages could run.
	Aborted bool

	// EnvironmentErr is set when the run aborted before any stage ran
	// its core logic.
	EnvironmentErr *cgerrors.EnvironmentError

	// StageErr is set when a stage itself failed to execute, carrying
	// the failing command context for the reporter.
	StageErr *cgerrors.CheckError

	Duration time.Duration
}

// ProgressCallback is invoked as each stage finishes so the reporter
// can render results as they arrive.
type ProgressCallback func(result checks.Result)

// Options configures one pipeline run
type Options struct {
	Progress ProgressCallback
}

// Runner executes the verification pipeline: tool probe first, then
// the ordered stages, applying each stage's failure policy. It owns
// the only mutable accumulator, the running Verdict; stages
// communicate through return values.
type Runner struct {
	config   *config.Config
	repo     *git.Repository
	registry *checks.Registry
	probe    *tools.Probe
}

// New creates a pipeline runner
func New(cfg *config.Config) *Runner {
	return &Runner{
		config:   cfg,
		repo:     git.NewRepository(cfg.RepoRoot),
		registry: checks.NewRegistry(cfg),
		probe:    tools.NewProbe(),
	}
}

// Registry exposes the configured stage list
func (r *Runner) Registry() *checks.Registry {
	return r.registry
}

// Requirements returns the external tools the enabled stages need, in
// probe order. Tools with a fallback degrade silently; the rest are
// mandatory.
func (r *Runner) Requirements() []tools.Requirement {
	var reqs []tools.Requirement

	if r.config.Checks.Style {
		reqs = append(reqs,
			tools.Requirement{
				Name:   "clang-format",
				Binary: r.config.Tools.ClangFormat,
				Hint:   "install clang-format (e.g. 'apt install clang-format')",
			},
			tools.Requirement{
				Name:     "diff",
				Binary:   "colordiff",
				Fallback: "diff",
				Hint:     "install diffutils",
			},
		)
	}
	if r.config.Checks.Dictionary {
		reqs = append(reqs, tools.Requirement{
			Name:   "aspell",
			Binary: r.config.Tools.Aspell,
			Hint:   "install aspell and its English dictionary (e.g. 'apt install aspell aspell-en')",
		})
	}
	if r.config.Checks.ShellSyntax {
		reqs = append(reqs, tools.Requirement{
			Name: "sh",
			Hint: "install a POSIX shell",
		})
	}
	if r.config.Checks.FormatStrings && runtime.GOOS != "darwin" {
		reqs = append(reqs, tools.Requirement{
			Name: "make",
			Hint: "install make (the format-string scanner is built with 'make fmtscan')",
		})
	}
	if r.config.Checks.Analysis {
		reqs = append(reqs, tools.Requirement{
			Name:      "cppcheck",
			Binary:    r.config.Tools.Cppcheck,
			VersionOK: tools.CppcheckVersionOK,
			Hint:      "install cppcheck 1.90 or newer (any 2.x is accepted)",
		})
	}

	return reqs
}

// Run executes the pipeline and produces the Verdict. The staged file
// set is captured exactly once before the first stage; the staging
// area is never re-queried mid-run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Verdict, error) {
	start := time.Now()
	verdict := &Verdict{Overall: Accepted}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.config.Timeout)*time.Second)
	defer cancel()

	finish := func() (*Verdict, error) {
		verdict.Duration = time.Since(start)
		return verdict, nil
	}

	// Every tool invocation assumes an ASCII-safe working directory
	if err := checks.CheckWorkspacePath(r.config.RepoRoot); err != nil {
		return finishEnvironment(verdict, start, err)
	}

	// Fail fast on environment problems: no diagnostic value comes
	// from running stages without a required tool.
	if err := r.probe.Resolve(ctx, r.Requirements()); err != nil {
		return finishEnvironment(verdict, start, err)
	}

	fileSet, err := r.repo.CaptureStagedFiles(ctx)
	if err != nil {
		return finishEnvironment(verdict, start, &cgerrors.EnvironmentError{
			Resource: "staging area",
			Reason:   err.Error(),
			Hint:     "check that git can read the index",
			Err:      err,
		})
	}

	env := &checks.Env{
		Config: r.config,
		Repo:   r.repo,
		Files:  fileSet,
		Probe:  r.probe,
	}

	for _, check := range r.registry.Checks() {
		result := check.Run(ctx, env)
		verdict.Results = append(verdict.Results, result)
		if opts.Progress != nil {
			opts.Progress(result)
		}

		switch result.Status {
		case checks.Pass:
			continue
		case checks.Violation:
			verdict.Overall = Rejected
			if check.FatalOnViolation() {
				verdict.Aborted = true
				return finish()
			}
		case checks.Error:
			// The tool itself failed rather than the content; stop
			// conservatively with a partial verdict reporting what ran.
			verdict.Overall = Rejected
			verdict.Aborted = true
			verdict.StageErr = cgerrors.NewStageExecutionError(
				check.Name(), strings.Join(result.Messages, "\n"), result.Suggestion)
			verdict.StageErr.Files = result.Files
			return finish()
		}
	}

	return finish()
}

// ChangeSummary computes the staged insertion/deletion summary for the reporter
func (r *Runner) ChangeSummary(ctx context.Context) (*git.ChangeSummary, error) {
	return r.repo.StagedNumStat(ctx)
}

// finishEnvironment finalizes a verdict for a pre-stage fatal abort
func finishEnvironment(verdict *Verdict, start time.Time, err error) (*Verdict, error) {
	verdict.Overall = Rejected
	verdict.Aborted = true
	verdict.Duration = time.Since(start)

	var envErr *cgerrors.EnvironmentError
	if errors.As(err, &envErr) {
		verdict.EnvironmentErr = envErr
		return verdict, nil
	}
	return verdict, err
}
