package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/commitgate/commitgate/internal/config"
	cgerrors "github.com/commitgate/commitgate/internal/errors"
	"github.com/commitgate/commitgate/internal/git"
	"github.com/commitgate/commitgate/internal/runner"
)

//nolint:gochecknoglobals // Required by cobra
var showChecks bool

// runCmd represents the run command
//
//nolint:gochecknoglobals // Required by cobra
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Verify the staged changes",
	Long: `Run the verification pipeline against the files staged for commit.

The staged file set is captured once; each gate stage then inspects
it independently. Environment problems and a fixed set of severe
violations abort immediately; everything else is collected so one run
reports every problem. A change summary is printed either way.`,
	Example: `  # Verify the staged changes (what the hook runs)
  commitgate run

  # List the configured stages
  commitgate run --show-checks`,
	RunE: runPipeline,
}

//nolint:gochecknoinits // Required by cobra
func init() {
	runCmd.Flags().BoolVar(&showChecks, "show-checks", false, "List the configured stages and exit")
}

func runPipeline(cobraCmd *cobra.Command, _ []string) error {
	ctx := cobraCmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter()

	repoRoot, err := git.FindRepositoryRoot(ctx)
	if err != nil {
		formatter.Error("Failed to find git repository: %v", err)
		return fmt.Errorf("failed to find git repository: %w", err)
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		formatter.Error("Failed to load configuration: %v", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}

	if !cfg.Enabled {
		formatter.Warning("commitgate is disabled (COMMITGATE_ENABLED=false)")
		return nil
	}

	r := runner.New(cfg)

	if showChecks {
		for _, check := range r.Registry().Checks() {
			policy := "accumulates"
			if check.FatalOnViolation() {
				policy = "fatal"
			}
			formatter.Info("%-18s %-11s %s", check.Name(), policy, check.Description())
		}
		return nil
	}

	verdict, err := r.Run(ctx, runner.Options{Progress: formatter.StageResult})
	if err != nil {
		formatter.Error("Pipeline failed: %v", err)
		return err
	}

	if verdict.EnvironmentErr != nil {
		formatter.EnvironmentError(verdict.EnvironmentErr)
	}

	// The change summary goes to stdout for every run, accepted or not
	if summary, sumErr := r.ChangeSummary(ctx); sumErr == nil {
		formatter.ChangeSummary(summary)
	}

	if verdict.Overall == runner.Rejected {
		if verdict.Aborted {
			formatter.Error("commit rejected, remaining stages were skipped")
		} else {
			formatter.Error("commit rejected")
		}
		if verdict.StageErr != nil {
			// A stage that could not execute is reported as its own
			// failure, not as a content rejection
			return verdict.StageErr
		}
		return cgerrors.ErrChecksFailed
	}

	formatter.Success("commit accepted in %s", verdict.Duration.Round(time.Millisecond))
	return nil
}
