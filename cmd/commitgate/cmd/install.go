package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commitgate/commitgate/internal/config"
	"github.com/commitgate/commitgate/internal/git"
)

//nolint:gochecknoglobals // Required by cobra
var force bool

// installCmd represents the install command
//
//nolint:gochecknoglobals // Required by cobra
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the pre-commit hook",
	Long: `Install commitgate as the repository's pre-commit hook.

An existing hook not managed by commitgate is preserved unless
--force is given, in which case it is backed up first.`,
	Example: `  # Install the hook
  commitgate install

  # Replace an existing hook, keeping a backup
  commitgate install --force`,
	RunE: runInstall,
}

//nolint:gochecknoinits // Required by cobra
func init() {
	installCmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing hook, backing it up first")
}

func runInstall(cobraCmd *cobra.Command, _ []string) error {
	ctx := cobraCmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter()

	repoRoot, err := git.FindRepositoryRoot(ctx)
	if err != nil {
		return fmt.Errorf("failed to find git repository: %w", err)
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	installer := git.NewInstaller(repoRoot, cfg.Paths.HookDir)
	if err := installer.Install(force); err != nil {
		return err
	}

	formatter.Success("pre-commit hook installed at %s", installer.HookPath())
	return nil
}
