package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commitgate/commitgate/internal/config"
	"github.com/commitgate/commitgate/internal/git"
)

// uninstallCmd represents the uninstall command
//
//nolint:gochecknoglobals // Required by cobra
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the pre-commit hook",
	Long:  `Remove the commitgate pre-commit hook. Hooks not managed by commitgate are left alone.`,
	RunE:  runUninstall,
}

func runUninstall(cobraCmd *cobra.Command, _ []string) error {
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
	if !installer.IsInstalled() {
		formatter.Info("no commitgate hook installed")
		return nil
	}
	if err := installer.Uninstall(); err != nil {
		return err
	}

	formatter.Success("pre-commit hook removed")
	return nil
}
