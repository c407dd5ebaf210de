// Package cmd implements the CLI commands for commitgate
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commitgate/commitgate/internal/output"
)

//nolint:gochecknoglobals // Required by cobra
var (
	noColor   bool
	colorMode string
	verbose   bool
)

// rootCmd represents the base command
//
//nolint:gochecknoglobals // Required by cobra
var rootCmd = &cobra.Command{
	Use:   "commitgate",
	Short: "Staged-change verification for C projects",
	Long: `commitgate inspects the files staged for commit and rejects the
commit if any quality gate fails: formatting, static analysis,
dictionary hygiene, dangerous function usage, binary content,
conflict markers, or protected-file tampering.

Install it as a git pre-commit hook with 'commitgate install'; the
hook runs 'commitgate run' before every commit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

//nolint:gochecknoinits // Required by cobra
func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output (same as --color=never)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Control color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

// Execute runs the root command with version information
func Execute(version, commit, buildDate string) error {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate)
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
	return rootCmd.Execute()
}

// newFormatter builds a formatter honoring the color flags
func newFormatter() *output.Formatter {
	if noColor || colorMode == "never" {
		return output.NewWithColorMode(output.ColorNever)
	}
	if colorMode == "always" {
		return output.NewWithColorMode(output.ColorAlways)
	}
	return output.NewWithColorMode(output.ColorAuto)
}
