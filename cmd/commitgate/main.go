// Package main provides the entry point for the commitgate hook
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/commitgate/commitgate/cmd/commitgate/cmd"
	cgerrors "github.com/commitgate/commitgate/internal/errors"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the outcome to the process
// exit contract: zero means the staged changes were accepted.
func run() int {
	if err := cmd.Execute(Version, Commit, BuildDate); err != nil {
		// A rejection has already been reported with full diagnostics
		if !errors.Is(err, cgerrors.ErrChecksFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
