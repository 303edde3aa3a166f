package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/distpack/distpack/pkg/logging"
	"github.com/distpack/distpack/pkg/tarball"
)

const version = "0.3.0"

var (
	logLevel string
	rootCmd  *cobra.Command
	ran      bool
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "fix-tar-execs <archive.tar.gz>",
		Short: "Normalize permissions inside a release tarball",
		Long: `Rewrite a gzip-compressed tar archive in place so that directories are
0755, regular files under go/bin/ and go/pkg/tool/ are 0755, and all
other regular files are 0644. Owner, group and timestamps are preserved.
The archive is replaced only after the rewrite fully succeeds.`,
		Args:          cobra.ExactArgs(1),
		RunE:          runFix,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		switch {
		case !ran:
			// Argument and flag errors exit 2.
			fmt.Fprint(os.Stderr, rootCmd.UsageString())
			os.Exit(2)
		case errors.Is(err, tarball.ErrArchiveNotFound):
			// Missing archive is a precondition failure, also exit 2.
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runFix(cmd *cobra.Command, args []string) error {
	ran = true
	logger := logging.NewLogger("fix-tar-execs", logLevel, os.Stderr)
	return tarball.Fix(args[0], logger)
}
