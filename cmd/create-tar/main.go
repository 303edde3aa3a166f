package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/distpack/distpack/pkg/logging"
	"github.com/distpack/distpack/pkg/tarball"
)

const version = "0.3.0"

var (
	baseName string
	logLevel string
	rootCmd  *cobra.Command
	ran      bool
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "create-tar <source_directory> <output.tar.gz>",
		Short: "Package a directory tree as a release tarball",
		Long: `Package a directory tree as a gzip-compressed tar archive with
normalized permissions: directories 0755, regular files 0644, and 0755
for files under bin/, pkg/tool/ and tools/.`,
		Example:       "  create-tar ./temp/go ./output/go1.23.5.linux-amd64.tar.gz",
		Args:          cobra.ExactArgs(2),
		RunE:          runCreate,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&baseName, "base", tarball.DefaultBaseName, "Top-level directory name for archive entries")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !ran {
			// Argument and flag errors exit 2, runtime failures exit 1.
			fmt.Fprint(os.Stderr, rootCmd.UsageString())
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	ran = true
	logger := logging.NewLogger("create-tar", logLevel, os.Stderr)

	size, err := tarball.Build(args[0], args[1], baseName, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Successfully created tar.gz: %s\n", args[1])
	fmt.Printf("Size: %.2f MB\n", float64(size)/(1024*1024))
	return nil
}
