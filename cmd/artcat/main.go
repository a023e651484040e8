package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openartmap/artcat/cmd/artcat/commands"
	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/logger"
)

var rootCmd = &cobra.Command{
	Use:   "artcat",
	Short: "artcat - Mass-import pipeline for the public art catalog",
	Long: `artcat - Mass-import pipeline for the public art catalog.

artcat ingests heterogeneous public-art datasets (municipal open data,
scraped documents), maps source fields onto canonical artwork records via
declarative mapping scripts, skips records that already exist at the
destination using weighted fuzzy matching, and writes an auditable report
for every run.

Examples:
  artcat import --importer vancouver --exporter api --input export.json
  artcat import --importer scraper --exporter console --input pages.json --dry-run
  artcat plugins                  # List registered importers and exporters
  artcat config show              # Show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(verbosity, jsonOutput); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(commands.ImportCmd)
	rootCmd.AddCommand(commands.PluginsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hints)
		}
		logger.Cleanup()
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit code: 1 when records
// failed during an otherwise healthy run, 2 for anything fatal.
func exitCode(err error) int {
	if errors.Is(err, commands.ErrRecordsFailed) {
		return 1
	}
	return 2
}
