// =============================================================================
// Sheet Cleaner - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It runs the full cleaning
// pipeline in memory and reports, per file, whether the required headers
// were found and how many rows a real run would remove. Nothing is written,
// moved or archived.
//
// COMMAND USAGE:
//   sheet-cleaner validate [--file path]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

// validateFile restricts validation to one file.
var validateFile string

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check input files and report what a run would remove",
	Long: `The validate command checks the configuration and every input file without
changing anything on disk. For each file it reports whether the configured
sheet and headers were found and how many rows the suffix filter and the
deduplication would remove.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, validateFile, true)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(
		&validateFile,
		"file",
		"",
		"Path to a specific .xlsx or .csv file to validate",
	)
}
