// =============================================================================
// Sheet Cleaner - Process Command
// =============================================================================
//
// This file defines the 'process' command, which is the main command for
// cleaning spreadsheets.
//
// COMMAND USAGE:
//   sheet-cleaner process [flags]
//
// FLAGS:
//   --dry-run : Clean in memory and report counts without writing any file
//   --file    : Clean only this file instead of the whole input directory
//
// PROCESSING PIPELINE:
//   1. Discover .xlsx and .csv files in the input directory
//   2. For each file (concurrently, up to max_concurrency):
//      a. Load the configured sheet
//      b. Resolve the four required headers
//      c. Remove rows by cost-center suffix
//      d. Sort by equipment and validity dates
//      e. Remove repeated equipment rows
//      f. Write the cleaned copy to the output directory
//   3. Archive processed inputs (archive_input)
//   4. Write a summary report
//
// Ctrl+C stops the run at the next stage boundary of every file in flight.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ginjaninja78/sheet-cleaner/internal/processor"
	"github.com/ginjaninja78/sheet-cleaner/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun cleans in memory without writing output files.
var dryRun bool

// filePath is the path to a specific file to process.
var filePath string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Clean the spreadsheets in the input directory",
	Long: `The process command scans the input directory for .xlsx and .csv files and
cleans each one: rows with a listed cost-center suffix are removed, the rest
are sorted by equipment and validity, and repeated equipment rows are dropped.

Files are processed concurrently. With continue_on_error (the default) a
failure in one file does not affect the others.

On successful processing:
  - The cleaned copy is placed in the output directory
  - The original is moved to the input archive when archive_input is set
  - A summary report is generated

On error:
  - The original remains in the input directory
  - The failure is listed in the summary report`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, filePath, dryRun)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Clean in memory and report counts without writing output files",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific .xlsx or .csv file to process",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runBatch cleans one file or the whole input directory and reports the
// outcome. It returns an error when any file failed.
func runBatch(cmd *cobra.Command, single string, dry bool) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, "=== Sheet Cleaner ===")
	if dry {
		fmt.Fprintln(out, "Dry run: no files will be written or archived.")
	} else if err := mainConfig.EnsureDirectories(); err != nil {
		return err
	}

	p, err := processor.New(mainConfig, processor.Options{DryRun: dry})
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	inputFiles, err := selectFiles(p, single)
	if err != nil {
		return err
	}
	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No .xlsx or .csv files found in the input directory.")
		return nil
	}
	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 2: PROCESS FILES
	// =========================================================================

	results, runErr := p.ProcessAll(ctx, inputFiles)

	for _, result := range results {
		name := filepath.Base(result.FilePath)
		if !result.Success {
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}
		target := result.OutputFile
		if target == "" {
			target = "(not written)"
		}
		fmt.Fprintf(out, "  ✓ %s -> %s (%d read, %d by suffix, %d duplicates, %d kept)\n",
			name, target,
			result.Stats.RowsRead,
			result.Stats.RemovedBySuffix,
			result.Stats.RemovedDuplicates,
			result.Stats.RowsWritten)
	}

	// =========================================================================
	// STEP 3: SUMMARY
	// =========================================================================

	summary := p.Summary(results, startTime, time.Now())

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:        %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:         %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:             %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Removed by suffix:  %d\n", summary.RemovedBySuffix)
	fmt.Fprintf(out, "Removed duplicates: %d\n", summary.RemovedDuplicates)
	fmt.Fprintf(out, "Time elapsed:       %s\n", summary.EndTime.Sub(summary.StartTime))

	if !dry {
		summaryPath, err := utils.WriteSummaryLog(summary, mainConfig.OutputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary written to: %s\n", summaryPath)
	}

	if runErr != nil {
		return runErr
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// selectFiles returns the single file given with --file, or every supported
// file in the input directory.
func selectFiles(p *processor.Processor, single string) ([]string, error) {
	if single == "" {
		files, err := p.Discover()
		if err != nil {
			return nil, fmt.Errorf("failed to discover input files: %w", err)
		}
		return files, nil
	}

	if !utils.IsSupported(single) {
		return nil, fmt.Errorf("unsupported file type: %s (expected .xlsx or .csv)", single)
	}
	if _, err := os.Stat(single); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", single, err)
	}
	return []string{single}, nil
}
