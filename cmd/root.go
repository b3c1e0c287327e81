// =============================================================================
// Sheet Cleaner - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sheet-cleaner)
//   ├── processCmd  (sheet-cleaner process)
//   ├── validateCmd (sheet-cleaner validate)
//   └── versionCmd  (sheet-cleaner version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads an optional .env file into the environment
//   2. Loads the YAML configuration (--config) and CLEANER_* overrides
//   3. Sets up logging (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ginjaninja78/sheet-cleaner/internal/config"
	"github.com/ginjaninja78/sheet-cleaner/internal/logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig is loaded once per invocation by the root command.
var mainConfig *config.MainConfig

// closeLog releases the log file opened by logging.Setup.
var closeLog = func() error { return nil }

// setupLogging installs the logger; swapped out in tests.
var setupLogging = logging.Setup

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sheet-cleaner",
	Short: "Sheet Cleaner - Filter, sort and deduplicate equipment spreadsheets",
	Long: `Sheet Cleaner cleans equipment spreadsheets exported as .xlsx or .csv.

For every input file it:
  - Locates the cost center, valid-from, valid-until and equipment columns
    by their header text
  - Removes rows whose cost center ends in one of the configured suffixes
  - Sorts by equipment, then newest valid-from, then newest valid-until
  - Keeps only the first row of each equipment

The cleaned data is written to a new file in the output directory; inputs
are never modified.

Example Usage:
  sheet-cleaner process                        # Clean every file in the input directory
  sheet-cleaner process --file ./in/plan.xlsx  # Clean a single file
  sheet-cleaner process --config ./my.yaml     # Use a custom configuration file
  sheet-cleaner validate                       # Report what a run would remove`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the root command and releases the log file whether or not
// the command failed.
func run() error {
	err := rootCmd.Execute()
	closeErr := closeLog()
	closeLog = func() error { return nil }
	return errors.Join(err, closeErr)
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: A missing config.yaml falls back to the built-in
	// defaults; a missing file named explicitly is an error.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads .env, the configuration and the logger.
func initConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.LoadMainConfig(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	closeFn, err := setupLogging(level, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}

	mainConfig = cfg
	closeLog = closeFn
	slog.Debug("configuration loaded",
		slog.String("config", cfgFile),
		slog.String("input_dir", cfg.InputDir),
		slog.String("output_dir", cfg.OutputDir),
		slog.String("sheet", cfg.SheetName),
		slog.Int("suffixes", len(cfg.Suffixes)))
	return nil
}
