// =============================================================================
// Sheet Cleaner - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Sheet Cleaner CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   sheet-cleaner process       - Clean all .xlsx/.csv files in the input directory
//   sheet-cleaner validate      - Report what a run would remove, without writing
//   sheet-cleaner version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/                : CLI command definitions (Cobra)
//   - internal/table      : In-memory table and typed cell values
//   - internal/cleaner    : Header resolution, suffix filter, sort, deduplication
//   - internal/xlsxio     : Workbook reading and writing
//   - internal/csvio      : CSV reading and writing
//   - internal/processor  : Per-file orchestration
//   - internal/config     : YAML configuration and environment overrides
//   - internal/logging    : slog setup
//   - pkg/utils           : File discovery, naming, archival, summaries
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sheet-cleaner/cmd"
)

func main() {
	cmd.Execute()
}
