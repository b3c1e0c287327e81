// =============================================================================
// Sheet Cleaner - Processor Module
// =============================================================================
//
// This module runs the cleaning pipeline over whole files. It orchestrates the
// work for a single input, from loading the sheet to archiving the input.
//
// PROCESSING PIPELINE:
//   1. Open the input (.xlsx workbook or .csv file)           progress 10
//   2. Load the configured sheet into an in-memory table       progress 20
//   3. Clean the table (headers, suffix filter, sort, dedup)   progress 30-90
//   4. Write the cleaned table to the output directory         progress 100
//   5. Archive the input, when enabled
//
// The input file itself is never modified: the cleaned table is written to a
// new file named by output_name_format.
//
// CONCURRENCY:
//   ProcessAll cleans up to max_concurrency files at once. Each file is
//   cleaned by a single goroutine that owns its table.
//
// =============================================================================

package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/sheet-cleaner/internal/cleaner"
	"github.com/ginjaninja78/sheet-cleaner/internal/config"
	"github.com/ginjaninja78/sheet-cleaner/internal/csvio"
	"github.com/ginjaninja78/sheet-cleaner/internal/table"
	"github.com/ginjaninja78/sheet-cleaner/internal/xlsxio"
	"github.com/ginjaninja78/sheet-cleaner/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the cleaned file.
	// This is empty if processing failed or in a dry run.
	OutputFile string

	// ArchivePath is where the input was moved, when archival is enabled.
	ArchivePath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics. Counts of stages that completed
	// are kept even when a later step fails.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of data rows (header excluded) loaded.
	RowsRead int

	// RemovedBySuffix is the number of rows dropped by the suffix filter.
	RemovedBySuffix int

	// RemovedDuplicates is the number of repeated equipment rows dropped.
	RemovedDuplicates int

	// RowsWritten is the number of data rows left after cleaning.
	RowsWritten int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// PROCESSOR STRUCTURE
// =============================================================================

// Options adjusts a Processor.
type Options struct {
	// DryRun cleans in memory only: nothing is written or archived.
	DryRun bool

	// Logger receives progress lines. Defaults to slog.Default().
	Logger *slog.Logger

	// Observer additionally receives every pipeline event. May be nil.
	Observer cleaner.Observer
}

// Processor cleans input files according to the main configuration.
// It is safe for concurrent use by multiple goroutines.
type Processor struct {
	cfg      *config.MainConfig
	files    *utils.FileManager
	suffixes cleaner.SuffixSet
	dryRun   bool
	runID    string
	logger   *slog.Logger
	observer cleaner.Observer
}

// New creates a Processor. Every log line it writes carries a run_id shared
// by all files of the run.
//
// RETURNS:
//   - An error if the configured suffix list is invalid.
func New(cfg *config.MainConfig, opts Options) (*Processor, error) {
	suffixes, err := cfg.SuffixSet()
	if err != nil {
		return nil, fmt.Errorf("invalid suffix list: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()

	return &Processor{
		cfg:      cfg,
		files:    utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.ArchiveInput && !opts.DryRun),
		suffixes: suffixes,
		dryRun:   opts.DryRun,
		runID:    runID,
		logger:   logger.With(slog.String("run_id", runID)),
		observer: opts.Observer,
	}, nil
}

// RunID identifies this processor's run in logs and the summary.
func (p *Processor) RunID() string {
	return p.runID
}

// Discover lists the supported files in the input directory.
func (p *Processor) Discover() ([]string, error) {
	return p.files.DiscoverInputFiles()
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// ProcessAll processes files concurrently, at most max_concurrency at a time.
// Results are returned in the order of paths.
//
// When continue_on_error is false, the first failure cancels the files still
// running (at their next stage boundary) and those not yet started, and is
// returned as the error.
func (p *Processor) ProcessAll(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = p.ProcessFile(gctx, path)
			if !results[i].Success && !p.cfg.ContinueOnError {
				return fmt.Errorf("%s: %w", filepath.Base(path), results[i].Error)
			}
			return nil
		})
	}

	return results, g.Wait()
}

// ProcessFile cleans one file. It never panics on bad input: every failure
// is reported in the Result.
func (p *Processor) ProcessFile(ctx context.Context, path string) (result Result) {
	start := time.Now()
	result.FilePath = path
	logger := p.logger.With(slog.String("file", filepath.Base(path)))

	defer func() {
		result.Stats.ProcessingTime = time.Since(start)
		if result.Error != nil {
			logger.Error("file failed",
				slog.String("error_type", ErrorType(result.Error)),
				slog.Any("error", result.Error))
			return
		}
		logger.Info("file done",
			slog.Int("rows_read", result.Stats.RowsRead),
			slog.Int("removed_by_suffix", result.Stats.RemovedBySuffix),
			slog.Int("removed_duplicates", result.Stats.RemovedDuplicates),
			slog.Int("rows_written", result.Stats.RowsWritten),
			slog.Duration("elapsed", time.Since(start)))
	}()

	if err := p.clean(ctx, path, logger, &result); err != nil {
		result.Error = err
		return result
	}
	result.Success = true

	archivePath, err := p.files.ArchiveInputFile(path)
	switch {
	case err != nil:
		// The cleaned file is already written; a failed move is not fatal.
		logger.Warn("failed to archive input", slog.Any("error", err))
	case archivePath != path:
		result.ArchivePath = archivePath
	}

	return result
}

// clean loads, cleans and saves one file. The input is closed before
// returning so it can be archived.
func (p *Processor) clean(ctx context.Context, path string, logger *slog.Logger, result *Result) error {
	if err := ctx.Err(); err != nil {
		return &cleaner.CancelledError{Completed: cleaner.StageNone, Err: err}
	}

	ds, err := p.open(path, logger)
	if err != nil {
		return err
	}
	defer ds.close()

	result.Stats.RowsRead = dataRows(ds.grid)

	res, err := cleaner.Run(ctx, ds.grid, cleaner.Options{
		Headers:  p.cfg.Headers,
		Suffixes: p.suffixes,
		Observer: cleaner.Chain(cleaner.LogObserver(logger), p.observer),
	})
	result.Stats.RemovedBySuffix = res.RemovedBySuffix
	result.Stats.RemovedDuplicates = res.RemovedDuplicates
	if err != nil {
		return err
	}
	result.Stats.RowsWritten = dataRows(ds.grid)

	if p.dryRun {
		logger.Info("dry run, nothing written", slog.Int("progress", 100))
		return nil
	}

	outputPath := p.files.OutputPath(p.cfg.OutputNameFormat, path)
	if samePath(outputPath, path) {
		return fmt.Errorf("output file %s would overwrite the input", outputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := ds.save(outputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	result.OutputFile = outputPath
	logger.Info("file saved", slog.String("output", outputPath), slog.Int("progress", 100))
	return nil
}

// =============================================================================
// INPUT FORMATS
// =============================================================================

// dataset is a loaded input ready to be cleaned and saved.
type dataset struct {
	grid  *table.Grid
	save  func(outputPath string) error
	close func() error
}

// open loads the input according to its extension.
func (p *Processor) open(path string, logger *slog.Logger) (*dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		wb, err := xlsxio.Open(path)
		if err != nil {
			return nil, err
		}
		logger.Info("workbook opened", slog.Int("progress", 10))

		grid, err := wb.ReadSheet(p.cfg.SheetName)
		if err != nil {
			wb.Close()
			return nil, err
		}
		logger.Info("sheet loaded",
			slog.String("sheet", p.cfg.SheetName),
			slog.Int("rows", grid.LastRow()),
			slog.Int("progress", 20))

		return &dataset{
			grid: grid,
			save: func(outputPath string) error {
				if err := wb.WriteSheet(p.cfg.SheetName, grid); err != nil {
					return err
				}
				return wb.SaveAs(outputPath)
			},
			close: wb.Close,
		}, nil

	case ".csv":
		grid, err := csvio.Read(path, p.cfg.CSV)
		if err != nil {
			return nil, err
		}
		logger.Info("csv loaded", slog.Int("rows", grid.LastRow()), slog.Int("progress", 20))

		return &dataset{
			grid: grid,
			save: func(outputPath string) error {
				return csvio.Write(outputPath, grid, p.cfg.CSV)
			},
			close: func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary aggregates results into the summary written at the end of a run.
func (p *Processor) Summary(results []Result, start, end time.Time) utils.ProcessingSummary {
	summary := utils.ProcessingSummary{
		RunID:      p.runID,
		StartTime:  start,
		EndTime:    end,
		DryRun:     p.dryRun,
		TotalFiles: len(results),
	}

	for _, r := range results {
		summary.TotalRows += r.Stats.RowsRead
		summary.RemovedBySuffix += r.Stats.RemovedBySuffix
		summary.RemovedDuplicates += r.Stats.RemovedDuplicates

		if !r.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    r.FilePath,
				ErrorMessage: r.Error.Error(),
				ErrorType:    ErrorType(r.Error),
			})
			continue
		}

		summary.SuccessfulFiles++
		summary.RowsWritten += r.Stats.RowsWritten
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:         r.FilePath,
			OutputFile:        r.OutputFile,
			ArchivePath:       r.ArchivePath,
			Rows:              r.Stats.RowsRead,
			RemovedBySuffix:   r.Stats.RemovedBySuffix,
			RemovedDuplicates: r.Stats.RemovedDuplicates,
			RowsWritten:       r.Stats.RowsWritten,
			ProcessTime:       r.Stats.ProcessingTime,
		})
	}

	return summary
}

// ErrorType names the kind of a processing error for logs and summaries.
func ErrorType(err error) string {
	var missing *cleaner.MissingHeaderError
	var cancelled *cleaner.CancelledError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &cancelled):
		return "cancelled"
	case errors.As(err, &missing):
		return "missing header"
	case errors.Is(err, xlsxio.ErrSourceUnavailable), errors.Is(err, csvio.ErrSourceUnavailable):
		return "source unavailable"
	case errors.Is(err, cleaner.ErrProcessingFailed):
		return "processing failed"
	default:
		return "io"
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// dataRows counts the rows below the header.
func dataRows(g *table.Grid) int {
	return max(g.LastRow()-1, 0)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
