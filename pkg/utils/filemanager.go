// =============================================================================
// Sheet Cleaner - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the cleaner, including:
//   - Input discovery (.xlsx and .csv files in the input directory)
//   - Output file naming
//   - File archival (moving cleaned inputs)
//   - Summary log generation
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to input_archive after a successful run, when
//     archival is enabled
//   - Failed files remain in their original location
//   - Summary logs are created in the output directory
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SupportedExtensions lists the input file types the cleaner reads.
var SupportedExtensions = []string{".xlsx", ".csv"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the cleaner.
type FileManager struct {
	// InputDir is the directory where input files are placed.
	InputDir string

	// OutputDir is the directory where cleaned files are placed.
	OutputDir string

	// InputArchiveDir is the directory for archived input files.
	InputArchiveDir string

	// ArchiveOnSuccess determines whether to archive inputs after a
	// successful run.
	ArchiveOnSuccess bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir string, archive bool) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		ArchiveOnSuccess: archive,
	}
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the supported files directly inside the input
// directory, sorted by name. Office lock files ("~$name.xlsx") are skipped.
//
// RETURNS:
//   - A slice of file paths.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") || !IsSupported(name) {
			continue
		}
		result = append(result, filepath.Join(fm.InputDir, name))
	}

	return result, nil
}

// IsSupported reports whether the file extension is one the cleaner reads.
func IsSupported(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// RETURNS:
//   - The path to the archived file, or filePath unchanged when archival
//     is disabled.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	archivePath := filepath.Join(fm.InputArchiveDir, filepath.Base(filePath))

	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPath builds the path of the cleaned copy of inputPath inside the
// output directory.
func (fm *FileManager) OutputPath(format, inputPath string) string {
	return filepath.Join(fm.OutputDir, GenerateOutputFileName(format, inputPath))
}

// GenerateOutputFileName generates the output file name for an input file.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {original}  - Input file name without extension
//               {ext}       - Input extension, including the dot
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - inputPath: The input file.
//
// RETURNS:
//   - The generated file name. The input extension is appended when the
//     format leaves it out, so the output keeps the input's file type.
//
// EXAMPLE:
//   format: "{original}_processado{ext}"
//   input:  "/data/in/Equipamentos.xlsx"
//   output: "Equipamentos_processado.xlsx"
func GenerateOutputFileName(format, inputPath string) string {
	now := time.Now()
	ext := filepath.Ext(inputPath)
	original := strings.TrimSuffix(filepath.Base(inputPath), ext)

	replacer := strings.NewReplacer(
		"{original}", original,
		"{ext}", ext,
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	)
	result := replacer.Replace(format)

	if !strings.EqualFold(filepath.Ext(result), ext) {
		result += ext
	}

	return result
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID             string
	StartTime         time.Time
	EndTime           time.Time
	DryRun            bool
	TotalFiles        int
	SuccessfulFiles   int
	FailedFiles       int
	TotalRows         int
	RemovedBySuffix   int
	RemovedDuplicates int
	RowsWritten       int
	ProcessedFiles    []ProcessedFileInfo
	FailedFilesList   []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully cleaned file.
type ProcessedFileInfo struct {
	InputFile         string
	OutputFile        string
	ArchivePath       string
	Rows              int
	RemovedBySuffix   int
	RemovedDuplicates int
	RowsWritten       int
	ProcessTime       time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
	ErrorType    string
}

// WriteSummaryLog writes a processing summary to a log file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	writeSummary(w, summary)

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

func writeSummary(w io.Writer, summary ProcessingSummary) {
	const rule = "================================================================================\n"
	const thin = "--------------------------------------------------------------------------------\n"

	mode := "write"
	if summary.DryRun {
		mode = "dry run (nothing written)"
	}

	fmt.Fprintf(w, "Sheet Cleaner - Processing Summary\n"+rule+"\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Mode:           %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:          %d\n"+
		"  Successful:           %d\n"+
		"  Failed:               %d\n"+
		"  Rows Read:            %d\n"+
		"  Removed by Suffix:    %d\n"+
		"  Removed Duplicates:   %d\n"+
		"  Rows Written:         %d\n\n",
		summary.RunID,
		mode,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.RemovedBySuffix,
		summary.RemovedDuplicates,
		summary.RowsWritten)

	if len(summary.ProcessedFiles) > 0 {
		fmt.Fprint(w, "Successful Files:\n"+thin)
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(w, "  Input:        %s\n", pf.InputFile)
			if pf.OutputFile != "" {
				fmt.Fprintf(w, "  Output:       %s\n", pf.OutputFile)
			}
			if pf.ArchivePath != "" {
				fmt.Fprintf(w, "  Archived:     %s\n", pf.ArchivePath)
			}
			fmt.Fprintf(w, "  Rows:         %d read, %d by suffix, %d duplicates, %d written\n",
				pf.Rows, pf.RemovedBySuffix, pf.RemovedDuplicates, pf.RowsWritten)
			fmt.Fprintf(w, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		fmt.Fprint(w, "Failed Files:\n"+thin)
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(w, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(w, "  Type:  %s\n", ff.ErrorType)
			fmt.Fprintf(w, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	fmt.Fprint(w, rule+"End of Summary\n")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
