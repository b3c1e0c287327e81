// =============================================================================
// Sheet Cleaner - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Settings come from three
// layers, each overriding the previous one:
//
//   1. Built-in defaults (Default)
//   2. The YAML file passed with --config (config.yaml by default)
//   3. CLEANER_* environment variables, optionally seeded from a .env file
//
// EXAMPLE config.yaml:
//
//   input_dir: ./input
//   output_dir: ./output
//   sheet_name: Planilha1
//   headers:
//     cost_center: Centro custo
//     valid_from: Válido desde
//     valid_until: Válido até
//     equipment: Equipamento
//   suffixes: ["90600", "90610"]
//   csv:
//     delimiter: ";"
//     encoding: Windows-1252
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sheet-cleaner/internal/cleaner"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for .xlsx and .csv files to clean.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the cleaned files.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after a successful run when
	// ArchiveInput is set.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// ArchiveInput moves each successfully cleaned input into InputArchiveDir.
	// Default: false
	ArchiveInput bool `yaml:"archive_input"`

	// =========================================================================
	// SHEET SETTINGS
	// =========================================================================

	// SheetName is the worksheet cleaned in every workbook.
	// Default: "Planilha1"
	SheetName string `yaml:"sheet_name"`

	// Headers are the exact row-1 texts of the four columns the cleaner reads.
	Headers cleaner.HeaderNames `yaml:"headers"`

	// Suffixes lists the 5-character cost-center endings whose rows are removed.
	// An explicit empty list disables the suffix filter.
	Suffixes []string `yaml:"suffixes"`

	// CSV holds settings for .csv inputs.
	CSV CSVSettings `yaml:"csv"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat builds the output file name.
	// Placeholders:
	//   {original}  - Input file name without extension
	//   {ext}       - Input extension, including the dot
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {time}      - Current time (HHMMSS)
	// Default: "{original}_processado{ext}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is appended to in addition to stdout. Empty means stdout only.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files cleaned at once. Each file
	// is still cleaned by a single goroutine.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps processing other files after one fails. When false
	// the first failure cancels the rest at their next stage boundary.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error"`
}

// CSVSettings contains settings for reading and writing CSV files.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding of the file: "UTF-8", "Windows-1252" or "ISO-8859-1".
	// Output is written in the same encoding.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// SupportedEncodings lists the canonical CSV encoding names.
var SupportedEncodings = []string{"UTF-8", "Windows-1252", "ISO-8859-1"}

// encodingAliases maps every accepted csv.encoding spelling, upper-cased, to
// its canonical name.
var encodingAliases = map[string]string{
	"":             "UTF-8",
	"UTF-8":        "UTF-8",
	"UTF8":         "UTF-8",
	"WINDOWS-1252": "Windows-1252",
	"CP1252":       "Windows-1252",
	"ISO-8859-1":   "ISO-8859-1",
	"LATIN1":       "ISO-8859-1",
}

// CanonicalEncoding resolves a csv.encoding value or alias, in any case, to
// one of SupportedEncodings. An empty name means UTF-8.
func CanonicalEncoding(name string) (string, bool) {
	canonical, ok := encodingAliases[strings.ToUpper(strings.TrimSpace(name))]
	return canonical, ok
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the built-in configuration.
func Default() *MainConfig {
	return &MainConfig{
		InputDir:         "./input",
		OutputDir:        "./output",
		InputArchiveDir:  "./input_archive",
		SheetName:        "Planilha1",
		Headers:          cleaner.DefaultHeaderNames(),
		Suffixes:         append([]string(nil), cleaner.DefaultSuffixes...),
		CSV:              CSVSettings{Delimiter: ",", Encoding: "UTF-8"},
		OutputNameFormat: "{original}_processado{ext}",
		LogLevel:         "info",
		LogFormat:        "text",
		MaxConcurrency:   4,
		ContinueOnError:  true,
	}
}

// LoadMainConfig loads the configuration from a YAML file, then applies
// environment overrides and validates the result.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: When false, a missing file falls back to the defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or fails validation.
func LoadMainConfig(configPath string, required bool) (*MainConfig, error) {
	config := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyMainConfigDefaults(config)

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// applyMainConfigDefaults refills settings a YAML file blanked out.
func applyMainConfigDefaults(config *MainConfig) {
	def := Default()

	if config.InputDir == "" {
		config.InputDir = def.InputDir
	}
	if config.OutputDir == "" {
		config.OutputDir = def.OutputDir
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = def.InputArchiveDir
	}
	if config.SheetName == "" {
		config.SheetName = def.SheetName
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = def.OutputNameFormat
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = def.CSV.Delimiter
	}
	if config.CSV.Encoding == "" {
		config.CSV.Encoding = def.CSV.Encoding
	}
	if config.LogLevel == "" {
		config.LogLevel = def.LogLevel
	}
	if config.LogFormat == "" {
		config.LogFormat = def.LogFormat
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = def.MaxConcurrency
	}
}

// applyEnvOverrides applies CLEANER_* variables on top of the file settings.
func applyEnvOverrides(config *MainConfig) error {
	if v := os.Getenv("CLEANER_INPUT_DIR"); v != "" {
		config.InputDir = v
	}
	if v := os.Getenv("CLEANER_OUTPUT_DIR"); v != "" {
		config.OutputDir = v
	}
	if v := os.Getenv("CLEANER_SHEET_NAME"); v != "" {
		config.SheetName = v
	}
	if v, ok := os.LookupEnv("CLEANER_SUFFIXES"); ok {
		config.Suffixes = SplitList(v)
	}
	if v := os.Getenv("CLEANER_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("CLEANER_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLEANER_MAX_CONCURRENCY: %w", err)
		}
		config.MaxConcurrency = n
	}
	return nil
}

// SplitList splits comma-separated input, trimming entries and dropping blanks.
func SplitList(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the settings the cleaner depends on.
func (c *MainConfig) Validate() error {
	var errs []error

	if _, err := c.SuffixSet(); err != nil {
		errs = append(errs, err)
	}

	names := map[string]string{
		"cost_center": c.Headers.CostCenter,
		"valid_from":  c.Headers.ValidFrom,
		"valid_until": c.Headers.ValidUntil,
		"equipment":   c.Headers.Equipment,
	}
	seen := make(map[string]string)
	for _, key := range []string{"cost_center", "valid_from", "valid_until", "equipment"} {
		name := names[key]
		if name == "" {
			errs = append(errs, fmt.Errorf("headers.%s must not be empty", key))
			continue
		}
		if other, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("headers.%s and headers.%s are both %q", other, key, name))
		}
		seen[name] = key
	}

	if c.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency))
	}

	if _, ok := CanonicalEncoding(c.CSV.Encoding); !ok {
		errs = append(errs, fmt.Errorf("unsupported csv.encoding %q", c.CSV.Encoding))
	}

	return errors.Join(errs...)
}

// SuffixSet builds the suffix set, trimming each configured entry.
func (c *MainConfig) SuffixSet() (cleaner.SuffixSet, error) {
	return cleaner.ParseSuffixList(strings.Join(c.Suffixes, ","))
}

// EnsureDirectories creates the input, output and archive directories.
func (c *MainConfig) EnsureDirectories() error {
	dirs := []string{c.InputDir, c.OutputDir}
	if c.ArchiveInput {
		dirs = append(dirs, c.InputArchiveDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
