// =============================================================================
// Sheet Cleaner - CSV Adapter
// =============================================================================
//
// This module moves a delimited text file between disk and a table.Grid, so
// that exports saved as .csv can be cleaned the same way as workbooks.
//
// FEATURES:
//   - Configurable delimiter (single character, or "tab", "pipe", "semicolon")
//   - UTF-8 (with or without BOM), Windows-1252 and ISO-8859-1 files
//   - Output written back in the input encoding and delimiter
//
// Every non-empty field is read as Text. Date columns are parsed later by the
// cleaner from their dd/MM/yyyy text, and written dates use the same layout.
//
// =============================================================================

package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/sheet-cleaner/internal/config"
	"github.com/ginjaninja78/sheet-cleaner/internal/table"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrSourceUnavailable is wrapped by errors raised while opening a CSV file.
var ErrSourceUnavailable = errors.New("source unavailable")

// =============================================================================
// READING
// =============================================================================

// Read parses a CSV file into a new Grid. Row 1 of the grid is the first line
// of the file. Empty fields become empty cells.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and encoding.
//
// RETURNS:
//   - The grid.
//   - An error wrapping ErrSourceUnavailable if the file cannot be opened, or
//     a parse error naming the offending line.
func Read(filePath string, settings config.CSVSettings) (*table.Grid, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open file: %v", ErrSourceUnavailable, err)
	}
	defer file.Close()

	enc, err := lookupEncoding(settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(transform.NewReader(bufio.NewReader(file), enc.NewDecoder()))
	if err := configureReader(reader, settings); err != nil {
		return nil, err
	}

	var rows [][]table.Value
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		row := make([]table.Value, len(record))
		for i, field := range record {
			if field != "" {
				row[i] = table.TextValue(field)
			}
		}
		rows = append(rows, row)
	}

	return table.NewGrid(rows), nil
}

// configureReader applies the delimiter and the lenient parsing options.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := Delimiter(settings.Delimiter)
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Exported sheets do not always pad short rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return nil
}

// Delimiter resolves a configured delimiter to the rune used on disk.
func Delimiter(name string) (rune, error) {
	switch strings.ToLower(name) {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	case "pipe":
		return '|', nil
	case "semicolon":
		return ';', nil
	}

	r, size := utf8.DecodeRuneInString(name)
	if size != len(name) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid csv delimiter %q", name)
	}
	return r, nil
}

// lookupEncoding maps a configured encoding name or alias to its codec.
// UTF-8 input may carry a byte order mark, which is dropped.
func lookupEncoding(name string) (encoding.Encoding, error) {
	canonical, _ := config.CanonicalEncoding(name)
	switch canonical {
	case "UTF-8":
		return unicode.UTF8BOM, nil
	case "Windows-1252":
		return charmap.Windows1252, nil
	case "ISO-8859-1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("unsupported csv encoding %q", name)
}

// =============================================================================
// WRITING
// =============================================================================

// Write saves grid to filePath. Every row is padded to the grid's width.
// Characters the target encoding cannot represent are replaced.
func Write(filePath string, grid *table.Grid, settings config.CSVSettings) (err error) {
	enc, err := lookupEncoding(settings.Encoding)
	if err != nil {
		return err
	}
	comma, err := Delimiter(settings.Delimiter)
	if err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	if enc == unicode.UTF8BOM {
		// Output is plain UTF-8 without a BOM.
		enc = unicode.UTF8
	}
	encoded := transform.NewWriter(file, encoding.ReplaceUnsupported(enc.NewEncoder()))

	writer := csv.NewWriter(encoded)
	writer.Comma = comma

	cols := grid.LastColumn()
	for r := 1; r <= grid.LastRow(); r++ {
		record := make([]string, cols)
		for c := 1; c <= cols; c++ {
			record[c-1] = grid.Cell(r, c).Text()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := encoded.Close(); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	return nil
}
