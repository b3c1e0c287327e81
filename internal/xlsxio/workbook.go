// =============================================================================
// Sheet Cleaner - XLSX Workbook Adapter
// =============================================================================
//
// This module moves one worksheet between an .xlsx file and a table.Grid.
//
// READING:
//   Each cell is converted to a typed table.Value:
//
//   | Stored cell                         | Value  |
//   |-------------------------------------|--------|
//   | missing / blank                     | Empty  |
//   | shared / inline / formula string    | Text   |
//   | boolean                             | Text ("TRUE" / "FALSE") |
//   | number with a date number format    | Date   |
//   | ISO 8601 date cell (t="d")          | Date   |
//   | any other number                    | Number |
//
// WRITING:
//   The grid is written back over the same sheet. Cell styles stay with their
//   cell position, and rows past the new end of the data are removed. Other
//   sheets in the workbook are not touched.
//
// =============================================================================

package xlsxio

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ginjaninja78/sheet-cleaner/internal/table"
	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"
)

// ErrSourceUnavailable is wrapped by every error raised while opening a
// workbook or locating its sheet.
var ErrSourceUnavailable = errors.New("source unavailable")

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open .xlsx file.
type Workbook struct {
	path string
	f    *excelize.File

	// loaded remembers the used size of each sheet at read time so WriteSheet
	// can clear rows the cleaned grid no longer covers.
	loaded map[string]extent

	date1904    bool
	styles      map[int]bool
	dateStyleID int
}

type extent struct {
	rows, cols int
}

// Open opens an existing workbook.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook %s: %v", ErrSourceUnavailable, path, err)
	}

	wb := &Workbook{
		path:   path,
		f:      f,
		loaded: make(map[string]extent),
		styles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// Close releases the file.
func (wb *Workbook) Close() error {
	return wb.f.Close()
}

// Sheets lists the worksheet names in workbook order.
func (wb *Workbook) Sheets() []string {
	return wb.f.GetSheetList()
}

// hasSheet reports whether the workbook contains the named sheet.
func (wb *Workbook) hasSheet(sheet string) bool {
	idx, err := wb.f.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

// =============================================================================
// READING
// =============================================================================

// ReadSheet loads the named sheet into a new Grid.
//
// RETURNS:
//   - The grid, with row 1 holding the sheet's first row.
//   - An error wrapping ErrSourceUnavailable if the sheet does not exist.
func (wb *Workbook) ReadSheet(sheet string) (*table.Grid, error) {
	if !wb.hasSheet(sheet) {
		return nil, fmt.Errorf("%w: sheet %q not found in %s", ErrSourceUnavailable, sheet, wb.path)
	}

	raw, err := wb.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rows := make([][]table.Value, len(raw))
	cols := 0
	for r, rawRow := range raw {
		cols = max(cols, len(rawRow))
		rows[r] = make([]table.Value, len(rawRow))
		for c, s := range rawRow {
			if s == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			v, err := wb.readCell(sheet, axis, s)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", axis, err)
			}
			rows[r][c] = v
		}
	}

	wb.loaded[sheet] = extent{rows: len(raw), cols: cols}
	return table.NewGrid(rows), nil
}

// readCell types a non-empty raw cell value.
func (wb *Workbook) readCell(sheet, axis, raw string) (table.Value, error) {
	typ, err := wb.f.GetCellType(sheet, axis)
	if err != nil {
		return table.Value{}, err
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return table.TextValue(raw), nil
	case excelize.CellTypeBool:
		if raw == "1" {
			return table.TextValue("TRUE"), nil
		}
		return table.TextValue("FALSE"), nil
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return table.DateValue(t), nil
			}
		}
		return table.TextValue(raw), nil
	}

	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return table.TextValue(raw), nil
	}

	isDate, err := wb.isDateStyled(sheet, axis)
	if err != nil {
		return table.Value{}, err
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(num, wb.date1904)
		if err == nil {
			return table.DateValue(t), nil
		}
	}
	return table.NumberValue(num), nil
}

// isDateStyled reports whether the cell's number format displays a date.
func (wb *Workbook) isDateStyled(sheet, axis string) (bool, error) {
	styleID, err := wb.f.GetCellStyle(sheet, axis)
	if err != nil {
		return false, err
	}
	if cached, ok := wb.styles[styleID]; ok {
		return cached, nil
	}

	style, err := wb.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	wb.styles[styleID] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a built-in number format ID is a date or time.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether any section of a custom number format
// code displays a date, a time or an elapsed time.
func isDateFormatCode(code string) bool {
	parser := nfp.NumberFormatParser()
	for _, section := range parser.Parse(code) {
		for _, token := range section.Items {
			switch token.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}

// =============================================================================
// WRITING
// =============================================================================

// WriteSheet writes grid over the named sheet. Rows and columns beyond the
// grid that held data when the sheet was read are cleared.
func (wb *Workbook) WriteSheet(sheet string, grid *table.Grid) error {
	if !wb.hasSheet(sheet) {
		return fmt.Errorf("%w: sheet %q not found in %s", ErrSourceUnavailable, sheet, wb.path)
	}

	prev := wb.loaded[sheet]
	lastRow := grid.LastRow()
	lastCol := max(grid.LastColumn(), prev.cols)

	for r := 1; r <= lastRow; r++ {
		for c := 1; c <= lastCol; c++ {
			axis, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			if err := wb.writeCell(sheet, axis, grid.Cell(r, c)); err != nil {
				return fmt.Errorf("cell %s: %w", axis, err)
			}
		}
	}

	for r := prev.rows; r > lastRow; r-- {
		if err := wb.f.RemoveRow(sheet, r); err != nil {
			return fmt.Errorf("failed to remove row %d: %w", r, err)
		}
	}

	wb.loaded[sheet] = extent{rows: lastRow, cols: grid.LastColumn()}
	return nil
}

// writeCell stores one value. Dates get a date number format when the cell
// has none; numbers lose a leftover date format so they read back as numbers.
func (wb *Workbook) writeCell(sheet, axis string, v table.Value) error {
	switch v.Kind() {
	case table.Text:
		s, _ := v.Str()
		return wb.f.SetCellStr(sheet, axis, s)
	case table.Number:
		n, _ := v.Float()
		if err := wb.f.SetCellFloat(sheet, axis, n, -1, 64); err != nil {
			return err
		}
		dated, err := wb.isDateStyled(sheet, axis)
		if err != nil || !dated {
			return err
		}
		return wb.f.SetCellStyle(sheet, axis, axis, 0)
	case table.Date:
		t, _ := v.Time()
		dated, err := wb.isDateStyled(sheet, axis)
		if err != nil {
			return err
		}
		if err := wb.f.SetCellValue(sheet, axis, t); err != nil {
			return err
		}
		if dated {
			return nil
		}
		id, err := wb.dateStyle()
		if err != nil {
			return err
		}
		return wb.f.SetCellStyle(sheet, axis, axis, id)
	default:
		return wb.f.SetCellValue(sheet, axis, nil)
	}
}

// dateStyle returns the dd/mm/yyyy style, registering it on first use.
func (wb *Workbook) dateStyle() (int, error) {
	if wb.dateStyleID != 0 {
		return wb.dateStyleID, nil
	}
	format := "dd/mm/yyyy"
	id, err := wb.f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return 0, fmt.Errorf("failed to create date style: %w", err)
	}
	wb.dateStyleID = id
	return id, nil
}

// SaveAs writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	if err := wb.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
