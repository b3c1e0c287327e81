// =============================================================================
// Sheet Cleaner - Row Ordering
// =============================================================================
//
// Data rows are reordered by equipment ascending, then valid-from and
// valid-until newest first. Dates come from date cells or from text in the
// day-first forms listed below; anything unparseable sorts after every date.
//
// =============================================================================

package cleaner

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/ginjaninja78/sheet-cleaner/internal/table"
)

// Record is one data row lifted out of the table for sorting.
type Record struct {
	Values     []table.Value
	ValidFrom  *time.Time
	ValidUntil *time.Time
	Equipment  string
}

// fallbackLayouts are tried, in order, on date text that is not dd/MM/yyyy.
// Numeric forms are always day first; two-digit years map to 1969-2068.
var fallbackLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2/1/2006 15:04",
	"2/1/06 15:04",
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"2-1-2006",
	"2-1-06",
	"02.01.2006",
	"2.1.06",
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate converts a cell into a date. A Date cell is used as is; Text is
// tried first as exactly dd/MM/yyyy and then against the general layouts.
// Anything else, including numbers, yields nil.
func ParseDate(v table.Value) *time.Time {
	if d, ok := v.Time(); ok {
		return &d
	}
	s, ok := v.Str()
	if !ok {
		return nil
	}
	if d, err := time.Parse(table.DayMonthYear, s); err == nil {
		return &d
	}
	s = strings.TrimSpace(s)
	for _, layout := range fallbackLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return &d
		}
	}
	return nil
}

// ReadRecords captures data rows 2..LastRow, columns 1..LastColumn.
func ReadRecords(t table.Table, m ColumnMapping) []Record {
	lastRow, lastCol := t.LastRow(), t.LastColumn()
	records := make([]Record, 0, max(lastRow-1, 0))
	for row := 2; row <= lastRow; row++ {
		values := make([]table.Value, lastCol)
		for col := 1; col <= lastCol; col++ {
			values[col-1] = t.Cell(row, col)
		}
		records = append(records, Record{
			Values:     values,
			ValidFrom:  ParseDate(t.Cell(row, m.ValidFrom)),
			ValidUntil: ParseDate(t.Cell(row, m.ValidUntil)),
			Equipment:  t.Cell(row, m.Equipment).Text(),
		})
	}
	return records
}

// compareDateDesc orders later dates first; nil counts as the earliest date.
func compareDateDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return b.Compare(*a)
	}
}

// CompareRecords orders by Equipment ascending (byte-wise), then ValidFrom
// descending, then ValidUntil descending.
func CompareRecords(a, b Record) int {
	if c := cmp.Compare(a.Equipment, b.Equipment); c != 0 {
		return c
	}
	if c := compareDateDesc(a.ValidFrom, b.ValidFrom); c != 0 {
		return c
	}
	return compareDateDesc(a.ValidUntil, b.ValidUntil)
}

// SortRows reorders every data row by CompareRecords, keeping equal rows in
// their original order, and rewrites them starting at row 2. The number of
// data rows is unchanged. It returns the number of rows written.
func SortRows(t table.Table, m ColumnMapping) (int, error) {
	records := ReadRecords(t, m)
	slices.SortStableFunc(records, CompareRecords)

	if _, err := table.DeleteRows(t, dataRowIndices(t.LastRow())); err != nil {
		return 0, err
	}
	for i, rec := range records {
		for j, v := range rec.Values {
			if err := t.SetCell(i+2, j+1, v); err != nil {
				return i, err
			}
		}
	}
	return len(records), nil
}

func dataRowIndices(lastRow int) []int {
	rows := make([]int, 0, max(lastRow-1, 0))
	for r := 2; r <= lastRow; r++ {
		rows = append(rows, r)
	}
	return rows
}
