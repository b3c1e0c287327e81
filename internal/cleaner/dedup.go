// =============================================================================
// Sheet Cleaner - Equipment Deduplication
// =============================================================================
//
// After sorting, the first row of each equipment value is the one kept and
// later repeats are deleted bottom up. Rows without equipment always stay.
//
// =============================================================================

package cleaner

import (
	"github.com/ginjaninja78/sheet-cleaner/internal/table"
)

// RemoveDuplicates keeps the first row for each non-empty equipment value,
// scanning top to bottom, and deletes the later ones. Rows with empty
// equipment are always kept. It returns the number of rows removed.
func RemoveDuplicates(t table.Table, m ColumnMapping) (int, error) {
	seen := make(map[string]struct{})
	var marked []int

	last := t.LastRow()
	for row := 2; row <= last; row++ {
		equipment := t.Cell(row, m.Equipment).Text()
		if equipment == "" {
			continue
		}
		if _, dup := seen[equipment]; dup {
			marked = append(marked, row)
			continue
		}
		seen[equipment] = struct{}{}
	}
	return table.DeleteRows(t, marked)
}
