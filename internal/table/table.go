// =============================================================================
// Sheet Cleaner - Table Abstraction
// =============================================================================
//
// Table is the only view the cleaning pipeline has of a worksheet. Rows and
// columns are 1-based, row 1 is the header row. Deleting a row shifts every
// row below it up by one.
//
// Grid is the in-memory implementation. Workbook adapters (xlsxio, csvio)
// load a sheet into a Grid, the pipeline mutates it, and the adapter flushes
// it back to the file.
//
// =============================================================================

package table

import (
	"errors"
	"fmt"
	"slices"
)

// ErrOutOfRange is returned for row or column indices below 1 or past the
// stored rows.
var ErrOutOfRange = errors.New("index out of range")

// Table is a mutable, row-ordered collection of cells.
type Table interface {
	// Cell returns the value at (row, col). Cells outside the used range are Empty.
	Cell(row, col int) Value

	// SetCell writes a value, growing the table when needed.
	SetCell(row, col int, v Value) error

	// DeleteRow removes a row and shifts all following rows up by one.
	DeleteRow(row int) error

	// LastRow returns the highest row index holding a non-empty cell, or 0.
	LastRow() int

	// LastColumn returns the highest column index holding a non-empty cell, or 0.
	LastColumn() int
}

// =============================================================================
// GRID
// =============================================================================

// Grid is a Table backed by a slice of rows. It is not safe for concurrent use.
type Grid struct {
	rows [][]Value
}

// NewGrid builds a Grid from rows; rows[0] becomes row 1. The slices are
// copied so the caller keeps ownership of its input.
func NewGrid(rows [][]Value) *Grid {
	g := &Grid{rows: make([][]Value, len(rows))}
	for i, r := range rows {
		g.rows[i] = slices.Clone(r)
	}
	return g
}

// Cell implements Table.
func (g *Grid) Cell(row, col int) Value {
	if row < 1 || row > len(g.rows) {
		return Value{}
	}
	r := g.rows[row-1]
	if col < 1 || col > len(r) {
		return Value{}
	}
	return r[col-1]
}

// SetCell implements Table.
func (g *Grid) SetCell(row, col int, v Value) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("set cell (%d,%d): %w", row, col, ErrOutOfRange)
	}
	for len(g.rows) < row {
		g.rows = append(g.rows, nil)
	}
	r := g.rows[row-1]
	for len(r) < col {
		r = append(r, Value{})
	}
	r[col-1] = v
	g.rows[row-1] = r
	return nil
}

// DeleteRow implements Table.
func (g *Grid) DeleteRow(row int) error {
	if row < 1 || row > len(g.rows) {
		return fmt.Errorf("delete row %d of %d: %w", row, len(g.rows), ErrOutOfRange)
	}
	g.rows = slices.Delete(g.rows, row-1, row)
	return nil
}

// LastRow implements Table.
func (g *Grid) LastRow() int {
	for i := len(g.rows) - 1; i >= 0; i-- {
		if lastUsed(g.rows[i]) > 0 {
			return i + 1
		}
	}
	return 0
}

// LastColumn implements Table.
func (g *Grid) LastColumn() int {
	last := 0
	for _, r := range g.rows {
		last = max(last, lastUsed(r))
	}
	return last
}

// Rows returns a deep copy of the used range, trailing empty cells trimmed.
func (g *Grid) Rows() [][]Value {
	n := g.LastRow()
	out := make([][]Value, n)
	for i := 0; i < n; i++ {
		out[i] = slices.Clone(g.rows[i][:lastUsed(g.rows[i])])
	}
	return out
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return NewGrid(g.rows)
}

func lastUsed(r []Value) int {
	for i := len(r) - 1; i >= 0; i-- {
		if !r[i].IsEmpty() {
			return i + 1
		}
	}
	return 0
}

// =============================================================================
// ROW DELETION
// =============================================================================

// DeleteRows removes the given rows from t, highest index first, so that no
// deletion shifts a row that is still waiting to be deleted. Duplicate indices
// are removed once. It returns the number of rows deleted.
func DeleteRows(t Table, rows []int) (int, error) {
	order := slices.Clone(rows)
	slices.Sort(order)
	order = slices.Compact(order)
	slices.Reverse(order)

	for i, r := range order {
		if err := t.DeleteRow(r); err != nil {
			return i, err
		}
	}
	return len(order), nil
}

// Without is the pure form of DeleteRows: it returns rows minus the entries
// at the given 1-based positions, keeping the relative order of survivors.
func Without[T any](rows []T, drop []int) []T {
	skip := make(map[int]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		if _, ok := skip[i+1]; !ok {
			out = append(out, r)
		}
	}
	return out
}
