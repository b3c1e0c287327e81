package cleaner

import (
	"testing"
	"time"

	"github.com/ginjaninja78/sheet-cleaner/internal/table"
	"github.com/stretchr/testify/require"
)

var header = []string{"Centro custo", "Válido desde", "Válido até", "Equipamento"}

// gridOf builds a table from text rows; "" becomes an empty cell.
func gridOf(rows ...[]string) *table.Grid {
	vals := make([][]table.Value, len(rows))
	for i, r := range rows {
		vals[i] = make([]table.Value, len(r))
		for j, s := range r {
			if s != "" {
				vals[i][j] = table.TextValue(s)
			}
		}
	}
	return table.NewGrid(vals)
}

// column returns the text of col for every data row.
func column(g *table.Grid, col int) []string {
	var out []string
	for r := 2; r <= g.LastRow(); r++ {
		out = append(out, g.Cell(r, col).Text())
	}
	return out
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustSuffixes(t *testing.T, s ...string) SuffixSet {
	t.Helper()
	set, err := NewSuffixSet(s...)
	require.NoError(t, err)
	return set
}

func defaultMapping() ColumnMapping {
	return ColumnMapping{CostCenter: 1, ValidFrom: 2, ValidUntil: 3, Equipment: 4}
}

func ptr(t time.Time) *time.Time { return &t }
