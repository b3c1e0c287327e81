// =============================================================================
// Sheet Cleaner - Header Resolution
// =============================================================================
//
// Row 1 is scanned left to right and every non-empty header text is mapped to
// its column; a text that appears twice resolves to its rightmost column. The
// first required header that is absent is reported as a MissingHeaderError.
//
// =============================================================================

package cleaner

import (
	"github.com/ginjaninja78/sheet-cleaner/internal/table"
)

// HeaderNames are the exact texts expected in row 1 for the four columns the
// pipeline reads. Matching is case- and accent-sensitive.
type HeaderNames struct {
	CostCenter string `yaml:"cost_center"`
	ValidFrom  string `yaml:"valid_from"`
	ValidUntil string `yaml:"valid_until"`
	Equipment  string `yaml:"equipment"`
}

// DefaultHeaderNames returns the headers of the cost-center export.
func DefaultHeaderNames() HeaderNames {
	return HeaderNames{
		CostCenter: "Centro custo",
		ValidFrom:  "Válido desde",
		ValidUntil: "Válido até",
		Equipment:  "Equipamento",
	}
}

// ColumnMapping holds the 1-based column of each required header.
type ColumnMapping struct {
	CostCenter int
	ValidFrom  int
	ValidUntil int
	Equipment  int
}

// ResolveHeaders scans row 1 and maps each required name to its column. When
// a header text appears more than once the rightmost column wins. It fails
// with *MissingHeaderError naming the first absent header, in the order
// CostCenter, ValidFrom, ValidUntil, Equipment.
func ResolveHeaders(t table.Table, names HeaderNames) (ColumnMapping, error) {
	columns := make(map[string]int)
	for col := 1; col <= t.LastColumn(); col++ {
		if text := t.Cell(1, col).Text(); text != "" {
			columns[text] = col
		}
	}

	var m ColumnMapping
	for _, req := range []struct {
		name string
		dst  *int
	}{
		{names.CostCenter, &m.CostCenter},
		{names.ValidFrom, &m.ValidFrom},
		{names.ValidUntil, &m.ValidUntil},
		{names.Equipment, &m.Equipment},
	} {
		col, ok := columns[req.name]
		if !ok {
			return ColumnMapping{}, &MissingHeaderError{Header: req.name}
		}
		*req.dst = col
	}
	return m, nil
}
