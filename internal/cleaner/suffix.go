// =============================================================================
// Sheet Cleaner - Cost-Center Suffix Filter
// =============================================================================
//
// Rows whose cost center ends in one of the configured five-character
// suffixes are deleted. The last five characters of the cell text are
// compared as-is; a shorter value never matches.
//
// =============================================================================

package cleaner

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/sheet-cleaner/internal/table"
)

// SuffixLength is the number of trailing characters compared against the set.
const SuffixLength = 5

// DefaultSuffixes are the cost-center endings removed by default.
var DefaultSuffixes = []string{
	"90600", "90610", "92600", "92610", "92670", "92660",
	"90660", "92640", "24099", "24010", "24024", "23019",
	"24014", "24018", "24009", "20580", "20500", "40900",
}

// SuffixSet is a set of SuffixLength-character endings.
type SuffixSet map[string]struct{}

// NewSuffixSet builds a set, rejecting any entry that is not exactly
// SuffixLength characters long.
func NewSuffixSet(suffixes ...string) (SuffixSet, error) {
	set := make(SuffixSet, len(suffixes))
	for _, s := range suffixes {
		if utf8.RuneCountInString(s) != SuffixLength {
			return nil, &InvalidSuffixError{Suffix: s}
		}
		set[s] = struct{}{}
	}
	return set, nil
}

// ParseSuffixList splits comma-separated input, trims each entry and drops
// blanks, then builds the set.
func ParseSuffixList(list string) (SuffixSet, error) {
	var parts []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return NewSuffixSet(parts...)
}

// Matches reports whether the last SuffixLength characters of s are in the
// set. Shorter strings never match.
func (s SuffixSet) Matches(text string) bool {
	runes := []rune(text)
	if len(runes) < SuffixLength {
		return false
	}
	_, ok := s[string(runes[len(runes)-SuffixLength:])]
	return ok
}

// Sorted returns the members in ascending order.
func (s SuffixSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// FilterBySuffix deletes every data row whose cost-center text ends in a
// member of suffixes and returns how many rows it removed.
func FilterBySuffix(t table.Table, m ColumnMapping, suffixes SuffixSet) (int, error) {
	var marked []int
	last := t.LastRow()
	for row := 2; row <= last; row++ {
		if suffixes.Matches(t.Cell(row, m.CostCenter).Text()) {
			marked = append(marked, row)
		}
	}
	return table.DeleteRows(t, marked)
}
