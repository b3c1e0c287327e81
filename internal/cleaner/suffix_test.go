package cleaner

import (
	"testing"

	"github.com/ginjaninja78/sheet-cleaner/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuffixSetMatches(t *testing.T) {
	set := mustSuffixes(t, "90600", "24099")

	tests := []struct {
		text string
		want bool
	}{
		{"90600", true},
		{"1234590600", true},
		{"CC-24099", true},
		{"0600", false},
		{"", false},
		{"906001", false},
		{"90600 ", false},
		{"ÁÉ90600", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, set.Matches(tt.text), "text %q", tt.text)
	}
}

func TestNewSuffixSetRejectsWrongLength(t *testing.T) {
	_, err := NewSuffixSet("90600", "9060")

	var ise *InvalidSuffixError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "9060", ise.Suffix)
}

func TestParseSuffixList(t *testing.T) {
	set, err := ParseSuffixList(" 90600, 90610 ,,24099 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"24099", "90600", "90610"}, set.Sorted())

	_, err = ParseSuffixList("90600,123")
	assert.Error(t, err)
}

func TestDefaultSuffixesAreValid(t *testing.T) {
	set, err := NewSuffixSet(DefaultSuffixes...)
	require.NoError(t, err)
	assert.Len(t, set, 18)
}

func TestFilterBySuffix(t *testing.T) {
	g := gridOf(
		header,
		[]string{"1090600", "", "", "A"},
		[]string{"1000001", "", "", "B"},
		[]string{"2024099", "", "", "C"},
		[]string{"2024099", "", "", "D"},
		[]string{"0600", "", "", "E"},
		[]string{"", "", "", "F"},
	)

	n, err := FilterBySuffix(g, defaultMapping(), mustSuffixes(t, "90600", "24099", "00600"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"B", "E", "F"}, column(g, 4))
	assert.Equal(t, "Centro custo", g.Cell(1, 1).Text(), "header is never filtered")
}

func TestFilterBySuffixNumericCell(t *testing.T) {
	g := table.NewGrid([][]table.Value{
		{table.TextValue("Centro custo")},
		{table.NumberValue(1090600)},
		{table.NumberValue(1090601)},
	})

	n, err := FilterBySuffix(g, ColumnMapping{CostCenter: 1}, mustSuffixes(t, "90600"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "1090601", g.Cell(2, 1).Text())
}

func TestFilterBySuffixEmptySet(t *testing.T) {
	g := gridOf(header, []string{"90600", "", "", "A"})

	n, err := FilterBySuffix(g, defaultMapping(), SuffixSet{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, g.LastRow())
}
