package cleaner

import (
	"testing"
	"time"

	"github.com/ginjaninja78/sheet-cleaner/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d := date(2024, time.March, 1)

	tests := []struct {
		name string
		in   table.Value
		want *time.Time
	}{
		{"date cell", table.DateValue(d), &d},
		{"day month year", table.TextValue("01/03/2024"), &d},
		{"single digits", table.TextValue("1/3/2024"), &d},
		{"iso", table.TextValue("2024-03-01"), &d},
		{"padded", table.TextValue(" 01/03/2024 "), &d},
		{"short year", table.TextValue("01/03/24"), &d},
		{"short year single digits", table.TextValue("1/3/24"), &d},
		{"dashes", table.TextValue("1-3-2024"), &d},
		{"dashes short year", table.TextValue("01-03-24"), &d},
		{"dots", table.TextValue("01.03.2024"), &d},
		{"iso with minutes", table.TextValue("2024-03-01 10:30"), ptr(d.Add(10*time.Hour + 30*time.Minute))},
		{"day first with time", table.TextValue("1/3/2024 08:15"), ptr(d.Add(8*time.Hour + 15*time.Minute))},
		{"garbage", table.TextValue("soon"), nil},
		{"empty text", table.TextValue(""), nil},
		{"number", table.NumberValue(45352), nil},
		{"empty", table.EmptyValue(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v", *got)
		})
	}
}

func TestParseDateDayFirst(t *testing.T) {
	got := ParseDate(table.TextValue("02/01/2024"))
	require.NotNil(t, got)
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 2, got.Day())
}

func TestCompareRecords(t *testing.T) {
	early, late := date(2024, 1, 1), date(2024, 6, 1)

	assert.Negative(t, CompareRecords(Record{Equipment: ""}, Record{Equipment: "A"}), "empty equipment first")
	assert.Negative(t, CompareRecords(Record{Equipment: "B"}, Record{Equipment: "a"}), "byte-wise order")
	assert.Negative(t, CompareRecords(
		Record{Equipment: "A", ValidFrom: &late},
		Record{Equipment: "A", ValidFrom: &early}), "later valid-from first")
	assert.Negative(t, CompareRecords(
		Record{Equipment: "A", ValidFrom: &early},
		Record{Equipment: "A"}), "missing valid-from last")
	assert.Negative(t, CompareRecords(
		Record{Equipment: "A", ValidFrom: &early, ValidUntil: &late},
		Record{Equipment: "A", ValidFrom: &early, ValidUntil: &early}), "valid-until breaks ties")
	assert.Zero(t, CompareRecords(Record{Equipment: "A"}, Record{Equipment: "A"}))
}

func TestSortRows(t *testing.T) {
	g := gridOf(
		header,
		[]string{"1", "01/01/2024", "01/02/2024", "EQ2"},
		[]string{"2", "", "", "EQ1"},
		[]string{"3", "01/03/2024", "01/04/2024", "EQ1"},
		[]string{"4", "01/01/2024", "01/02/2024", "EQ1"},
		[]string{"5", "01/03/2024", "01/05/2024", "EQ1"},
		[]string{"6", "01/01/2024", "", ""},
	)

	n, err := SortRows(g, defaultMapping())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []string{"6", "5", "3", "4", "2", "1"}, column(g, 1))
	assert.Equal(t, header[0], g.Cell(1, 1).Text())
}

func TestSortRowsKeepsUntouchedColumns(t *testing.T) {
	g := gridOf(
		append(header, "Obs"),
		[]string{"1", "", "", "B", "second"},
		[]string{"2", "", "", "A", "first"},
	)

	_, err := SortRows(g, defaultMapping())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, column(g, 5))
	assert.Equal(t, 5, g.LastColumn())
}

func TestSortRowsPreservesCellKinds(t *testing.T) {
	d := date(2024, 2, 1)
	g := table.NewGrid([][]table.Value{
		{table.TextValue("Centro custo"), table.TextValue("Válido desde"), table.TextValue("Válido até"), table.TextValue("Equipamento")},
		{table.NumberValue(20), table.EmptyValue(), table.EmptyValue(), table.TextValue("B")},
		{table.NumberValue(10), table.DateValue(d), table.TextValue("01/03/2024"), table.TextValue("A")},
	})

	_, err := SortRows(g, defaultMapping())
	require.NoError(t, err)

	assert.True(t, g.Cell(2, 1).Equal(table.NumberValue(10)))
	assert.True(t, g.Cell(2, 2).Equal(table.DateValue(d)))
	assert.True(t, g.Cell(2, 3).Equal(table.TextValue("01/03/2024")))
	assert.True(t, g.Cell(3, 2).IsEmpty())
}

func TestSortRowsIsStableAndIdempotent(t *testing.T) {
	g := gridOf(
		header,
		[]string{"1", "01/01/2024", "01/02/2024", "EQ"},
		[]string{"2", "01/01/2024", "01/02/2024", "EQ"},
		[]string{"3", "01/01/2024", "01/02/2024", "EQ"},
		[]string{"4", "", "", "EQ"},
		[]string{"5", "", "", "EQ"},
	)

	_, err := SortRows(g, defaultMapping())
	require.NoError(t, err)
	first := g.Rows()
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, column(g, 1))

	_, err = SortRows(g, defaultMapping())
	require.NoError(t, err)
	assert.Equal(t, first, g.Rows())
}

func TestSortRowsHeaderOnly(t *testing.T) {
	g := gridOf(header)

	n, err := SortRows(g, defaultMapping())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, g.LastRow())
}
