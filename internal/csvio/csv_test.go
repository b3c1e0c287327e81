package csvio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ginjaninja78/sheet-cleaner/internal/config"
	"github.com/ginjaninja78/sheet-cleaner/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRaw(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestReadUTF8WithBOM(t *testing.T) {
	path := writeRaw(t, []byte("\xEF\xBB\xBFCentro custo;Equipamento\nCC-1;EQ 1\nCC-2;\n"))

	grid, err := Read(path, config.CSVSettings{Delimiter: "semicolon", Encoding: "UTF-8"})
	require.NoError(t, err)

	assert.Equal(t, 3, grid.LastRow())
	assert.Equal(t, "Centro custo", grid.Cell(1, 1).Text(), "BOM is stripped")
	assert.Equal(t, table.TextValue("EQ 1"), grid.Cell(2, 2))
	assert.True(t, grid.Cell(3, 2).IsEmpty())
}

func TestReadWindows1252(t *testing.T) {
	// "Válido até" in Windows-1252.
	path := writeRaw(t, []byte("V\xe1lido at\xe9\n01/02/2024\n"))

	grid, err := Read(path, config.CSVSettings{Delimiter: ",", Encoding: "Windows-1252"})
	require.NoError(t, err)
	assert.Equal(t, "Válido até", grid.Cell(1, 1).Text())
	assert.Equal(t, "01/02/2024", grid.Cell(2, 1).Text())
}

func TestReadEncodingAliases(t *testing.T) {
	path := writeRaw(t, []byte("V\xe1lido at\xe9\n"))

	for _, alias := range []string{"cp1252", "latin1"} {
		t.Run(alias, func(t *testing.T) {
			grid, err := Read(path, config.CSVSettings{Delimiter: ",", Encoding: alias})
			require.NoError(t, err)
			assert.Equal(t, "Válido até", grid.Cell(1, 1).Text())
		})
	}

	_, err := Read(path, config.CSVSettings{Delimiter: ",", Encoding: "EBCDIC"})
	assert.ErrorContains(t, err, "unsupported csv encoding")
}

func TestReadRaggedRows(t *testing.T) {
	path := writeRaw(t, []byte("a\tb\tc\n1\n"))

	grid, err := Read(path, config.CSVSettings{Delimiter: "tab", Encoding: "UTF-8"})
	require.NoError(t, err)
	assert.Equal(t, 3, grid.LastColumn())
	assert.Equal(t, "1", grid.Cell(2, 1).Text())
	assert.True(t, grid.Cell(2, 3).IsEmpty())
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"), config.CSVSettings{})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestWriteRoundTrip(t *testing.T) {
	grid := table.NewGrid([][]table.Value{
		{table.TextValue("Centro custo"), table.TextValue("Válido desde"), table.TextValue("Qtd")},
		{table.TextValue("CC;1"), table.DateValue(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)), table.NumberValue(2.5)},
		{table.TextValue("CC-2")},
	})
	settings := config.CSVSettings{Delimiter: ";", Encoding: "ISO-8859-1"}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(path, grid, settings))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Centro custo;V\xe1lido desde;Qtd\n\"CC;1\";15/01/2024;2.5\nCC-2;;\n", string(raw))

	back, err := Read(path, settings)
	require.NoError(t, err)
	assert.Equal(t, "Válido desde", back.Cell(1, 2).Text())
	assert.Equal(t, "CC;1", back.Cell(2, 1).Text())
}

func TestWriteReplacesUnsupportedRunes(t *testing.T) {
	grid := table.NewGrid([][]table.Value{{table.TextValue("€ ok ✓")}})

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Write(path, grid, config.CSVSettings{Encoding: "ISO-8859-1"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x1a ok \x1a\n", string(raw))
}

func TestDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
		err  bool
	}{
		{"", ',', false},
		{",", ',', false},
		{"TAB", '\t', false},
		{`\t`, '\t', false},
		{"pipe", '|', false},
		{"Semicolon", ';', false},
		{"¦", '¦', false},
		{"ab", 0, true},
		{`"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Delimiter(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
