package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHeaders(t *testing.T) {
	g := gridOf([]string{"Id", "Equipamento", "Centro custo", "Válido até", "", "Válido desde"})

	m, err := ResolveHeaders(g, DefaultHeaderNames())
	require.NoError(t, err)
	assert.Equal(t, ColumnMapping{CostCenter: 3, ValidFrom: 6, ValidUntil: 4, Equipment: 2}, m)
}

func TestResolveHeadersRightmostWins(t *testing.T) {
	g := gridOf(append(header, "Equipamento"))

	m, err := ResolveHeaders(g, DefaultHeaderNames())
	require.NoError(t, err)
	assert.Equal(t, 5, m.Equipment)
}

func TestResolveHeadersMissing(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		missing string
	}{
		{"no equipment", []string{"Centro custo", "Válido desde", "Válido até"}, "Equipamento"},
		{"accent differs", []string{"Centro custo", "Valido desde", "Válido até", "Equipamento"}, "Válido desde"},
		{"case differs", []string{"centro custo", "Válido desde", "Válido até", "Equipamento"}, "Centro custo"},
		{"padded", []string{"Centro custo", "Válido desde", "Válido até ", "Equipamento"}, "Válido até"},
		{"empty row", nil, "Centro custo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveHeaders(gridOf(tt.row), DefaultHeaderNames())

			var mhe *MissingHeaderError
			require.ErrorAs(t, err, &mhe)
			assert.Equal(t, tt.missing, mhe.Header)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestResolveHeadersCustomNames(t *testing.T) {
	names := HeaderNames{CostCenter: "CC", ValidFrom: "From", ValidUntil: "Until", Equipment: "Equipment"}
	g := gridOf([]string{"Equipment", "Until", "From", "CC"})

	m, err := ResolveHeaders(g, names)
	require.NoError(t, err)
	assert.Equal(t, ColumnMapping{CostCenter: 4, ValidFrom: 3, ValidUntil: 2, Equipment: 1}, m)
}
