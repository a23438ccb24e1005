package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/tabula-cli/internal/analysis"
	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/schema"
	"github.com/KaramelBytes/tabula-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows() []pipeline.WorkingRow {
	return []pipeline.WorkingRow{
		{
			Source:      table.Row{"DATA": "05/01/2024", "VALOR": "R$ 1.000,50", "OBS": "linha, com vírgula", "_km": "old"},
			Date:        table.SomeDate(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
			Amount:      table.Some(1000.5),
			Provider:    "Alfa",
			VehicleType: "Truck",
			Category:    "Pneu",
		},
		{
			Index:       1,
			Source:      table.Row{"DATA": nil, "VALOR": "-", "OBS": nil},
			Distance:    table.Some(12.5),
			VehicleType: "Unidentified",
			Category:    "Other",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows(), []string{"DATA", "VALOR", "OBS", "_km"}))
	require.True(t, bytes.HasPrefix(buf.Bytes(), bom))

	recs, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(bom):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, append(append([]string{}, Preferred...), "DATA", "VALOR", "OBS"), recs[0])
	assert.Equal(t, []string{"2024-01-05", "Truck", "Pneu", "Alfa", "1000.5", "", "", "", "", "05/01/2024", "R$ 1.000,50", "linha, com vírgula"}, recs[1])
	assert.Equal(t, []string{"", "Unidentified", "Other", "", "", "12.5", "", "", "", "", "-", ""}, recs[2])
}

func TestDashboard(t *testing.T) {
	b := schema.NewBinding()
	require.NoError(t, b.Bind(schema.Date, "DATA"))
	require.NoError(t, b.Bind(schema.Amount, "VALOR"))
	require.NoError(t, b.Bind(schema.Provider, "PRESTADOR"))
	rep := analysis.Build("base.csv", 2, rows(), b, analysis.DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, Dashboard(&buf, rep, DashboardOptions{}))
	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"), "expected an html document")
	assert.Contains(t, html, "Attendances over time")
	assert.Contains(t, html, "Providers by attendances")
	assert.Contains(t, html, "Categories")
	assert.NotContains(t, html, "Regions")
}

func TestDashboard_AssetsHostPerCall(t *testing.T) {
	rep := analysis.Build("base.csv", 2, rows(), schema.NewBinding(), analysis.DefaultOptions())

	var local, def bytes.Buffer
	require.NoError(t, Dashboard(&local, rep, DashboardOptions{AssetsHost: "http://localhost:9000/assets/"}))
	require.NoError(t, Dashboard(&def, rep, DashboardOptions{}))
	assert.Contains(t, local.String(), "http://localhost:9000/assets/")
	assert.NotContains(t, def.String(), "localhost:9000")
}
