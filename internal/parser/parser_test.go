package parser_test

import (
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tabula-cli/internal/parser"
	"github.com/KaramelBytes/tabula-cli/internal/trello"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV_SemicolonWithTitleRows(t *testing.T) {
	content := "\xEF\xBB\xBFRelatório mensal;;\n" +
		";;\n" +
		"CLIENTE;PROTOCOLO;VALOR\n" +
		"ACME;001;R$ 1.000,00\n" +
		";;\n" +
		"Beta;002;\"R$ 2,50\"\n"
	res, err := parser.Load("atendimentos.csv", []byte(content), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, parser.KindTable, res.Kind)
	assert.Equal(t, "atendimentos.csv", res.Name)
	assert.Equal(t, []string{"CLIENTE", "PROTOCOLO", "VALOR"}, res.Table.Columns)
	require.Equal(t, 2, res.Table.Len())
	assert.Equal(t, "001", res.Table.Rows[0]["PROTOCOLO"])
	assert.Equal(t, "R$ 2,50", res.Table.Rows[1]["VALOR"])
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, '\t', parser.SniffDelimiter([]byte("\n a\tb\tc\n")))
	assert.Equal(t, ';', parser.SniffDelimiter([]byte("a;b,c;d")))
	assert.Equal(t, ',', parser.SniffDelimiter([]byte("single")))
}

func workbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.SetSheetName("Sheet1", "Resumo"))
	_, err := f.NewSheet("Atendimentos")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Resumo", "A1", &[]any{"nada"}))
	require.NoError(t, f.SetSheetRow("Atendimentos", "A1", &[]any{"Relatório de atendimentos"}))
	require.NoError(t, f.MergeCell("Atendimentos", "A1", "D1"))
	require.NoError(t, f.SetSheetRow("Atendimentos", "A3", &[]any{"CLIENTE", "PROTOCOLO", "DATA", "VALOR"}))
	require.NoError(t, f.SetSheetRow("Atendimentos", "A4", &[]any{"ACME", "00123", 45356, 1500.5}))
	require.NoError(t, f.SetSheetRow("Atendimentos", "A5", &[]any{"Beta", "00124", "06/03/2024", "R$ 10,00"}))
	return f
}

func TestLoadXLSX_SheetByName(t *testing.T) {
	buf, err := workbook(t).WriteToBuffer()
	require.NoError(t, err)

	res, err := parser.Load("base.xlsx", buf.Bytes(), parser.Options{SheetName: "atendimentos"})
	require.NoError(t, err)
	assert.Equal(t, "Atendimentos", res.Sheet)
	assert.Equal(t, []string{"CLIENTE", "PROTOCOLO", "DATA", "VALOR"}, res.Table.Columns)
	require.Equal(t, 2, res.Table.Len())

	r := res.Table.Rows[0]
	assert.Equal(t, "00123", r["PROTOCOLO"])
	assert.Equal(t, 45356.0, r["DATA"])
	assert.Equal(t, 1500.5, r["VALOR"])
	assert.Equal(t, "R$ 10,00", res.Table.Rows[1]["VALOR"])
}

func TestLoadXLSX_SheetSelectionErrors(t *testing.T) {
	buf, err := workbook(t).WriteToBuffer()
	require.NoError(t, err)

	res, err := parser.Load("base.xlsx", buf.Bytes(), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Resumo", res.Sheet)

	_, err = parser.Load("base.xlsx", buf.Bytes(), parser.Options{SheetName: "Nope"})
	assert.ErrorContains(t, err, "not found")
	_, err = parser.Load("base.xlsx", buf.Bytes(), parser.Options{SheetIndex: 9})
	assert.ErrorContains(t, err, "out of range")

	_, err = parser.Load("base.xlsx", []byte("not a zip"), parser.Options{})
	assert.ErrorIs(t, err, parser.ErrMalformed)
}

func TestLoadXLSX_MergedTitleWithoutMarkers(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Relatório de atendimentos"}))
	require.NoError(t, f.MergeCell("Sheet1", "A1", "D1"))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"DATA", "PRESTADOR", "VALOR", "KM"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{45356, "Guincho Silva", 1500.5, 12}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{45357, nil, 300, 5}))
	require.NoError(t, f.MergeCell("Sheet1", "B3", "B4"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := parser.Load("sem-marcadores.xlsx", buf.Bytes(), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"DATA", "PRESTADOR", "VALOR", "KM"}, res.Table.Columns)
	require.Equal(t, 2, res.Table.Len())
	assert.Equal(t, 45356.0, res.Table.Rows[0]["DATA"])
	assert.Equal(t, 1500.5, res.Table.Rows[0]["VALOR"])
	// merged data cells below the header are filled
	assert.Equal(t, "Guincho Silva", res.Table.Rows[1]["PRESTADOR"])
}

func TestLoadXLSX_TextCellsKeepDigits(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"CLIENTE", "PROTOCOLO", "CODIGO", "VALOR"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"ACME", "123456789012345678", "12E3", 99.5}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := parser.Load("codigos.xlsx", buf.Bytes(), parser.Options{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Table.Len())
	r := res.Table.Rows[0]
	assert.Equal(t, "123456789012345678", r["PROTOCOLO"])
	assert.Equal(t, "12E3", r["CODIGO"])
	assert.Equal(t, 99.5, r["VALOR"])
}

func TestSheets(t *testing.T) {
	p := filepath.Join(t.TempDir(), "base.xlsx")
	require.NoError(t, workbook(t).SaveAs(p))
	names, err := parser.Sheets(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Resumo", "Atendimentos"}, names)
}

func TestLoadJSON_Records(t *testing.T) {
	res, err := parser.Load("export.json", []byte(`{"items":[{"a":1},{"a":2}],"meta":{"x":1}}`), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, parser.KindRecords, res.Kind)
	assert.Equal(t, "items", res.RecordKey)
	assert.Equal(t, 2, res.Table.Len())

	_, err = parser.Load("export.json", []byte(`{"items": [`), parser.Options{})
	assert.ErrorIs(t, err, parser.ErrMalformed)
	_, err = parser.Load("export.json", []byte(`"text"`), parser.Options{})
	assert.ErrorIs(t, err, parser.ErrNoRecords)
}

func TestLoadJSON_Trello(t *testing.T) {
	board := `{"lists":[{"id":"L1","name":"Aberto"}],"cards":[{"id":"65e6f2000000000000000001","name":"Pneu furado","idList":"L1"}],"actions":[]}`
	res, err := parser.Load("board.json", []byte(board), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, parser.KindTrello, res.Kind)
	assert.Equal(t, trello.ColCreated, res.DateColumn)
	assert.Equal(t, trello.ColTitle, res.Sources.Title)
	assert.Equal(t, "Aberto", res.Table.Rows[0][trello.ColList])

	_, err = parser.Load("board.json", []byte(`{"lists":[]}`), parser.Options{Kind: parser.KindTrello})
	assert.ErrorIs(t, err, parser.ErrNoCards)
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := parser.Load("notes.docx", []byte("x"), parser.Options{})
	assert.ErrorIs(t, err, parser.ErrUnsupported)

	_, err = parser.Load("a.csv", []byte("a,b"), parser.Options{Kind: parser.KindTrello})
	assert.ErrorIs(t, err, parser.ErrUnsupported)
}

func TestParseKind(t *testing.T) {
	k, err := parser.ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, parser.KindAuto, k)
	_, err = parser.ParseKind("pdf")
	assert.Error(t, err)
}
