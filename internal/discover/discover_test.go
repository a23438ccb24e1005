package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestHeaderRow_MarkersAfterTitleRows(t *testing.T) {
	grid := [][]string{
		{"", "", ""},
		{"RELATÓRIO DE ATENDIMENTOS", "", ""},
		{"", "", ""},
		{" cliente ", "Protocolo", "Valor"},
		{"ACME", "123", "R$ 10,00"},
	}
	assert.Equal(t, 3, HeaderRow(grid, DefaultMarkers()))
}

func TestHeaderRow_FallbackToWidestRow(t *testing.T) {
	grid := [][]string{
		{"Título", "", ""},
		{"a", "b", ""},
		{"x", "y", "z"},
		{"1", "2", "3"},
	}
	assert.Equal(t, 2, HeaderRow(grid, DefaultMarkers()))
}

func TestHeaderRow_AllEmpty(t *testing.T) {
	grid := [][]string{{"", ""}, {" ", ""}}
	assert.Equal(t, 0, HeaderRow(grid, DefaultMarkers()))
	assert.Equal(t, 0, HeaderRow(nil, DefaultMarkers()))
}

func TestHeaderRow_RespectsScanLimit(t *testing.T) {
	grid := [][]string{{"a"}, {"b"}, {"CLIENTE", "PROTOCOLO"}}
	m := DefaultMarkers()
	m.ScanRows = 2
	assert.Equal(t, 0, HeaderRow(grid, m))
}

func TestApplyHeader_DropsUnnamedAndEmptyRows(t *testing.T) {
	grid := [][]string{
		{"title"},
		{" CLIENTE ", "", "PROTOCOLO", "CLIENTE"},
		{"ACME", "junk", "1", "dup"},
		{"", "", "", ""},
		{"Beta", "", "2", ""},
	}
	tbl := ApplyHeader(grid, 1, nil)
	require.Equal(t, []string{"CLIENTE", "PROTOCOLO", "CLIENTE.1"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "ACME", tbl.Rows[0]["CLIENTE"])
	assert.Equal(t, "dup", tbl.Rows[0]["CLIENTE.1"])
	assert.Nil(t, tbl.Rows[1]["CLIENTE.1"])
}

func TestRecords_PicksOnlyObjectList(t *testing.T) {
	tbl, key, err := Records([]byte(`{"items":[{"a":1},{"a":2}],"meta":{"x":1}}`))
	require.NoError(t, err)
	assert.Equal(t, "items", key)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"a"}, tbl.Columns)
	assert.Equal(t, 2.0, tbl.Rows[1]["a"])
}

func TestRecords_TieGoesToFirstKey(t *testing.T) {
	data := `{"second":[{"b":1}],"first":[{"a":1}],"tags":["x","y","z"]}`
	_, key, err := Records([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "second", key)
}

func TestRecords_LongestListWins(t *testing.T) {
	data := `{"a":[{"x":1}],"b":[{"x":1},{"x":2}],"c":[]}`
	_, key, err := Records([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "b", key)
}

func TestRecords_WholeObjectFallback(t *testing.T) {
	tbl, key, err := Records([]byte(`{"id":"7","owner":{"name":"Ana","age":30},"tags":["a","b"],"ok":true,"n":null}`))
	require.NoError(t, err)
	assert.Equal(t, ".", key)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{"id", "owner.name", "owner.age", "tags", "ok", "n"}, tbl.Columns)
	r := tbl.Rows[0]
	assert.Equal(t, "Ana", r["owner.name"])
	assert.Equal(t, 30.0, r["owner.age"])
	assert.Equal(t, `["a","b"]`, r["tags"])
	assert.Equal(t, true, r["ok"])
	assert.Nil(t, r["n"])
}

func TestRecords_EmptyKeyHoldsList(t *testing.T) {
	tbl, key, err := Records([]byte(`{"meta":{"v":1},"":[{"a":1},{"a":2}]}`))
	require.NoError(t, err)
	assert.Equal(t, "", key)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"a"}, tbl.Columns)

	_, ok := RecordListKey(gjson.Parse(`{"meta":{"v":1}}`))
	assert.False(t, ok)
}

func TestRecords_TopLevelArrayFillsMissingColumns(t *testing.T) {
	tbl, key, err := Records([]byte(`[{"a":1},{"b":"x"}]`))
	require.NoError(t, err)
	assert.Equal(t, "", key)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	assert.Nil(t, tbl.Rows[0]["b"])
	assert.Nil(t, tbl.Rows[1]["a"])
}

func TestRecords_Errors(t *testing.T) {
	_, _, err := Records([]byte(`{"items": [`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, _, err = Records([]byte(`42`))
	assert.ErrorIs(t, err, ErrNoRecords)
}
