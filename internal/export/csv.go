// Package export writes the working set as a CSV download and renders the
// HTML chart dashboard.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/table"
)

// Derived column names, written first in this order.
const (
	ColDate        = "_data"
	ColVehicleType = "_tipo"
	ColCategory    = "_categoria"
	ColProvider    = "_prestador"
	ColAmount      = "_valor"
	ColDistance    = "_km"
	ColRegion      = "_regiao"
	ColPlate       = "_placa"
	ColProtocol    = "_protocolo"
)

// Preferred is the derived column order of the download.
var Preferred = []string{ColDate, ColVehicleType, ColCategory, ColProvider, ColAmount, ColDistance, ColRegion, ColPlate, ColProtocol}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Header returns the download header: derived columns, then the original
// columns in order. An original column sharing a derived name is dropped.
func Header(columns []string) []string {
	derived := make(map[string]bool, len(Preferred))
	out := make([]string, 0, len(Preferred)+len(columns))
	for _, c := range Preferred {
		derived[c] = true
		out = append(out, c)
	}
	for _, c := range columns {
		if !derived[c] {
			out = append(out, c)
		}
	}
	return out
}

// WriteCSV writes rows as UTF-8 CSV with a byte-order mark so spreadsheet
// tools detect the encoding. Missing values are empty cells.
func WriteCSV(w io.Writer, rows []pipeline.WorkingRow, columns []string) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	header := Header(columns)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(header))
	for _, r := range rows {
		rec = rec[:0]
		rec = append(rec,
			dateCell(r.Date),
			r.VehicleType,
			r.Category,
			r.Provider,
			floatCell(r.Amount),
			floatCell(r.Distance),
			r.Region,
			r.Plate,
			r.Protocol,
		)
		for _, c := range header[len(Preferred):] {
			rec = append(rec, table.Text(r.Source[c]))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", r.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func dateCell(d table.OptDate) string {
	if !d.Valid {
		return ""
	}
	if h, m, s := d.T.Clock(); h == 0 && m == 0 && s == 0 {
		return d.T.Format("2006-01-02")
	}
	return d.T.Format("2006-01-02 15:04:05")
}

func floatCell(v table.OptFloat) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.V, 'f', -1, 64)
}
