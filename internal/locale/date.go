package locale

import (
	"strings"
	"time"

	"github.com/KaramelBytes/tabula-cli/internal/table"
	"github.com/xuri/excelize/v2"
)

// Day-first layouts come before ISO ones so "03/04/2024" is 3 April.
var dateLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006",
	"2.1.2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// Excel serial day numbers accepted for numeric cells (1900-01-01 .. 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseDate parses a day-first date. Numeric values are read as Excel serial dates.
func ParseDate(v table.Value) table.OptDate {
	switch x := v.(type) {
	case time.Time:
		return table.SomeDate(x)
	case float64:
		if x < minExcelSerial || x > maxExcelSerial {
			return table.OptDate{}
		}
		t, err := excelize.ExcelDateToTime(x, false)
		if err != nil {
			return table.OptDate{}
		}
		return table.SomeDate(t)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return table.OptDate{}
		}
		for _, l := range dateLayouts {
			if t, err := time.Parse(l, s); err == nil {
				return table.SomeDate(t)
			}
		}
	}
	return table.OptDate{}
}

// FormatDate renders a date as dd/mm/yyyy, or the placeholder.
func FormatDate(d table.OptDate) string {
	if !d.Valid {
		return Placeholder
	}
	return d.T.Format("02/01/2006")
}
