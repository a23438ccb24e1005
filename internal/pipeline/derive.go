// Package pipeline derives working rows from a raw table and filters them.
package pipeline

import (
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/classify"
	"github.com/KaramelBytes/tabula-cli/internal/locale"
	"github.com/KaramelBytes/tabula-cli/internal/schema"
	"github.com/KaramelBytes/tabula-cli/internal/table"
)

// WorkingRow is a source row plus its derived, analysis-ready fields.
type WorkingRow struct {
	Index  int
	Source table.Row

	Date     table.OptDate
	Amount   table.OptFloat
	Distance table.OptFloat

	Provider string
	Region   string
	Plate    string
	Protocol string

	Title       string
	Description string
	Comments    string
	Text        string

	VehicleType string
	Category    string
}

// Sources names the free-text columns fed to the classifier. Any may be empty.
type Sources struct {
	Title       string
	Description string
	Comments    string
}

// Empty reports whether no text column is configured.
func (s Sources) Empty() bool {
	return s.Title == "" && s.Description == "" && s.Comments == ""
}

// Derive computes a WorkingRow per table row. It never fails: cells that do
// not parse become missing values.
func Derive(t *table.Table, b *schema.Binding, src Sources, c *classify.Classifier) []WorkingRow {
	if t == nil {
		return nil
	}
	if c == nil {
		c = classify.New(classify.DefaultRules())
	}
	col := func(r schema.Role) string {
		name, _ := b.Column(r)
		return name
	}
	dateCol, amountCol, distCol := col(schema.Date), col(schema.Amount), col(schema.Distance)
	provCol, regCol, plateCol := col(schema.Provider), col(schema.Region), col(schema.Plate)
	typeCol, protoCol := col(schema.VehicleType), col(schema.Protocol)

	out := make([]WorkingRow, 0, len(t.Rows))
	for i, r := range t.Rows {
		w := WorkingRow{Index: i, Source: r}
		if dateCol != "" {
			w.Date = locale.ParseDate(r[dateCol])
		}
		if amountCol != "" {
			w.Amount = locale.ParseCurrency(r[amountCol])
		}
		if distCol != "" {
			w.Distance = locale.ParseDistance(r[distCol])
		}
		w.Provider = text(r, provCol)
		w.Region = text(r, regCol)
		w.Plate = text(r, plateCol)
		w.Protocol = text(r, protoCol)

		w.Title = classify.Clean(text(r, src.Title))
		w.Description = classify.Clean(text(r, src.Description))
		w.Comments = classify.Clean(text(r, src.Comments))
		w.Text = classify.Concat(w.Title, w.Description, w.Comments)

		if v := text(r, typeCol); v != "" {
			w.VehicleType = v
		} else {
			w.VehicleType = c.Vehicle(w.Text)
		}
		w.Category = c.Category(w.Text)
		out = append(out, w)
	}
	return out
}

func text(r table.Row, col string) string {
	if col == "" {
		return ""
	}
	return strings.TrimSpace(table.Text(r[col]))
}
