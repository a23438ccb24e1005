// Package analysis computes KPIs, rankings and time series over working rows
// and renders them as a sectioned report.
package analysis

import (
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KPIs are the scalar indicators of a working set. Sums and means are
// missing when no row carries a valid value.
type KPIs struct {
	Count int

	AmountSum   table.OptFloat
	AmountMean  table.OptFloat
	AmountValid int

	DistanceSum   table.OptFloat
	DistanceMean  table.OptFloat
	DistanceValid int

	// ProviderFill is the percentage of rows with a provider.
	ProviderFill float64
}

// Summarize computes the KPIs of rows.
func Summarize(rows []pipeline.WorkingRow) KPIs {
	k := KPIs{Count: len(rows)}
	amounts := valid(rows, func(w pipeline.WorkingRow) table.OptFloat { return w.Amount })
	k.AmountSum, k.AmountMean = sumMean(amounts)
	k.AmountValid = len(amounts)

	dists := valid(rows, func(w pipeline.WorkingRow) table.OptFloat { return w.Distance })
	k.DistanceSum, k.DistanceMean = sumMean(dists)
	k.DistanceValid = len(dists)

	k.ProviderFill = FillRate(rows, func(w pipeline.WorkingRow) string { return w.Provider })
	return k
}

// AmountValidity is the share (0..1) of rows with a parseable amount.
func (k KPIs) AmountValidity() float64 {
	if k.Count == 0 {
		return 0
	}
	return float64(k.AmountValid) / float64(k.Count)
}

// FillRate is the percentage of rows whose trimmed value is non-empty; 0 for no rows.
func FillRate(rows []pipeline.WorkingRow, value func(pipeline.WorkingRow) string) float64 {
	if len(rows) == 0 {
		return 0
	}
	n := 0
	for _, w := range rows {
		if strings.TrimSpace(value(w)) != "" {
			n++
		}
	}
	return float64(n) / float64(len(rows)) * 100
}

// ColumnFill is FillRate over the raw text of a source column.
func ColumnFill(rows []pipeline.WorkingRow, col string) float64 {
	return FillRate(rows, func(w pipeline.WorkingRow) string { return table.Text(w.Source[col]) })
}

func valid(rows []pipeline.WorkingRow, get func(pipeline.WorkingRow) table.OptFloat) []float64 {
	out := make([]float64, 0, len(rows))
	for _, w := range rows {
		if v := get(w); v.Valid {
			out = append(out, v.V)
		}
	}
	return out
}

func sumMean(xs []float64) (sum, mean table.OptFloat) {
	if len(xs) == 0 {
		return table.None, table.None
	}
	return table.Some(floats.Sum(xs)), table.Some(stat.Mean(xs, nil))
}
