package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/table"
)

// Default ranking sizes.
const (
	ProviderTopN = 20
	RegionTopN   = 25
)

// Group is one key of a grouped summary.
type Group struct {
	Key   string
	Value float64
}

// KeyFunc extracts a grouping key from a row.
type KeyFunc func(pipeline.WorkingRow) string

// GroupCount counts rows per key, descending by count with ties broken by
// key ascending, truncated to topN (0 keeps all).
func GroupCount(rows []pipeline.WorkingRow, key KeyFunc, topN int) []Group {
	acc := map[string]float64{}
	for _, w := range rows {
		acc[key(w)]++
	}
	return ranked(acc, topN)
}

// GroupSum sums a numeric field per key. Missing values are skipped, so
// keys with no valid value do not appear.
func GroupSum(rows []pipeline.WorkingRow, key KeyFunc, val func(pipeline.WorkingRow) table.OptFloat, topN int) []Group {
	acc := map[string]float64{}
	for _, w := range rows {
		if v := val(w); v.Valid {
			acc[key(w)] += v.V
		}
	}
	return ranked(acc, topN)
}

func ranked(acc map[string]float64, topN int) []Group {
	out := make([]Group, 0, len(acc))
	for k, v := range acc {
		out = append(out, Group{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value == out[j].Value {
			return out[i].Key < out[j].Key
		}
		return out[i].Value > out[j].Value
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// nonBlank drops rows whose key is empty after trimming.
func nonBlank(rows []pipeline.WorkingRow, key KeyFunc) []pipeline.WorkingRow {
	out := make([]pipeline.WorkingRow, 0, len(rows))
	for _, w := range rows {
		if strings.TrimSpace(key(w)) != "" {
			out = append(out, w)
		}
	}
	return out
}

// Ranking pairs a count ranking with an amount ranking over the same key.
type Ranking struct {
	ByCount  []Group
	ByAmount []Group
}

func byProvider(w pipeline.WorkingRow) string { return w.Provider }
func byRegion(w pipeline.WorkingRow) string   { return w.Region }
func amountOf(w pipeline.WorkingRow) table.OptFloat {
	return w.Amount
}

// ProviderRanking ranks providers by attendance count and by total amount.
// Rows without a provider are excluded.
func ProviderRanking(rows []pipeline.WorkingRow, topN int) Ranking {
	rows = nonBlank(rows, byProvider)
	return Ranking{
		ByCount:  GroupCount(rows, byProvider, topN),
		ByAmount: GroupSum(rows, byProvider, amountOf, topN),
	}
}

// RegionRanking ranks regions by attendance count. Rows without a region are excluded.
func RegionRanking(rows []pipeline.WorkingRow, topN int) []Group {
	return GroupCount(nonBlank(rows, byRegion), byRegion, topN)
}

// CategoryBreakdown counts rows per category label.
func CategoryBreakdown(rows []pipeline.WorkingRow) []Group {
	return GroupCount(rows, func(w pipeline.WorkingRow) string { return w.Category }, 0)
}

// VehicleBreakdown counts rows per vehicle type label.
func VehicleBreakdown(rows []pipeline.WorkingRow) []Group {
	return GroupCount(rows, func(w pipeline.WorkingRow) string { return w.VehicleType }, 0)
}

// Granularity is the bucket size of a time series.
type Granularity int

const (
	Day Granularity = iota
	Month
)

// Metric selects what a time series aggregates.
type Metric int

const (
	MetricCount Metric = iota
	MetricAmount
)

// Point is one bucket of a time series.
type Point struct {
	Bucket time.Time
	Value  float64
}

// Label renders the bucket as "2006-01-02" or "2006-01".
func (p Point) Label(g Granularity) string {
	if g == Month {
		return p.Bucket.Format("2006-01")
	}
	return p.Bucket.Format("2006-01-02")
}

// Series buckets rows by calendar day or month in ascending order. Rows
// without a date are excluded; for MetricAmount so are rows without an amount.
func Series(rows []pipeline.WorkingRow, g Granularity, m Metric) []Point {
	acc := map[time.Time]float64{}
	for _, w := range rows {
		if !w.Date.Valid {
			continue
		}
		b := w.Date.Day()
		if g == Month {
			b = w.Date.Month()
		}
		switch m {
		case MetricAmount:
			if w.Amount.Valid {
				acc[b] += w.Amount.V
			}
		default:
			acc[b]++
		}
	}
	out := make([]Point, 0, len(acc))
	for b, v := range acc {
		out = append(out, Point{Bucket: b, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket.Before(out[j].Bucket) })
	return out
}
