package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/tabula-cli/internal/locale"
	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/schema"
	"github.com/KaramelBytes/tabula-cli/internal/table"
)

// Options controls report construction.
type Options struct {
	ProviderTopN int
	RegionTopN   int
	// SeriesGranularity buckets the time series; Month by default.
	SeriesGranularity Granularity
}

// DefaultOptions returns the standard ranking sizes and monthly series.
func DefaultOptions() Options {
	return Options{ProviderTopN: ProviderTopN, RegionTopN: RegionTopN, SeriesGranularity: Month}
}

// Placeholder notes for sections whose inputs are not mapped.
const (
	NoteNoDate      = "Map the date column to enable the time series."
	NoteNoCostTrend = "Map date and amount to enable the cost series."
	NoteNoProvider  = "No provider filled in the working set."
	NoteNoCostRank  = "Map the amount column to rank providers by cost."
	NoteNoRegion    = "Map the region/city column to enable the region ranking."
)

// Mapping is one role binding as shown in the report.
type Mapping struct {
	Role   string
	Column string
}

// Report is the rendered analysis of one working set.
type Report struct {
	Name    string
	Session string
	Sheet   string
	Total   int
	From    time.Time
	To      time.Time

	Mappings   []Mapping
	KPIs       KPIs
	Providers  Ranking
	Regions    []Group
	Categories []Group
	Vehicles   []Group

	Granularity Granularity
	CountSeries []Point
	CostSeries  []Point

	Notes []string
}

// Build aggregates rows. total is the row count before filtering.
func Build(name string, total int, rows []pipeline.WorkingRow, b *schema.Binding, opt Options) *Report {
	if opt.ProviderTopN <= 0 {
		opt.ProviderTopN = ProviderTopN
	}
	if opt.RegionTopN <= 0 {
		opt.RegionTopN = RegionTopN
	}
	r := &Report{
		Name:        name,
		Total:       total,
		KPIs:        Summarize(rows),
		Categories:  CategoryBreakdown(rows),
		Vehicles:    VehicleBreakdown(rows),
		Granularity: opt.SeriesGranularity,
	}
	for _, role := range schema.Order {
		col, ok := b.Column(role)
		if !ok {
			col = ""
		}
		r.Mappings = append(r.Mappings, Mapping{Role: role.String(), Column: col})
	}
	if first, last, ok := pipeline.DateSpan(rows); ok {
		r.From, r.To = first, last
	}

	if b.Bound(schema.Date) && !r.From.IsZero() {
		r.CountSeries = Series(rows, opt.SeriesGranularity, MetricCount)
		if r.KPIs.AmountValid > 0 {
			r.CostSeries = Series(rows, opt.SeriesGranularity, MetricAmount)
		} else {
			r.Notes = append(r.Notes, NoteNoCostTrend)
		}
	} else {
		r.Notes = append(r.Notes, NoteNoDate, NoteNoCostTrend)
	}

	r.Providers = ProviderRanking(rows, opt.ProviderTopN)
	switch {
	case len(r.Providers.ByCount) == 0:
		r.Notes = append(r.Notes, NoteNoProvider)
	case len(r.Providers.ByAmount) == 0:
		r.Notes = append(r.Notes, NoteNoCostRank)
	}

	if b.Bound(schema.Region) {
		r.Regions = RegionRanking(rows, opt.RegionTopN)
	}
	if len(r.Regions) == 0 {
		r.Notes = append(r.Notes, NoteNoRegion)
	}
	return r
}

// Markdown renders the report in bracketed sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Sheet != "" {
		b.WriteString(fmt.Sprintf("Sheet: %s\n", r.Sheet))
	}
	if r.Session != "" {
		b.WriteString(fmt.Sprintf("Session: %s\n", r.Session))
	}
	b.WriteString(fmt.Sprintf("Rows: %s (working set %s)\n", locale.FormatCount(r.Total), locale.FormatCount(r.KPIs.Count)))
	if !r.From.IsZero() {
		b.WriteString(fmt.Sprintf("Period: %s → %s\n", r.From.Format("02/01/2006"), r.To.Format("02/01/2006")))
	}

	b.WriteString("\n[COLUMN MAPPING]\n")
	for _, m := range r.Mappings {
		col := m.Column
		if col == "" {
			col = "(not mapped)"
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", m.Role, col))
	}

	k := r.KPIs
	b.WriteString("\n[KPIS]\n")
	b.WriteString(fmt.Sprintf("- Attendances: %s\n", locale.FormatCount(k.Count)))
	b.WriteString(fmt.Sprintf("- Total amount (R$): %s\n", locale.FormatCurrency(k.AmountSum)))
	b.WriteString(fmt.Sprintf("- Average ticket (R$): %s\n", locale.FormatCurrency(k.AmountMean)))
	b.WriteString(fmt.Sprintf("- Valid amounts: %s of %s\n", locale.FormatCount(k.AmountValid), locale.FormatCount(k.Count)))
	b.WriteString(fmt.Sprintf("- Total km: %s\n", locale.FormatDistance(k.DistanceSum)))
	b.WriteString(fmt.Sprintf("- Average km: %s\n", locale.FormatDistance(k.DistanceMean)))
	b.WriteString(fmt.Sprintf("- Provider fill rate: %s\n", locale.FormatPercent(k.ProviderFill)))

	if len(r.CountSeries) > 0 {
		b.WriteString("\n[TIME SERIES]\n")
		b.WriteString("| Period | Attendances | Amount (R$) |\n| --- | --- | --- |\n")
		cost := map[time.Time]float64{}
		for _, p := range r.CostSeries {
			cost[p.Bucket] = p.Value
		}
		for _, p := range r.CountSeries {
			amount := locale.Placeholder
			if v, ok := cost[p.Bucket]; ok {
				amount = locale.FormatCurrency(table.Some(v))
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", p.Label(r.Granularity), locale.FormatCount(int(p.Value)), amount))
		}
	}

	if len(r.Providers.ByCount) > 0 {
		b.WriteString("\n[PROVIDER RANKING]\n")
		b.WriteString("By attendances:\n")
		writeGroups(&b, r.Providers.ByCount, false)
		if len(r.Providers.ByAmount) > 0 {
			b.WriteString("By amount (R$):\n")
			writeGroups(&b, r.Providers.ByAmount, true)
		}
	}
	if len(r.Regions) > 0 {
		b.WriteString("\n[REGIONS]\n")
		writeGroups(&b, r.Regions, false)
	}
	if len(r.Categories) > 0 {
		b.WriteString("\n[CATEGORIES]\n")
		writeGroups(&b, r.Categories, false)
	}
	if len(r.Vehicles) > 0 {
		b.WriteString("\n[VEHICLE TYPES]\n")
		writeGroups(&b, r.Vehicles, false)
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeGroups(b *strings.Builder, gs []Group, money bool) {
	for _, g := range gs {
		v := locale.FormatCount(int(g.Value))
		if money {
			v = locale.FormatCurrency(table.Some(g.Value))
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", safeKey(g.Key), v))
	}
}

func safeKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(blank)"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
