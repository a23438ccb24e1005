package export

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/tabula-cli/internal/analysis"
	"github.com/KaramelBytes/tabula-cli/internal/locale"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// DashboardOptions tunes the rendered page.
type DashboardOptions struct {
	// AssetsHost serves the echarts bundle; empty keeps the library default.
	AssetsHost string
}

// Dashboard renders the report's series and rankings as an HTML page.
// Sections without data are left out.
func Dashboard(w io.Writer, rep *analysis.Report, opt DashboardOptions) error {
	page := components.NewPage()
	page.PageTitle = "tabula • " + rep.Name
	if opt.AssetsHost != "" {
		page.SetAssetsHost(opt.AssetsHost)
	}
	subtitle := fmt.Sprintf("%s attendances", locale.FormatCount(rep.KPIs.Count))
	if !rep.From.IsZero() {
		subtitle += fmt.Sprintf(" • %s → %s", rep.From.Format("02/01/2006"), rep.To.Format("02/01/2006"))
	}

	if len(rep.CountSeries) > 0 {
		page.AddCharts(lineChart("Attendances over time", subtitle, "attendances", rep.CountSeries, rep.Granularity))
	}
	if len(rep.CostSeries) > 0 {
		page.AddCharts(lineChart("Amount over time (R$)", subtitle, "amount", rep.CostSeries, rep.Granularity))
	}
	if len(rep.Providers.ByCount) > 0 {
		page.AddCharts(barChart("Providers by attendances", "attendances", rep.Providers.ByCount))
	}
	if len(rep.Providers.ByAmount) > 0 {
		page.AddCharts(barChart("Providers by amount (R$)", "amount", rep.Providers.ByAmount))
	}
	if len(rep.Regions) > 0 {
		page.AddCharts(barChart("Regions", "attendances", rep.Regions))
	}
	if len(rep.Categories) > 0 {
		page.AddCharts(barChart("Categories", "attendances", rep.Categories))
	}
	if len(rep.Vehicles) > 0 {
		page.AddCharts(barChart("Vehicle types", "attendances", rep.Vehicles))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func lineChart(title, subtitle, series string, pts []analysis.Point, g analysis.Granularity) *charts.Line {
	x := make([]string, 0, len(pts))
	y := make([]opts.LineData, 0, len(pts))
	for _, p := range pts {
		x = append(x, p.Label(g))
		y = append(y, opts.LineData{Value: p.Value})
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(x).AddSeries(series, y)
	return line
}

// barChart draws a horizontal bar chart with the largest group on top.
func barChart(title, series string, groups []analysis.Group) *charts.Bar {
	x := make([]string, 0, len(groups))
	y := make([]opts.BarData, 0, len(groups))
	for i := len(groups) - 1; i >= 0; i-- {
		key := groups[i].Key
		if key == "" {
			key = "(blank)"
		}
		x = append(x, key)
		y = append(y, opts.BarData{Value: groups[i].Value})
	}
	height := 120 + 28*len(groups)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: fmt.Sprintf("%dpx", height)}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries(series, y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
		)
	bar.XYReversal()
	return bar
}
