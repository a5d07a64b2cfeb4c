package export

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/iafilius/CCSExplorer/src/analysis"
)

const reportTitle = "Carbon capture information data visualization"

// WriteHTMLReport renders every result as an interactive chart on one page.
func WriteHTMLReport(w io.Writer, results []analysis.Result) error {
	page := components.NewPage()
	page.PageTitle = reportTitle
	for _, res := range results {
		switch res.View.Chart {
		case analysis.PieChart:
			page.AddCharts(pieFor(res))
		default:
			page.AddCharts(barFor(res))
		}
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("html report: %w", err)
	}
	return nil
}

// WriteHTMLReportFile is WriteHTMLReport into a new file at path.
func WriteHTMLReportFile(path string, results []analysis.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteHTMLReport(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "480px"})
}

func barFor(res analysis.Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: res.Title, Subtitle: res.View.Heading}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: res.View.XLabel, AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: res.View.YLabel}),
	)
	labels := make([]string, len(res.Entries))
	data := make([]opts.BarData, len(res.Entries))
	for i, e := range res.Entries {
		labels[i] = e.Key
		data[i] = opts.BarData{Value: e.Count}
	}
	bar.SetXAxis(labels).AddSeries("Projects", data)
	return bar
}

func pieFor(res analysis.Result) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: res.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	data := make([]opts.PieData, len(res.Entries))
	for i, e := range res.Entries {
		data[i] = opts.PieData{Name: e.Key, Value: e.Count}
	}
	pie.AddSeries("Projects", data)
	return pie
}
