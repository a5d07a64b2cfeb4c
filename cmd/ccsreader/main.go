// ccsreader prints the ranked CCS views and search hits on the terminal, and can
// write the chart PNGs, an Excel workbook and an HTML report without a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/config"
	"github.com/iafilius/CCSExplorer/src/dataset"
	"github.com/iafilius/CCSExplorer/src/export"
	"github.com/iafilius/CCSExplorer/src/logging"
	"github.com/iafilius/CCSExplorer/src/render"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

func main() {
	var (
		file, configPath, viewID, search, field string
		renderDir, xlsxPath, htmlPath, logLevel string
		top, from, to                           int
	)
	flag.StringVar(&file, "file", "", "Path to the CCS projects CSV (overrides config)")
	flag.StringVar(&configPath, "config", "", "Path to YAML config (default $CCS_CONFIG)")
	flag.StringVar(&viewID, "view", "", "Only this view (company|type|location|year|tech|status|comb_sep)")
	flag.IntVar(&top, "top", 0, "Top-N for ranked views (0 = view default)")
	flag.IntVar(&from, "from", 0, "First year of the year view (0 = default)")
	flag.IntVar(&to, "to", 0, "Last year of the year view (0 = default)")
	flag.StringVar(&search, "search", "", "Case-insensitive substring to search for")
	flag.StringVar(&field, "field", dataset.ColCompany, "Column searched by -search")
	flag.StringVar(&renderDir, "render", "", "Write chart PNGs into this directory")
	flag.StringVar(&xlsxPath, "xlsx", "", "Write an Excel workbook with every view")
	flag.StringVar(&htmlPath, "html", "", "Write an interactive HTML report")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if file != "" {
		cfg.DataFile = file
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logging.SetLogLevel(cfg.LogLevel)

	tbl, err := dataset.Load(cfg.DataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	views, err := selectViews(cfg.ResolvedViews(), viewID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v (known: %v)\n", err, analysis.IDs(cfg.ResolvedViews()))
		os.Exit(2)
	}
	params := overrideParams(views, top, from, to)
	results, err := analysis.BuildAll(tbl, views, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Projects: %d (%s)\n\n", tbl.Len(), cfg.DataFile)
	for _, res := range results {
		fmt.Println(formatResult(res))
		fmt.Println()
	}

	var sheet *export.SearchSheet
	if search != "" {
		hits, err := analysis.Search(tbl, field, search)
		switch {
		case errors.Is(err, analysis.ErrNoResults):
			fmt.Println(warnStyle.Render("No projects found"))
		case err != nil:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		default:
			fmt.Println(formatHits(tbl.Columns(), hits))
			sheet = &export.SearchSheet{Field: field, Query: search, Columns: tbl.Columns(), Records: hits}
		}
	}

	if renderDir != "" {
		opts := render.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height, MaxLabel: 28}
		paths, err := render.RenderAll(tbl, views, params, renderDir, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		for _, p := range paths {
			fmt.Printf("wrote %s\n", p)
		}
	}
	if xlsxPath != "" {
		if err := export.WriteWorkbook(xlsxPath, results, sheet); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", xlsxPath)
	}
	if htmlPath != "" {
		if err := export.WriteHTMLReportFile(htmlPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", htmlPath)
	}
}

func selectViews(all []analysis.View, id string) ([]analysis.View, error) {
	if id == "" {
		return all, nil
	}
	v, err := analysis.ViewByID(all, id)
	if err != nil {
		return nil, err
	}
	return []analysis.View{v}, nil
}

// overrideParams applies the -top/-from/-to flags (zero keeps the default) and clamps to each view's bounds.
func overrideParams(views []analysis.View, top, from, to int) map[string]analysis.Params {
	out := make(map[string]analysis.Params, len(views))
	for _, v := range views {
		p := v.DefaultParams()
		switch v.Param {
		case analysis.ParamTopN:
			if top > 0 {
				p.TopN = top
			}
		case analysis.ParamYearRange:
			if from > 0 {
				p.Years.From = from
			}
			if to > 0 {
				p.Years.To = to
			}
		}
		out[v.ID] = v.Clamp(p)
	}
	return out
}

func formatResult(res analysis.Result) string {
	rows := make([][]string, 0, len(res.Entries))
	for i, e := range res.Entries {
		rows = append(rows, []string{strconv.Itoa(i + 1), e.Key, strconv.Itoa(e.Count)})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", res.View.KeyLabel, "Projects").
		Rows(rows...).
		StyleFunc(styleCell)
	body := t.Render()
	if len(rows) == 0 {
		body = warnStyle.Render("No projects")
	}
	return titleStyle.Render(res.Title) + "\n" + body
}

func formatHits(columns []string, hits []dataset.Record) string {
	rows := make([][]string, 0, len(hits))
	for _, r := range hits {
		rows = append(rows, r.Strings())
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(styleCell).
		Render()
}

func styleCell(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}
