// CCS Explorer desktop viewer.
//
// Loads the CCS project table once, then shows a search box with a results table
// and the seven ranked views, each with its slider, chart image and a download
// button. Every control change recomputes the affected view from the in-memory
// table and rewrites that view's PNG artifact in the output directory.
//
// -screenshots DIR renders all artifacts headlessly and exits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/CCSExplorer/cmd/ccsviewer/uihelpers"
	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/config"
	"github.com/iafilius/CCSExplorer/src/dataset"
	"github.com/iafilius/CCSExplorer/src/logging"
	"github.com/iafilius/CCSExplorer/src/render"
)

const introMarkdown = `# Carbon capture information data visualization

## Introduction to Carbon Capture and Storage (CCS)

**Carbon Capture and Storage (CCS)** captures carbon dioxide from large emission sources such as
power plants and industrial facilities before it reaches the atmosphere, then transports it and
stores it deep underground in geological formations.

Below, CCS projects around the globe are searched and summarised.`

// viewNotes are explanatory paragraphs shown under a view's chart.
var viewNotes = map[string]string{
	"company": "The organizations holding the most CCS projects worldwide are predominantly academic " +
		"institutions or government research organizations, including Illinois State Geological Survey " +
		"and the University of North Dakota. Not until the eighth position does a private corporation " +
		"appear (E.ON). Most carbon capture projects are still supported by government or academic " +
		"entities, with private companies making up a minor share.",
}

// viewPanel is the on-screen state of one ranked view.
type viewPanel struct {
	view   analysis.View
	params analysis.Params

	img      *canvas.Image
	caption  *widget.Label
	valueLbl *widget.Label
	slider   *widget.Slider // top-N
	fromSl   *widget.Slider // year range
	toSl     *widget.Slider

	// counts lists the entries next to pie charts.
	counts  *widget.Table
	entries []analysis.Entry
}

type uiState struct {
	app    fyne.App
	window fyne.Window

	cfg      config.Config
	filePath string
	table    *dataset.Table
	views    []analysis.View
	opts     render.Options
	panels   []*viewPanel

	// search
	searchField  string
	searchQuery  string
	hits         []dataset.Record
	fieldSelect  *widget.Select
	resultsTable *widget.Table
	resultsBox   fyne.CanvasObject
	notice       *widget.Label
	fileLabel    *widget.Label
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default $CCS_CONFIG)")
	fileFlag := flag.String("file", "", "Path to the CCS projects CSV (overrides config)")
	outFlag := flag.String("out", "", "Directory for chart PNG artifacts (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (debug|info|warn|error)")
	logFile := flag.String("log-file", "", "Append log lines to this file instead of stderr")
	screenshots := flag.String("screenshots", "", "Render all charts into this directory and exit")
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logging.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		logging.SetOutput(f)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatalf("%v", err)
	}
	if *fileFlag != "" {
		cfg.DataFile = *fileFlag
	}
	if *outFlag != "" {
		cfg.OutDir = *outFlag
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if !logging.SetLogLevel(cfg.LogLevel) {
		logging.Warnf("unknown log level %q, keeping info", cfg.LogLevel)
	}

	tbl, err := dataset.Load(cfg.DataFile)
	if err != nil {
		logging.Fatalf("%v", err)
	}
	logging.Infof("loaded %d projects from %s", tbl.Len(), cfg.DataFile)

	views := cfg.ResolvedViews()
	opts := render.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height, MaxLabel: 28}
	if *screenshots != "" {
		if err := RunScreenshotsMode(tbl, views, nil, *screenshots, opts); err != nil {
			logging.Fatalf("%v", err)
		}
		return
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		logging.Fatalf("create out dir: %v", err)
	}

	a := app.NewWithID("com.ccs.explorer")
	w := a.NewWindow("CCS Explorer")
	w.Resize(fyne.NewSize(1100, 900))

	state := &uiState{
		app:         a,
		window:      w,
		cfg:         cfg,
		filePath:    cfg.DataFile,
		table:       tbl,
		views:       views,
		opts:        opts,
		searchField: dataset.ColCompany,
	}
	loadPrefs(state)

	w.SetContent(buildContent(state))
	buildMenus(state)
	redrawAll(state)
	runSearch(state)
	watchResize(state)

	w.ShowAndRun()
}

func buildContent(state *uiState) fyne.CanvasObject {
	intro := widget.NewRichTextFromMarkdown(introMarkdown)
	intro.Wrapping = fyne.TextWrapWord

	state.fileLabel = widget.NewLabel(uihelpers.TruncatePath(state.filePath, 60))

	// search row
	state.fieldSelect = widget.NewSelect(state.table.Columns(), func(v string) {
		if v == state.searchField {
			return
		}
		state.searchField = v
		savePrefs(state)
		runSearch(state)
	})
	state.fieldSelect.Selected = state.searchField
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Search for projects")
	entry.OnChanged = func(s string) {
		state.searchQuery = s
		runSearch(state)
	}
	state.notice = widget.NewLabel("No projects found")
	state.notice.Importance = widget.WarningImportance
	state.notice.Hide()

	state.resultsTable = newResultsTable(state)
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(900, 260))
	state.resultsBox = container.NewStack(spacer, state.resultsTable)
	state.resultsBox.Hide()

	searchRow := container.NewBorder(nil, nil,
		container.NewHBox(widget.NewLabel("Search by"), state.fieldSelect), nil, entry)

	column := container.NewVBox(
		intro,
		container.NewHBox(widget.NewLabel("File:"), state.fileLabel),
		searchRow,
		state.notice,
		state.resultsBox,
	)
	for _, v := range state.views {
		p := newViewPanel(state, v)
		state.panels = append(state.panels, p)
		column.Add(widget.NewSeparator())
		column.Add(panelContent(state, p))
	}
	return container.NewVScroll(column)
}

func newResultsTable(state *uiState) *widget.Table {
	t := widget.NewTable(
		// header row + hits
		func() (int, int) {
			return len(state.hits) + 1, len(state.table.Columns())
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			cols := state.table.Columns()
			if id.Col >= len(cols) {
				lbl.SetText("")
				return
			}
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(cols[id.Col])
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			rix := id.Row - 1
			if rix >= len(state.hits) {
				lbl.SetText("")
				return
			}
			lbl.SetText(uihelpers.TruncateText(state.hits[rix].Text(cols[id.Col]), 40))
		},
	)
	applyColumnWidths(state, t)
	return t
}

func applyColumnWidths(state *uiState, t *widget.Table) {
	if t == nil || state.table == nil {
		return
	}
	var winW float32 = 1100
	if state.window != nil && state.window.Canvas() != nil && state.window.Canvas().Size().Width > 0 {
		winW = state.window.Canvas().Size().Width
	}
	for i, w := range uihelpers.ComputeTableColumnWidths(winW, len(state.table.Columns())) {
		t.SetColumnWidth(i, w)
	}
}

// runSearch applies the current query. An empty query hides the results, matching
// the dashboard's behaviour of only searching once something is typed.
func runSearch(state *uiState) {
	if state.notice == nil || state.resultsBox == nil {
		return
	}
	q := state.searchQuery
	if q == "" {
		state.hits = nil
		state.notice.Hide()
		state.resultsBox.Hide()
		return
	}
	hits, err := analysis.Search(state.table, state.searchField, q)
	switch {
	case errors.Is(err, analysis.ErrNoResults):
		state.hits = nil
		state.notice.Show()
		state.resultsBox.Hide()
	case err != nil:
		logging.Warnf("search: %v", err)
		state.hits = nil
		state.notice.Hide()
		state.resultsBox.Hide()
	default:
		logging.Debugf("search field=%q query=%q hits=%d", state.searchField, q, len(hits))
		state.hits = hits
		state.notice.Hide()
		state.resultsBox.Show()
		state.resultsTable.Refresh()
	}
}

func newViewPanel(state *uiState, v analysis.View) *viewPanel {
	p := &viewPanel{view: v, params: v.Clamp(prefParams(state, v))}
	p.img = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 40)))
	p.img.FillMode = canvas.ImageFillContain
	p.caption = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	p.valueLbl = widget.NewLabel("")

	switch v.Param {
	case analysis.ParamTopN:
		p.slider = widget.NewSlider(float64(v.TopN.Min), float64(v.TopN.Max))
		p.slider.Step = 1
		p.slider.Value = float64(p.params.TopN)
		p.slider.OnChanged = func(f float64) {
			n := uihelpers.SnapSlider(f, v.TopN.Min, v.TopN.Max)
			if n == p.params.TopN {
				return
			}
			p.params.TopN = n
			savePrefs(state)
			redrawPanel(state, p)
		}
	case analysis.ParamYearRange:
		onYear := func(float64) {
			from := uihelpers.SnapSlider(p.fromSl.Value, v.Years.Min, v.Years.Max)
			to := uihelpers.SnapSlider(p.toSl.Value, v.Years.Min, v.Years.Max)
			from, to = uihelpers.OrderedRange(from, to)
			next := analysis.YearRange{From: from, To: to}
			if next == p.params.Years {
				return
			}
			p.params.Years = next
			savePrefs(state)
			redrawPanel(state, p)
		}
		p.fromSl = widget.NewSlider(float64(v.Years.Min), float64(v.Years.Max))
		p.fromSl.Step = 1
		p.fromSl.Value = float64(p.params.Years.From)
		p.toSl = widget.NewSlider(float64(v.Years.Min), float64(v.Years.Max))
		p.toSl.Step = 1
		p.toSl.Value = float64(p.params.Years.To)
		p.fromSl.OnChanged = onYear
		p.toSl.OnChanged = onYear
	}
	return p
}

func panelContent(state *uiState, p *viewPanel) fyne.CanvasObject {
	heading := widget.NewLabelWithStyle(p.view.Heading, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	download := widget.NewButton("Download image", func() { exportArtifact(state, p) })
	items := []fyne.CanvasObject{heading}
	switch p.view.Param {
	case analysis.ParamTopN:
		items = append(items, container.NewBorder(nil, nil, widget.NewLabel(sliderPrompt(p.view)), p.valueLbl, p.slider))
	case analysis.ParamYearRange:
		items = append(items,
			widget.NewLabel("Select range of years"),
			container.NewBorder(nil, nil, widget.NewLabel("From"), nil, p.fromSl),
			container.NewBorder(nil, nil, widget.NewLabel("To"), p.valueLbl, p.toSl),
		)
	}
	if p.view.Chart == analysis.PieChart {
		p.counts = newCountsTable(p)
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(360, 140))
		items = append(items, container.NewHBox(container.NewStack(spacer, p.counts)))
	}
	items = append(items, p.img, p.caption)
	if note, ok := viewNotes[p.view.ID]; ok {
		lbl := widget.NewLabel(note)
		lbl.Wrapping = fyne.TextWrapWord
		items = append(items, lbl)
	}
	items = append(items, container.NewHBox(download))
	return container.NewVBox(items...)
}

func newCountsTable(p *viewPanel) *widget.Table {
	t := widget.NewTable(
		func() (int, int) { return len(p.entries) + 1, 2 },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			lbl.TextStyle = fyne.TextStyle{Bold: id.Row == 0}
			lbl.SetText(countsCell(p.view.KeyLabel, p.entries, id.Row, id.Col))
		},
	)
	t.SetColumnWidth(0, 240)
	t.SetColumnWidth(1, 100)
	return t
}

// countsCell returns the text of one cell of a key/count table with a header row.
func countsCell(keyLabel string, entries []analysis.Entry, row, col int) string {
	if row == 0 {
		if col == 0 {
			return keyLabel
		}
		return "Projects"
	}
	if row-1 >= len(entries) {
		return ""
	}
	e := entries[row-1]
	if col == 0 {
		return e.Key
	}
	return fmt.Sprintf("%d", e.Count)
}

func sliderPrompt(v analysis.View) string {
	switch v.ID {
	case "company":
		return "Select the number of top companies"
	case "location":
		return "Select the number of top locations"
	case "tech":
		return "Select the number of top technologies"
	}
	return "Select the number of entries"
}

func redrawAll(state *uiState) {
	for _, p := range state.panels {
		redrawPanel(state, p)
	}
}

// redrawPanel recomputes one view, rewrites its artifact and swaps the image.
func redrawPanel(state *uiState, p *viewPanel) {
	params := p.view.Clamp(p.params)
	res, img, err := render.Update(state.table, p.view, params, state.cfg.OutDir, state.opts)
	if err != nil {
		logging.Errorf("view %s: %v", p.view.ID, err)
		if img == nil {
			w, h := state.opts.Width, state.opts.Height
			img = image.NewRGBA(image.Rect(0, 0, w, h))
		}
	}
	p.img.Image = img
	p.img.SetMinSize(fyne.NewSize(float32(state.opts.Width)*0.6, float32(state.opts.Height)*0.6))
	p.img.Refresh()
	p.caption.SetText(res.Title)
	if p.counts != nil {
		p.entries = res.Entries
		p.counts.Refresh()
	}
	switch p.view.Param {
	case analysis.ParamTopN:
		p.valueLbl.SetText(fmt.Sprintf("%d", params.TopN))
	case analysis.ParamYearRange:
		p.valueLbl.SetText(params.Years.String())
	}
}

// exportArtifact offers the view's current PNG file for saving elsewhere.
func exportArtifact(state *uiState, p *viewPanel) {
	path := render.ArtifactPath(state.cfg.OutDir, p.view)
	data, err := os.ReadFile(path)
	if err != nil {
		dialog.ShowInformation("Download image", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if _, err := wc.Write(data); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		logging.Infof("saved %s (%s) to %s", p.view.Artifact, render.ContentType, wc.URI().Path())
	}, state.window)
	fs.SetFileName(p.view.Artifact)
	fs.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	fs.Show()
}

func buildMenus(state *uiState) {
	if state == nil || state.window == nil {
		return
	}
	exportAll := fyne.NewMenuItem("Export All Charts…", func() {
		paths, err := render.RenderAll(state.table, state.views, currentParams(state), state.cfg.OutDir, state.opts)
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		dialog.ShowInformation("Export", fmt.Sprintf("Wrote %d charts to %s", len(paths), state.cfg.OutDir), state.window)
	})
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItemSeparator(),
		exportAll,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		loadTable(state, path)
	}, state.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	d.Show()
}

// loadTable swaps in another CSV. On failure the current table stays.
func loadTable(state *uiState, path string) {
	tbl, err := dataset.Load(path)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	logging.Infof("loaded %d projects from %s", tbl.Len(), path)
	state.table = tbl
	state.filePath = path
	state.fileLabel.SetText(uihelpers.TruncatePath(path, 60))
	state.fieldSelect.Options = tbl.Columns()
	if !tbl.HasColumn(state.searchField) {
		state.searchField = dataset.ColCompany
	}
	state.fieldSelect.Selected = state.searchField
	state.fieldSelect.Refresh()
	applyColumnWidths(state, state.resultsTable)
	runSearch(state)
	redrawAll(state)
}

// watchResize re-renders charts when the window width changes so they use the space.
func watchResize(state *uiState) {
	w := state.window
	if w.Canvas() == nil {
		return
	}
	prevW := int(w.Canvas().Size().Width)
	done := make(chan struct{})
	w.SetOnClosed(func() {
		savePrefs(state)
		close(done)
	})
	go func() {
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := w.Canvas()
				if c == nil {
					continue
				}
				curW := int(c.Size().Width)
				if curW == prevW || curW == 0 {
					continue
				}
				prevW = curW
				fyne.Do(func() {
					state.opts.Width, state.opts.Height = uihelpers.ComputeChartDimensions(int(float32(curW) * 1.6))
					applyColumnWidths(state, state.resultsTable)
					redrawAll(state)
				})
			}
		}
	}()
}

func currentParams(state *uiState) map[string]analysis.Params {
	out := make(map[string]analysis.Params, len(state.panels))
	for _, p := range state.panels {
		out[p.view.ID] = p.view.Clamp(p.params)
	}
	return out
}

// prefs
func prefKey(v analysis.View, name string) string { return "view." + v.ID + "." + name }

func prefParams(state *uiState, v analysis.View) analysis.Params {
	p := v.DefaultParams()
	if state == nil || state.app == nil {
		return p
	}
	prefs := state.app.Preferences()
	p.TopN = prefs.IntWithFallback(prefKey(v, "topN"), p.TopN)
	p.Years.From = prefs.IntWithFallback(prefKey(v, "yearFrom"), p.Years.From)
	p.Years.To = prefs.IntWithFallback(prefKey(v, "yearTo"), p.Years.To)
	return p
}

func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("searchField", state.searchField)
	for _, p := range state.panels {
		switch p.view.Param {
		case analysis.ParamTopN:
			prefs.SetInt(prefKey(p.view, "topN"), p.params.TopN)
		case analysis.ParamYearRange:
			prefs.SetInt(prefKey(p.view, "yearFrom"), p.params.Years.From)
			prefs.SetInt(prefKey(p.view, "yearTo"), p.params.Years.To)
		}
	}
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	f := strings.TrimSpace(state.app.Preferences().StringWithFallback("searchField", state.searchField))
	if state.table.HasColumn(f) {
		state.searchField = f
	}
}
