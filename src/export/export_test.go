package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/dataset"
)

func sampleResults(t *testing.T) (*dataset.Table, []analysis.Result) {
	t.Helper()
	tbl, err := dataset.Load("../dataset/testdata/ccs_sample.csv")
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	results, err := analysis.BuildAll(tbl, analysis.Views(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tbl, results
}

func TestWriteWorkbook(t *testing.T) {
	tbl, results := sampleResults(t)
	hits, err := analysis.Search(tbl, dataset.ColCountry, "norway")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "ccs.xlsx")
	err = WriteWorkbook(path, results, &SearchSheet{Field: dataset.ColCountry, Query: "norway", Columns: tbl.Columns(), Records: hits})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 8 || sheets[0] != "company" || sheets[7] != "Search" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	title, _ := f.GetCellValue("company", "A1")
	if title != "Top 5 companies in CCS" {
		t.Fatalf("title cell %q", title)
	}
	key, _ := f.GetCellValue("company", "B4")
	count, _ := f.GetCellValue("company", "C4")
	if key != "Illinois State Geological Survey" || count != "3" {
		t.Fatalf("first ranked row %q=%q", key, count)
	}
	name, _ := f.GetCellValue("Search", "A5")
	if name != "Snohvit" {
		t.Fatalf("second search row name %q", name)
	}
}

func TestWriteHTMLReport(t *testing.T) {
	_, results := sampleResults(t)
	var buf bytes.Buffer
	if err := WriteHTMLReport(&buf, results); err != nil {
		t.Fatalf("report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{reportTitle, "Top 5 companies in CCS", "Projects initiated by years, from 2000 to 2020", "Project types"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}
