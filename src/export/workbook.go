// Package export writes the computed views to formats meant for sharing outside
// the dashboard: an Excel workbook and a self-contained HTML report.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/dataset"
)

// SearchSheet carries optional search hits to include in the workbook.
type SearchSheet struct {
	Field   string
	Query   string
	Columns []string
	Records []dataset.Record
}

// sheetName trims to Excel's 31-character limit.
func sheetName(s string) string {
	r := []rune(s)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}

// WriteWorkbook saves one sheet per view (rank, key, count) and, when search is
// non-nil, a "Search" sheet with the matching rows.
func WriteWorkbook(path string, results []analysis.Result, search *SearchSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, res := range results {
		name := sheetName(res.View.ID)
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
		if err := writeResult(f, name, res); err != nil {
			return err
		}
	}
	if search != nil {
		if err := writeSearch(f, search, first); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeResult(f *excelize.File, sheet string, res analysis.Result) error {
	if err := f.SetCellValue(sheet, "A1", res.Title); err != nil {
		return fmt.Errorf("%s: %w", sheet, err)
	}
	header := []interface{}{"Rank", res.View.KeyLabel, "Projects"}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	for i, e := range res.Entries {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		row := []interface{}{i + 1, e.Key, e.Count}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetColWidth(sheet, "B", "B", 40)
}

func writeSearch(f *excelize.File, s *SearchSheet, onlySheet bool) error {
	const name = "Search"
	if onlySheet {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	if err := f.SetCellValue(name, "A1", fmt.Sprintf("%s contains %q (%d rows)", s.Field, s.Query, len(s.Records))); err != nil {
		return err
	}
	header := make([]interface{}, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A3", &header); err != nil {
		return err
	}
	for i, r := range s.Records {
		cells := r.Strings()
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("search row %d: %w", i+1, err)
		}
	}
	return nil
}
