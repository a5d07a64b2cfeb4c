package main

import (
	"testing"

	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/dataset"
)

func TestCountsCell_TypeView(t *testing.T) {
	tbl, err := dataset.Load("../../src/dataset/testdata/ccs_sample.csv")
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	v, _ := analysis.ViewByID(analysis.Views(), "type")
	res, err := analysis.Build(tbl, v, v.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if got := countsCell(v.KeyLabel, res.Entries, 0, 0); got != "Project types" {
		t.Fatalf("header key %q", got)
	}
	if got := countsCell(v.KeyLabel, res.Entries, 0, 1); got != "Projects" {
		t.Fatalf("header count %q", got)
	}
	// encounter order: Storage first, 6 rows in the sample
	if k, c := countsCell(v.KeyLabel, res.Entries, 1, 0), countsCell(v.KeyLabel, res.Entries, 1, 1); k != "Storage" || c != "6" {
		t.Fatalf("first row %q=%q", k, c)
	}
	if got := countsCell(v.KeyLabel, res.Entries, len(res.Entries)+1, 0); got != "" {
		t.Fatalf("row past the end should be blank, got %q", got)
	}
}

func TestViewNotes_OnlyKnownViews(t *testing.T) {
	for id := range viewNotes {
		if _, err := analysis.ViewByID(analysis.Views(), id); err != nil {
			t.Fatalf("note for unknown view %q", id)
		}
	}
}
