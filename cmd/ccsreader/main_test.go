package main

import (
	"strings"
	"testing"

	"github.com/iafilius/CCSExplorer/src/analysis"
	"github.com/iafilius/CCSExplorer/src/dataset"
)

func TestOverrideParams_ClampsToBounds(t *testing.T) {
	views := analysis.Views()
	got := overrideParams(views, 40, 2022, 1990)
	if got["company"].TopN != 17 {
		t.Fatalf("company topN %d want 17", got["company"].TopN)
	}
	if got["location"].TopN != 11 {
		t.Fatalf("location topN %d want 11", got["location"].TopN)
	}
	yr := got["year"].Years
	if yr.From != 1990 || yr.To != 2022 {
		t.Fatalf("year range %v want 1990-2022", yr)
	}
	def := overrideParams(views, 0, 0, 0)
	if def["company"].TopN != 5 || def["year"].Years.From != 2000 || def["year"].Years.To != 2020 {
		t.Fatalf("defaults not kept: %+v", def)
	}
}

func TestSelectViews(t *testing.T) {
	all := analysis.Views()
	if vs, err := selectViews(all, ""); err != nil || len(vs) != len(all) {
		t.Fatalf("empty id should select all, got %d %v", len(vs), err)
	}
	vs, err := selectViews(all, "STATUS")
	if err != nil || len(vs) != 1 || vs[0].ID != "status" {
		t.Fatalf("select status: %v %v", vs, err)
	}
	if _, err := selectViews(all, "nope"); err == nil {
		t.Fatalf("expected unknown view error")
	}
}

func TestFormatResult(t *testing.T) {
	tbl, err := dataset.Load("../../src/dataset/testdata/ccs_sample.csv")
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	v, _ := analysis.ViewByID(analysis.Views(), "tech")
	res, err := analysis.Build(tbl, v, v.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	out := formatResult(res)
	for _, want := range []string{res.Title, "Post-combustion", "Projects"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
