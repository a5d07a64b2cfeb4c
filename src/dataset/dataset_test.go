package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePath = "testdata/ccs_sample.csv"

func TestLoadSample(t *testing.T) {
	tbl, err := Load(samplePath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 12 {
		t.Fatalf("expected 12 records got %d", tbl.Len())
	}
	for _, c := range RequiredColumns {
		if !tbl.HasColumn(c) {
			t.Fatalf("missing column %q in %v", c, tbl.Columns())
		}
	}
	if !tbl.HasColumn("Project Name") {
		t.Fatalf("extra columns must be kept: %v", tbl.Columns())
	}

	// quoted comma survives, text kept verbatim
	r := tbl.Record(6)
	if got := r.Text(ColCompany); got != "E.ON, UK" {
		t.Fatalf("record 6 company = %q", got)
	}
	// empty date is null and reads as nan
	v, ok := r.Value(ColProjectDate)
	if !ok || !v.Null {
		t.Fatalf("expected null date, got %+v ok=%v", v, ok)
	}
	if r.Text(ColProjectDate) != NullText {
		t.Fatalf("null should stringify to %q, got %q", NullText, r.Text(ColProjectDate))
	}
	// sentinel text is not null
	v, _ = tbl.Record(9).Value(ColCaptureTech)
	if v.Null || v.Text != "N/A" {
		t.Fatalf("sentinel text must be verbatim, got %+v", v)
	}
	if tbl.Record(9).Index() != 9 {
		t.Fatalf("index mismatch")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLoadMissingColumns(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.csv")
	body := "Company,Country Location\nAcme,USA\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(p)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if le.Path != p {
		t.Fatalf("path not recorded: %q", le.Path)
	}
	if len(le.Missing) != 5 || !strings.Contains(err.Error(), ColProjectDate) {
		t.Fatalf("unexpected missing list %v (%v)", le.Missing, err)
	}
}

func TestFromRows(t *testing.T) {
	tbl, err := FromRows([]string{ColCompany, ColCountry}, [][]string{{"A", "USA"}, {"", "UK"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Record(1).Strings(); got[0] != NullText || got[1] != "UK" {
		t.Fatalf("unexpected strings %v", got)
	}
	if tbl.Record(0).Text("nope") != "" {
		t.Fatalf("unknown column should read empty")
	}
	if _, err := FromRows([]string{"a", "a"}, nil); err == nil {
		t.Fatalf("duplicate columns must fail")
	}
	if _, err := FromRows([]string{"a"}, [][]string{{"1", "2"}}); err == nil {
		t.Fatalf("ragged rows must fail")
	}
}

const requiredHeader = "Company,Storage and/or Capture,Country Location,Project Date,Capture Technology,Overall Status,Combustion / Separation\n"

func TestReadSkipsByteOrderMark(t *testing.T) {
	body := "\ufeff" + requiredHeader + "A,Storage,USA,2001,Oxy-fuel,Active,Combustion\n"
	tbl, err := Read(strings.NewReader(body))
	if err != nil {
		t.Fatalf("read with BOM: %v", err)
	}
	if tbl.Columns()[0] != ColCompany {
		t.Fatalf("first column %q", tbl.Columns()[0])
	}
	if got := tbl.Record(0).Text(ColCompany); got != "A" {
		t.Fatalf("company %q", got)
	}
}

func TestReadHeaderOnly(t *testing.T) {
	tbl, err := Read(strings.NewReader(requiredHeader))
	if err != nil {
		t.Fatalf("header-only read: %v", err)
	}
	if tbl.Len() != 0 || len(tbl.Columns()) != len(RequiredColumns) {
		t.Fatalf("expected empty table with %d columns, got %d rows %v", len(RequiredColumns), tbl.Len(), tbl.Columns())
	}
	if len(tbl.Records()) != 0 {
		t.Fatalf("records on empty table")
	}

	_, err = Read(strings.NewReader("Company,Country Location\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("header-only input still needs required columns, got %v", err)
	}
	var le *LoadError
	if _, err := Read(strings.NewReader("")); !errors.As(err, &le) {
		t.Fatalf("empty input must fail with LoadError, got %v", err)
	}
}

func TestReadNaNTextIsNull(t *testing.T) {
	body := requiredHeader + "NaN,Storage,USA,2001,N/A,Active,Combustion\n"
	tbl, err := Read(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tbl.Record(0).Value(ColCompany)
	if !v.Null || v.String() != NullText {
		t.Fatalf("NaN cell should read as null, got %+v", v)
	}
	v, _ = tbl.Record(0).Value(ColCaptureTech)
	if v.Null || v.Text != "N/A" {
		t.Fatalf("N/A must stay verbatim, got %+v", v)
	}
}
