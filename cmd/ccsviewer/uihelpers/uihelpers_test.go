package uihelpers

import (
	"math"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 800},
		{799, 800},
		{800, 800},
		{1600, 1600},
		{5000, 2400},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 320 || h > 640 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestComputeTableColumnWidths(t *testing.T) {
	if ComputeTableColumnWidths(1000, 0) != nil {
		t.Fatalf("no columns => nil")
	}
	wide := ComputeTableColumnWidths(1824, 8)
	if len(wide) != 8 {
		t.Fatalf("expected 8 widths got %d", len(wide))
	}
	if wide[0] != 2*wide[1] {
		t.Fatalf("first column should be double: %v", wide)
	}
	narrow := ComputeTableColumnWidths(400, 8)
	for i, w := range narrow {
		if w < 90 {
			t.Fatalf("column %d below minimum: %v", i, narrow)
		}
	}
}

func TestSnapSlider(t *testing.T) {
	cases := []struct {
		v    float64
		want int
	}{
		{4.2, 5}, {5.4, 5}, {5.5, 6}, {16.9, 17}, {40, 17}, {math.NaN(), 5},
	}
	for _, c := range cases {
		if got := SnapSlider(c.v, 5, 17); got != c.want {
			t.Fatalf("SnapSlider(%v)=%d want %d", c.v, got, c.want)
		}
	}
}

func TestOrderedRange(t *testing.T) {
	if a, b := OrderedRange(2020, 2000); a != 2000 || b != 2020 {
		t.Fatalf("got %d-%d", a, b)
	}
	if a, b := OrderedRange(1990, 1990); a != 1990 || b != 1990 {
		t.Fatalf("got %d-%d", a, b)
	}
}

func TestTruncate(t *testing.T) {
	got := TruncatePath("/very/long/directory/structure/for/data/ccs.csv", 20)
	if got != "/very/lon/...ccs.csv" {
		t.Fatalf("truncate path got %q", got)
	}
	if TruncatePath("ccs.csv", 20) != "ccs.csv" {
		t.Fatalf("short path changed")
	}
	if got := TruncateText("Illinois State Geological Survey", 9); got != "Illinois…" {
		t.Fatalf("truncate text got %q", got)
	}
}
