package uihelpers

import (
	"math"
	"path/filepath"
	"unicode/utf8"
)

// ComputeChartDimensions applies width/height clamp rules used for charts.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height
// at a 5:2 aspect ratio.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	if w > 2400 {
		w = 2400
	}
	h := int(float32(w) * 0.4)
	if h < 320 {
		h = 320
	}
	if h > 640 {
		h = 640
	}
	return w, h
}

// ComputeTableColumnWidths spreads the search results table over the window.
// Every column gets at least minCol; the first column (project name) gets double weight.
func ComputeTableColumnWidths(winW float32, nCols int) []float32 {
	const minCol = 90
	if nCols <= 0 {
		return nil
	}
	avail := winW - 24
	weights := float32(nCols + 1)
	unit := avail / weights
	out := make([]float32, nCols)
	for i := range out {
		w := unit
		if i == 0 {
			w = unit * 2
		}
		if w < minCol {
			w = minCol
		}
		out[i] = float32(math.Floor(float64(w)))
	}
	return out
}

// SnapSlider turns a fyne slider value into an integer inside [min, max].
func SnapSlider(v float64, min, max int) int {
	if math.IsNaN(v) {
		return min
	}
	n := int(math.Round(v))
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// OrderedRange returns a, b sorted ascending; the two year sliders may cross.
func OrderedRange(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// TruncatePath shortens a file path for labels, keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

// TruncateText clips a cell value to n runes with an ellipsis.
func TruncateText(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
