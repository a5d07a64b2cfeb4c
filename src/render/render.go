// Package render draws view results as PNG charts and maintains the per-view
// artifact files the dashboard offers for download.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"unicode/utf8"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/CCSExplorer/src/analysis"
)

// ContentType is what download handlers advertise for artifacts.
const ContentType = "image/png"

// Options controls image size and decorations.
type Options struct {
	Width  int
	Height int
	// Caption draws the chart title into the bottom-left corner, the way the
	// dashboard shows it under each image.
	Caption bool
	// MaxLabel truncates long category names on the x axis (0 = no limit).
	MaxLabel int
}

// DefaultOptions matches the dashboard's on-screen size.
func DefaultOptions() Options {
	return Options{Width: 1600, Height: 640, MaxLabel: 28}
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1600
	}
	if h <= 0 {
		h = 640
	}
	return w, h
}

// Chart renders a view result. Empty results produce a blank placeholder with a
// "No projects" caption rather than an error.
func Chart(res analysis.Result, opts Options) (image.Image, error) {
	w, h := opts.size()
	if len(res.Entries) == 0 {
		return drawHint(blank(w, h), fmt.Sprintf("%s: no projects", res.Title)), nil
	}
	var buf bytes.Buffer
	var err error
	switch res.View.Chart {
	case analysis.PieChart:
		err = pieChart(res, w, h).Render(chart.PNG, &buf)
	default:
		err = barChart(res, w, h, opts.MaxLabel).Render(chart.PNG, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", res.View.ID, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", res.View.ID, err)
	}
	if opts.Caption {
		img = drawHint(img, res.Title)
	}
	return img, nil
}

func barChart(res analysis.Result, w, h, maxLabel int) chart.BarChart {
	counts := make([]float64, len(res.Entries))
	maxCount := 0
	for i, e := range res.Entries {
		counts[i] = float64(e.Count)
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}
	colors := rescaleColors(counts)
	bars := make([]chart.Value, len(res.Entries))
	for i, e := range res.Entries {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%s (%d)", truncateLabel(e.Key, maxLabel), e.Count),
			Value: counts[i],
			Style: chart.Style{FillColor: colors[i], StrokeColor: colors[i], StrokeWidth: 1},
		}
	}
	top, ticks := countTicks(maxCount, 6)
	padBottom := 20
	if len(bars) > 6 {
		padBottom = 90
	}
	xStyle := chart.Style{FontSize: 9}
	if len(bars) > 6 {
		xStyle.TextRotationDegrees = 30
	}
	return chart.BarChart{
		Title:      res.Title,
		TitleStyle: chart.Style{FontSize: 16},
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: padBottom}},
		BarWidth:   barWidth(w, len(bars)),
		XAxis:      xStyle,
		YAxis: chart.YAxis{
			Name:  res.View.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top},
			Ticks: ticks,
		},
		Bars: bars,
	}
}

func pieChart(res analysis.Result, w, h int) chart.PieChart {
	values := make([]chart.Value, len(res.Entries))
	for i, e := range res.Entries {
		values[i] = chart.Value{Label: fmt.Sprintf("%s (%d)", e.Key, e.Count), Value: float64(e.Count)}
	}
	return chart.PieChart{
		Title:      res.Title,
		TitleStyle: chart.Style{FontSize: 16},
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Values:     values,
	}
}

// barWidth keeps bars readable without overflowing the canvas; go-chart shrinks
// further when needed.
func barWidth(w, n int) int {
	if n <= 0 {
		return 40
	}
	bw := (w - 120) / (n * 2)
	if bw > 120 {
		bw = 120
	}
	if bw < 12 {
		bw = 12
	}
	return bw
}

func truncateLabel(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// wistia is the yellow→orange ramp used for bar fills, smallest to largest count.
var wistia = []drawing.Color{
	{R: 228, G: 255, B: 122, A: 255},
	{R: 255, G: 232, B: 26, A: 255},
	{R: 255, G: 189, B: 0, A: 255},
	{R: 255, G: 160, B: 0, A: 255},
	{R: 252, G: 127, B: 0, A: 255},
}

// rescaleColors maps each value to the ramp after min-max scaling. When all values
// are equal every bar takes the low end of the ramp.
func rescaleColors(values []float64) []drawing.Color {
	out := make([]drawing.Color, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for i, v := range values {
		t := 0.0
		if hi > lo {
			t = (v - lo) / (hi - lo)
		}
		out[i] = rampColor(t)
	}
	return out
}

func rampColor(t float64) drawing.Color {
	if t <= 0 {
		return wistia[0]
	}
	if t >= 1 {
		return wistia[len(wistia)-1]
	}
	pos := t * float64(len(wistia)-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := wistia[i], wistia[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return drawing.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

// countTicks returns an axis top and integer ticks for counts in [0, maxCount].
func countTicks(maxCount, n int) (float64, []chart.Tick) {
	if n < 2 {
		n = 2
	}
	if maxCount < 1 {
		maxCount = 1
	}
	span := float64(maxCount)
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	if mag < 1 {
		mag = 1
	}
	step := mag
	for _, c := range []float64{1, 2, 5, 10} {
		step = c * mag
		if math.Ceil(span/step) <= float64(n) {
			break
		}
	}
	// one step of headroom when the largest bar would touch the top
	top := math.Ceil(span/step) * step
	if top == span {
		top += step
	}
	ticks := make([]chart.Tick, 0, int(top/step)+1)
	for v := 0.0; v <= top+step/2; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return top, ticks
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 250, G: 250, B: 250, A: 255}), image.Point{}, draw.Src)
	return img
}

// drawHint draws a short text onto the image near the bottom-left corner.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
