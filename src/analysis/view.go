package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iafilius/CCSExplorer/src/dataset"
)

// ChartKind is how a view is drawn.
type ChartKind int

const (
	// BarChart draws one bar per entry.
	BarChart ChartKind = iota
	// PieChart draws entries as slices in their ranked order.
	PieChart
)

// ParamKind is the control a view exposes.
type ParamKind int

const (
	// ParamNone views show every entry and have no control.
	ParamNone ParamKind = iota
	// ParamTopN views are truncated by a count slider.
	ParamTopN
	// ParamYearRange views are filtered by an inclusive year range.
	ParamYearRange
)

// Bounds is an integer slider: allowed [Min, Max] and its starting value.
type Bounds struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Default int `yaml:"default"`
}

// YearBounds is a range slider over years.
type YearBounds struct {
	Min     int       `yaml:"min"`
	Max     int       `yaml:"max"`
	Default YearRange `yaml:"default"`
}

// View is a categorical ranking view: which column to count, how to order and cut
// the buckets, and how the chart is labelled and saved.
type View struct {
	ID       string
	Heading  string
	Field    string
	KeyLabel string
	Order    Order
	Chart    ChartKind
	Param    ParamKind
	TopN     Bounds
	Years    YearBounds
	// Title may contain %d verbs: one for top-N views, two for the year range.
	Title    string
	XLabel   string
	YLabel   string
	Artifact string
}

// Params carries the user's current control values for a view.
type Params struct {
	TopN  int
	Years YearRange
}

// Result is the computed, display-ready content of one view.
type Result struct {
	View     View
	Params   Params
	Title    string
	Entries  []Entry
	Distinct int // distinct keys before truncation or year filtering
}

var defaultViews = []View{
	{
		ID: "company", Heading: "Top CCS project companies", Field: dataset.ColCompany, KeyLabel: "Company",
		Order: ByCountDesc, Chart: BarChart, Param: ParamTopN, TopN: Bounds{Min: 5, Max: 17, Default: 5},
		Title: "Top %d companies in CCS", XLabel: "Company", YLabel: "Project counts", Artifact: "company_bar.png",
	},
	{
		ID: "type", Heading: "Project types", Field: dataset.ColProjectType, KeyLabel: "Project types",
		Order: ByEncounter, Chart: PieChart, Param: ParamNone,
		Title: "Project types", Artifact: "type_pie.png",
	},
	{
		ID: "location", Heading: "Project location", Field: dataset.ColCountry, KeyLabel: "Country",
		Order: ByCountDesc, Chart: BarChart, Param: ParamTopN, TopN: Bounds{Min: 5, Max: 11, Default: 5},
		Title: "Top %d Project locations", XLabel: "Location", YLabel: "Project counts", Artifact: "location_bar.png",
	},
	{
		ID: "year", Heading: "Project initiated by years", Field: dataset.ColProjectDate, KeyLabel: "Year",
		Order: ByKeyAsc, Chart: BarChart, Param: ParamYearRange,
		Years: YearBounds{Min: 1978, Max: 2022, Default: YearRange{From: 2000, To: 2020}},
		Title: "Projects initiated by years, from %d to %d", XLabel: "Year", YLabel: "Project counts", Artifact: "year_bar.png",
	},
	{
		ID: "tech", Heading: "Most used technology in CCS", Field: dataset.ColCaptureTech, KeyLabel: "Capture Technology",
		Order: ByCountDesc, Chart: BarChart, Param: ParamTopN, TopN: Bounds{Min: 5, Max: 17, Default: 5},
		Title: "Top %d technology of CCS", XLabel: "Capture Technology", YLabel: "Projects", Artifact: "tech_bar.png",
	},
	{
		ID: "status", Heading: "Project status", Field: dataset.ColStatus, KeyLabel: "Status",
		Order: ByCountDesc, Chart: BarChart, Param: ParamNone,
		Title: "Project status", XLabel: "Status", YLabel: "Projects", Artifact: "status_bar.png",
	},
	{
		ID: "comb_sep", Heading: "Combustion/Separation", Field: dataset.ColCombSep, KeyLabel: "Combustion/Separation",
		Order: ByCountDesc, Chart: BarChart, Param: ParamNone,
		Title: "Combustion/Separation", XLabel: "Combustion/Separation", YLabel: "Projects", Artifact: "comb_sep_bar.png",
	},
}

// Views returns the dashboard's seven views in display order.
func Views() []View {
	return append([]View(nil), defaultViews...)
}

// ErrUnknownView is returned by ViewByID for ids outside Views().
var ErrUnknownView = errors.New("unknown view")

// ViewByID looks a view up by id (case-insensitive).
func ViewByID(views []View, id string) (View, error) {
	for _, v := range views {
		if strings.EqualFold(v.ID, strings.TrimSpace(id)) {
			return v, nil
		}
	}
	return View{}, fmt.Errorf("%q: %w", id, ErrUnknownView)
}

// IDs lists view ids in order.
func IDs(views []View) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

// DefaultParams returns the slider starting values.
func (v View) DefaultParams() Params {
	return Params{TopN: v.TopN.Default, Years: v.Years.Default}
}

// Clamp pulls p inside the view's slider bounds. Parameters the view does not use
// are left untouched.
func (v View) Clamp(p Params) Params {
	switch v.Param {
	case ParamTopN:
		p.TopN = clampInt(p.TopN, v.TopN.Min, v.TopN.Max)
	case ParamYearRange:
		p.Years.From = clampInt(p.Years.From, v.Years.Min, v.Years.Max)
		p.Years.To = clampInt(p.Years.To, v.Years.Min, v.Years.Max)
		if p.Years.From > p.Years.To {
			p.Years.From, p.Years.To = p.Years.To, p.Years.From
		}
	}
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TitleFor formats the chart title for the given parameters.
func (v View) TitleFor(p Params) string {
	switch v.Param {
	case ParamTopN:
		return fmt.Sprintf(v.Title, p.TopN)
	case ParamYearRange:
		return fmt.Sprintf(v.Title, p.Years.From, p.Years.To)
	}
	return v.Title
}

// Build computes a view from the table. Parameters are used as given; callers that
// take them from a slider clamp first. A top-N larger than the number of distinct
// keys returns every key.
func Build(t *dataset.Table, v View, p Params) (Result, error) {
	if !t.HasColumn(v.Field) {
		return Result{}, fmt.Errorf("view %s: %q: %w", v.ID, v.Field, ErrUnknownField)
	}
	records := t.Records()
	res := Result{View: v, Params: p, Title: v.TitleFor(p)}
	switch v.Param {
	case ParamYearRange:
		series := YearSeries(records, v.Field)
		res.Distinct = len(series)
		res.Entries = FilterYears(series, p.Years)
	default:
		ranked := Rank(CountBy(records, v.Field), v.Order)
		res.Distinct = len(ranked)
		if v.Param == ParamTopN {
			ranked = TopN(ranked, p.TopN)
		}
		res.Entries = ranked
	}
	return res, nil
}

// BuildAll computes every view with the supplied parameters (keyed by view id);
// views missing from params use their defaults.
func BuildAll(t *dataset.Table, views []View, params map[string]Params) ([]Result, error) {
	out := make([]Result, 0, len(views))
	for _, v := range views {
		p, ok := params[v.ID]
		if !ok {
			p = v.DefaultParams()
		}
		res, err := Build(t, v, p)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Sum is the total count across the result's entries.
func (r Result) Sum() int {
	n := 0
	for _, e := range r.Entries {
		n += e.Count
	}
	return n
}
