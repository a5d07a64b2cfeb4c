package analysis

import (
	"fmt"
	"strconv"

	"github.com/iafilius/CCSExplorer/src/dataset"
	"github.com/iafilius/CCSExplorer/src/logging"
)

// YearRange is an inclusive [From, To] bound on project start years.
type YearRange struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
}

func (r YearRange) String() string { return fmt.Sprintf("%d-%d", r.From, r.To) }

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool { return year >= r.From && year <= r.To }

// ExtractYear returns the last four characters of a date text ("12/31/2005" -> "2005").
// Shorter texts are returned whole. The result is not validated here.
func ExtractYear(date string) string {
	runes := []rune(date)
	if len(runes) <= 4 {
		return date
	}
	return string(runes[len(runes)-4:])
}

// YearSeries counts records per extracted year of field, skipping null dates,
// and returns the buckets sorted by year key ascending.
func YearSeries(records []dataset.Record, field string) []Entry {
	years := make([]string, 0, len(records))
	for _, r := range records {
		v, ok := r.Value(field)
		if !ok || v.Null {
			continue
		}
		years = append(years, ExtractYear(v.Text))
	}
	return Rank(CountValues(years), ByKeyAsc)
}

// FilterYears keeps entries whose key parses as an integer inside r, in input order.
// Keys that are not integers are dropped without error; the source data has a few
// free-text dates ("unknown") whose trailing characters land here.
func FilterYears(entries []Entry, r YearRange) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		y, err := strconv.Atoi(e.Key)
		if err != nil {
			logging.Debugf("year view: dropping malformed year %q (%d records)", e.Key, e.Count)
			continue
		}
		if r.Contains(y) {
			out = append(out, e)
		}
	}
	return out
}
