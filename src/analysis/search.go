package analysis

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/iafilius/CCSExplorer/src/dataset"
)

var (
	// ErrNoResults is returned when a search matches nothing. It is a notice, not a failure.
	ErrNoResults = errors.New("no projects found")
	// ErrUnknownField is returned when a search or view names a column the table lacks.
	ErrUnknownField = errors.New("unknown field")
)

// Search returns the records whose field, coerced to text, contains query
// ignoring case. Matches come back unmodified and in table order.
// An empty result yields ErrNoResults.
func Search(t *dataset.Table, field, query string) ([]dataset.Record, error) {
	if !t.HasColumn(field) {
		return nil, fmt.Errorf("search %q: %w", field, ErrUnknownField)
	}
	fold := cases.Fold()
	needle := fold.String(query)
	var out []dataset.Record
	for _, r := range t.Records() {
		if strings.Contains(fold.String(r.Text(field)), needle) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}
