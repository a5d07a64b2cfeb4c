// Package dataset loads the CCS project table into memory.
//
// The table is read once at startup and never mutated afterwards; every view and
// search is computed from it on demand.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names the dashboard depends on.
const (
	ColCompany     = "Company"
	ColProjectType = "Storage and/or Capture"
	ColCountry     = "Country Location"
	ColProjectDate = "Project Date"
	ColCaptureTech = "Capture Technology"
	ColStatus      = "Overall Status"
	ColCombSep     = "Combustion / Separation"
)

// RequiredColumns must all be present in the CSV header.
var RequiredColumns = []string{
	ColCompany,
	ColProjectType,
	ColCountry,
	ColProjectDate,
	ColCaptureTech,
	ColStatus,
	ColCombSep,
}

// NullText is how an empty cell reads when coerced to text for searching.
const NullText = "nan"

// ErrMissingColumns is wrapped by LoadError when the header lacks required columns.
var ErrMissingColumns = errors.New("missing required columns")

// LoadError reports why the table could not be loaded. It is fatal for every command.
type LoadError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *LoadError) Error() string {
	src := e.Path
	if src == "" {
		src = "<reader>"
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("load %s: %v: %s", src, e.Err, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("load %s: %v", src, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Value is one cell. Null is set for empty cells and for the literal text NaN,
// which the CSV layer reads as missing the same way pandas does. Any other text,
// including sentinels such as N/A, is kept verbatim.
type Value struct {
	Text string
	Null bool
}

// String coerces the cell to text, rendering nulls as NullText.
func (v Value) String() string {
	if v.Null {
		return NullText
	}
	return v.Text
}

// Table is the immutable, ordered set of project records.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// Record is a read-only view of one table row.
type Record struct {
	t   *Table
	row int
}

// Load opens path and reads the table from it.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Read parses a CSV stream with a header row. All columns are kept as text. A
// leading UTF-8 byte-order mark is skipped, and a header without data rows yields
// an empty table.
func Read(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{""}),
	)
	if df.Err != nil {
		header, ok := headerOnly(raw)
		if !ok {
			return nil, &LoadError{Err: df.Err}
		}
		return newTable(header)
	}
	t, err := newTable(df.Names())
	if err != nil {
		return nil, err
	}

	n := df.Nrow()
	t.rows = make([][]Value, n)
	for i := range t.rows {
		t.rows[i] = make([]Value, len(t.columns))
	}
	for ci, name := range t.columns {
		col := df.Col(name)
		for ri := 0; ri < n; ri++ {
			el := col.Elem(ri)
			if el.IsNA() {
				t.rows[ri][ci] = Value{Null: true}
				continue
			}
			t.rows[ri][ci] = Value{Text: el.String()}
		}
	}
	return t, nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

// headerOnly reports the header of input that holds exactly one CSV record.
func headerOnly(raw []byte) ([]string, bool) {
	cr := csv.NewReader(bytes.NewReader(raw))
	header, err := cr.Read()
	if err != nil || len(header) == 0 {
		return nil, false
	}
	if _, err := cr.Read(); err != io.EOF {
		return nil, false
	}
	return header, true
}

// newTable indexes the header and checks the required columns are present.
func newTable(columns []string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{Missing: missing, Err: ErrMissingColumns}
	}
	return &Table{columns: columns, index: index, rows: [][]Value{}}, nil
}

// FromRows builds a table from raw text rows; an empty string is a null cell.
// Required columns are not enforced, which keeps small fixtures short.
func FromRows(columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	out := make([][]Value, len(rows))
	for i, raw := range rows {
		if len(raw) != len(columns) {
			return nil, fmt.Errorf("row %d: got %d cells, want %d", i, len(raw), len(columns))
		}
		vals := make([]Value, len(raw))
		for j, s := range raw {
			if s == "" {
				vals[j] = Value{Null: true}
			} else {
				vals[j] = Value{Text: s}
			}
		}
		out[i] = vals
	}
	return &Table{columns: append([]string(nil), columns...), index: index, rows: out}, nil
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the header in file order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Record returns row i.
func (t *Table) Record(i int) Record { return Record{t: t, row: i} }

// Records returns every row in file order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	for i := range t.rows {
		out[i] = Record{t: t, row: i}
	}
	return out
}

// Index is the record's row position in the source file (0-based, header excluded).
func (r Record) Index() int { return r.row }

// Value returns the cell for column; ok is false for unknown columns.
func (r Record) Value(column string) (Value, bool) {
	ci, ok := r.t.index[column]
	if !ok {
		return Value{}, false
	}
	return r.t.rows[r.row][ci], true
}

// Text returns the cell coerced to text ("" for unknown columns).
func (r Record) Text(column string) string {
	v, ok := r.Value(column)
	if !ok {
		return ""
	}
	return v.String()
}

// Strings returns all cells coerced to text in column order.
func (r Record) Strings() []string {
	cells := r.t.rows[r.row]
	out := make([]string, len(cells))
	for i, v := range cells {
		out[i] = v.String()
	}
	return out
}
