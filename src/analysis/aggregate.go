package analysis

import (
	"sort"

	"github.com/iafilius/CCSExplorer/src/dataset"
)

// Entry is one bucket of an aggregate: a categorical key and how many records carry it.
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Aggregate maps keys to counts and remembers the order keys were first seen,
// so ranking ties resolve the same way on every run.
type Aggregate struct {
	counts map[string]int
	order  []string
}

func newAggregate() Aggregate {
	return Aggregate{counts: map[string]int{}}
}

func (a *Aggregate) add(key string) {
	if _, seen := a.counts[key]; !seen {
		a.order = append(a.order, key)
	}
	a.counts[key]++
}

// Len is the number of distinct keys.
func (a Aggregate) Len() int { return len(a.order) }

// Count returns the count for key (0 when absent).
func (a Aggregate) Count(key string) int { return a.counts[key] }

// Total is the sum of all counts.
func (a Aggregate) Total() int {
	n := 0
	for _, c := range a.counts {
		n += c
	}
	return n
}

// Entries returns buckets in first-encounter order.
func (a Aggregate) Entries() []Entry {
	out := make([]Entry, len(a.order))
	for i, k := range a.order {
		out[i] = Entry{Key: k, Count: a.counts[k]}
	}
	return out
}

// CountBy counts records per verbatim value of field. Null cells are skipped, so the
// total equals the number of non-null cells; no case or whitespace normalization is applied.
func CountBy(records []dataset.Record, field string) Aggregate {
	agg := newAggregate()
	for _, r := range records {
		v, ok := r.Value(field)
		if !ok || v.Null {
			continue
		}
		agg.add(v.Text)
	}
	return agg
}

// CountValues counts plain strings, preserving first-encounter order.
func CountValues(values []string) Aggregate {
	agg := newAggregate()
	for _, v := range values {
		agg.add(v)
	}
	return agg
}

// Order selects how Rank sorts an aggregate.
type Order int

const (
	// ByEncounter keeps first-encounter order (pie chart of project types).
	ByEncounter Order = iota
	// ByCountDesc sorts by count, largest first; ties keep encounter order.
	ByCountDesc
	// ByKeyAsc sorts by key, lexicographically ascending (year series).
	ByKeyAsc
)

func (o Order) String() string {
	switch o {
	case ByCountDesc:
		return "count_desc"
	case ByKeyAsc:
		return "key_asc"
	}
	return "encounter"
}

// Rank returns the aggregate's entries sorted by order. The sort is stable.
func Rank(a Aggregate, order Order) []Entry {
	entries := a.Entries()
	switch order {
	case ByCountDesc:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	case ByKeyAsc:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	}
	return entries
}

// TopN returns the first min(n, len(entries)) entries; n below zero yields none.
func TopN(entries []Entry, n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n:n]
}
