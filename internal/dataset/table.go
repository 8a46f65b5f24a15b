package dataset

import (
	"sort"
	"sync/atomic"
)

// Columns lists the merged table columns in output order.
var Columns = []string{
	ColCountry, ColYear, ColContinent, ColLifeExp, ColGDPPercap, ColPop, ColISOAlpha, ColChildMortality,
}

// Table is the merged, read-only dataset consumed by the views. None of its
// methods modify it; slices they return must not be modified by callers.
type Table struct {
	records    []MergedRecord
	index      map[Key]int
	byCountry  map[string][]int
	byYear     map[int][]int
	countries  []string
	continents []string
	years      []int
	report     JoinReport
}

func newTable(records []MergedRecord, report JoinReport) *Table {
	t := &Table{
		records:   records,
		index:     make(map[Key]int, len(records)),
		byCountry: make(map[string][]int),
		byYear:    make(map[int][]int),
		report:    report,
	}

	seenContinent := make(map[string]struct{})
	for i, r := range records {
		k := Key{Country: r.Country, Year: r.Year}
		if _, ok := t.index[k]; !ok {
			t.index[k] = i
		}
		if _, ok := t.byCountry[r.Country]; !ok {
			t.countries = append(t.countries, r.Country)
		}
		t.byCountry[r.Country] = append(t.byCountry[r.Country], i)
		if _, ok := t.byYear[r.Year]; !ok {
			t.years = append(t.years, r.Year)
		}
		t.byYear[r.Year] = append(t.byYear[r.Year], i)
		if _, ok := seenContinent[r.Continent]; !ok {
			seenContinent[r.Continent] = struct{}{}
			t.continents = append(t.continents, r.Continent)
		}
	}
	sort.Ints(t.years)

	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.records) }

// Records returns all rows in reference order.
func (t *Table) Records() []MergedRecord { return t.records }

// Head returns the first n rows (all rows when n <= 0 or n exceeds Len).
func (t *Table) Head(n int) []MergedRecord {
	if n <= 0 || n > len(t.records) {
		return t.records
	}
	return t.records[:n]
}

// Lookup returns the row for (country, year).
func (t *Table) Lookup(country string, year int) (MergedRecord, bool) {
	i, ok := t.index[Key{Country: country, Year: year}]
	if !ok {
		return MergedRecord{}, false
	}
	return t.records[i], true
}

// Countries returns the distinct countries in order of first appearance.
func (t *Table) Countries() []string { return t.countries }

// Continents returns the distinct continents in order of first appearance.
func (t *Table) Continents() []string { return t.continents }

// Years returns the distinct years in ascending order.
func (t *Table) Years() []int { return t.years }

// HasCountry reports whether any row belongs to country.
func (t *Table) HasCountry(country string) bool {
	_, ok := t.byCountry[country]
	return ok
}

// ByCountry returns the rows of one country in reference order.
func (t *Table) ByCountry(country string) []MergedRecord {
	return t.collect(t.byCountry[country])
}

// Frame returns the rows of one year in reference order.
func (t *Table) Frame(year int) []MergedRecord {
	return t.collect(t.byYear[year])
}

// Columns returns the column names in output order.
func (t *Table) Columns() []string { return Columns }

// Report returns the join diagnostics computed during Merge.
func (t *Table) Report() JoinReport { return t.report }

// MortalityRange returns the smallest and largest non-null child mortality
// values. ok is false when every value is null.
func (t *Table) MortalityRange() (lo, hi float64, ok bool) {
	for _, r := range t.records {
		if r.ChildMortality == nil {
			continue
		}
		v := *r.ChildMortality
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// MaxPop returns the largest population in the table.
func (t *Table) MaxPop() int64 {
	var m int64
	for _, r := range t.records {
		if r.Pop > m {
			m = r.Pop
		}
	}
	return m
}

func (t *Table) collect(idx []int) []MergedRecord {
	out := make([]MergedRecord, len(idx))
	for i, j := range idx {
		out[i] = t.records[j]
	}
	return out
}

// Holder publishes the current table to concurrent readers. A reload swaps
// in a new table; tables themselves are never mutated.
type Holder struct {
	current atomic.Pointer[Table]
}

// NewHolder returns a Holder serving t.
func NewHolder(t *Table) *Holder {
	h := &Holder{}
	h.current.Store(t)
	return h
}

// Table returns the current table.
func (h *Holder) Table() *Table { return h.current.Load() }

// Swap replaces the current table.
func (h *Holder) Swap(t *Table) { h.current.Store(t) }
