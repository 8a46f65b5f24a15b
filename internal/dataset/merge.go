package dataset

import "strconv"

// Key identifies a row of the merged table.
type Key struct {
	Country string
	Year    int
}

// MergedRecord is a reference row with the matching child mortality value,
// nil when the mortality source has no value for (country, year).
type MergedRecord struct {
	CountryYearRecord
	ChildMortality *float64 `json:"childMortality"`
}

// JoinReport summarizes how the mortality source lined up with the reference
// rows. It is informational only.
type JoinReport struct {
	ReferenceRows int `json:"reference_rows"`
	MortalityRows int `json:"mortality_rows"`
	Matched       int `json:"matched"`
	NullValues    int `json:"null_values"`
	// Reference countries with no mortality record for any year.
	UnmatchedCountries []string `json:"unmatched_countries"`
	// Mortality countries absent from the reference table.
	UnusedCountries []string `json:"unused_countries"`
}

// Merge left-joins reference rows to mortality records on exact country name
// and exact year. Every reference row appears once, in input order. When the
// mortality records repeat a key, the first one is used.
func Merge(reference []CountryYearRecord, mortality []MortalityLongRecord) *Table {
	index := make(map[Key]*float64, len(mortality))
	mortalityCountries := make(map[string]struct{})
	var mortalityOrder []string
	for _, m := range mortality {
		k := Key{Country: m.Country, Year: m.Year}
		if _, ok := index[k]; !ok {
			index[k] = m.ChildMortality
		}
		if _, ok := mortalityCountries[m.Country]; !ok {
			mortalityCountries[m.Country] = struct{}{}
			mortalityOrder = append(mortalityOrder, m.Country)
		}
	}

	report := JoinReport{
		ReferenceRows: len(reference),
		MortalityRows: len(mortality),
	}

	records := make([]MergedRecord, 0, len(reference))
	referenceCountries := make(map[string]struct{})
	for _, ref := range reference {
		rec := MergedRecord{CountryYearRecord: ref}
		if v, ok := index[Key{Country: ref.Country, Year: ref.Year}]; ok && v != nil {
			value := *v
			rec.ChildMortality = &value
			report.Matched++
		} else {
			report.NullValues++
		}
		records = append(records, rec)

		if _, seen := referenceCountries[ref.Country]; !seen {
			referenceCountries[ref.Country] = struct{}{}
			if _, ok := mortalityCountries[ref.Country]; !ok {
				report.UnmatchedCountries = append(report.UnmatchedCountries, ref.Country)
			}
		}
	}

	for _, c := range mortalityOrder {
		if _, ok := referenceCountries[c]; !ok {
			report.UnusedCountries = append(report.UnusedCountries, c)
		}
	}

	return newTable(records, report)
}

// Values returns the row in Columns order; a null child mortality is nil.
func (r MergedRecord) Values() []any {
	var cm any
	if r.ChildMortality != nil {
		cm = *r.ChildMortality
	}
	return []any{r.Country, r.Year, r.Continent, r.LifeExp, r.GDPPercap, r.Pop, r.ISOAlpha, cm}
}

// Strings returns the row in Columns order formatted for display; a null
// child mortality is the empty string.
func (r MergedRecord) Strings() []string {
	cm := ""
	if r.ChildMortality != nil {
		cm = strconv.FormatFloat(*r.ChildMortality, 'f', -1, 64)
	}
	return []string{
		r.Country,
		strconv.Itoa(r.Year),
		r.Continent,
		strconv.FormatFloat(r.LifeExp, 'f', -1, 64),
		strconv.FormatFloat(r.GDPPercap, 'f', -1, 64),
		strconv.FormatInt(r.Pop, 10),
		r.ISOAlpha,
		cm,
	}
}
