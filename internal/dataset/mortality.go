package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MortalityWideRow is one country of the wide mortality file: a value per
// year column, nil where the cell was empty.
type MortalityWideRow struct {
	Country string
	Values  []*float64
}

// MortalityWide is the parsed wide mortality file. Years[i] labels
// Rows[*].Values[i].
type MortalityWide struct {
	Source string
	Years  []int
	Rows   []MortalityWideRow
}

// MortalityLongRecord is one (country, year) cell of the wide file.
type MortalityLongRecord struct {
	Country        string   `json:"country"`
	Year           int      `json:"year"`
	ChildMortality *float64 `json:"childMortality"`
}

// LoadMortality opens and parses the wide mortality file at path.
func LoadMortality(ctx context.Context, path string) (*MortalityWide, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, sourceErr(path, "open", err)
	}
	defer func() { _ = f.Close() }()

	return ReadMortality(f, path)
}

// ReadMortality parses a wide mortality table from r. The header must hold a
// "country" column; every other column label must be an integer year.
func ReadMortality(r io.Reader, source string) (*MortalityWide, error) {
	cr := newCSVReader(r)

	header, err := readHeader(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, sourceErr(source, "read header", ErrEmptySource)
		}
		return nil, sourceErr(source, "read header", err)
	}

	countryCol := -1
	for i, h := range header {
		if h == ColCountry {
			countryCol = i
			break
		}
	}
	if countryCol < 0 {
		return nil, sourceErr(source, "read header", ErrMissingCountryColumn)
	}

	wide := &MortalityWide{Source: source}
	valueCols := make([]int, 0, len(header)-1)
	for i, label := range header {
		if i == countryCol {
			continue
		}
		year, err := CoerceYear(label)
		if err != nil {
			return nil, sourceErr(source, "parse year label", err)
		}
		wide.Years = append(wide.Years, year)
		valueCols = append(valueCols, i)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sourceErr(source, "read row", err)
		}

		line, _ := cr.FieldPos(0)
		values := make([]*float64, len(valueCols))
		for j, col := range valueCols {
			v, err := parseCell(row[col])
			if err != nil {
				return nil, sourceErr(source,
					fmt.Sprintf("parse line %d column %s", line, header[col]), err)
			}
			values[j] = v
		}
		wide.Rows = append(wide.Rows, MortalityWideRow{
			Country: row[countryCol],
			Values:  values,
		})
	}

	return wide, nil
}

// CoerceYear parses a wide-format column label as an integer year.
func CoerceYear(label string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return 0, fmt.Errorf("year label %q is not an integer", label)
	}
	return year, nil
}

// parseCell returns nil for an empty cell.
func parseCell(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := parseFinite(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Melt unpivots the wide table into one record per (country, year column),
// row-major. Empty cells are kept with a nil value, so the result always has
// len(Rows)*len(Years) records.
func Melt(wide *MortalityWide) []MortalityLongRecord {
	if wide == nil {
		return nil
	}
	out := make([]MortalityLongRecord, 0, len(wide.Rows)*len(wide.Years))
	for _, row := range wide.Rows {
		for j, year := range wide.Years {
			out = append(out, MortalityLongRecord{
				Country:        row.Country,
				Year:           year,
				ChildMortality: row.Values[j],
			})
		}
	}
	return out
}
