package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed gapminder.csv
var bundledGapminder []byte

// BundledSource names the embedded reference table in errors and logs.
const BundledSource = "bundled:gapminder"

// Reference column names, in the order of the bundled file.
const (
	ColCountry        = "country"
	ColContinent      = "continent"
	ColYear           = "year"
	ColLifeExp        = "lifeExp"
	ColPop            = "pop"
	ColGDPPercap      = "gdpPercap"
	ColISOAlpha       = "iso_alpha"
	ColChildMortality = "childMortality"
)

var referenceColumns = []string{
	ColCountry, ColContinent, ColYear, ColLifeExp, ColPop, ColGDPPercap, ColISOAlpha,
}

// CountryYearRecord is one row of the reference dataset.
type CountryYearRecord struct {
	Country   string  `json:"country"`
	Year      int     `json:"year"`
	Continent string  `json:"continent"`
	LifeExp   float64 `json:"lifeExp"`
	GDPPercap float64 `json:"gdpPercap"`
	Pop       int64   `json:"pop"`
	ISOAlpha  string  `json:"iso_alpha"`
}

// LoadReference returns every row of the reference table. An empty path
// selects the bundled gapminder table.
func LoadReference(ctx context.Context, path string) ([]CountryYearRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return ReadReference(bytes.NewReader(bundledGapminder), BundledSource)
	}

	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, sourceErr(path, "open", err)
	}
	defer func() { _ = f.Close() }()

	return ReadReference(f, path)
}

// ReadReference parses a reference table from r. Column order is free but all
// seven reference columns must be present.
func ReadReference(r io.Reader, source string) ([]CountryYearRecord, error) {
	cr := newCSVReader(r)

	header, err := readHeader(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, sourceErr(source, "read header", ErrEmptySource)
		}
		return nil, sourceErr(source, "read header", err)
	}

	idx := columnIndex(header)
	for _, col := range referenceColumns {
		if _, ok := idx[col]; !ok {
			return nil, &SchemaError{Source: source, Column: col}
		}
	}

	var records []CountryYearRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sourceErr(source, "read row", err)
		}

		line, _ := cr.FieldPos(0)
		rec, err := parseReferenceRow(row, idx)
		if err != nil {
			return nil, sourceErr(source, fmt.Sprintf("parse line %d", line), err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseReferenceRow(row []string, idx map[string]int) (CountryYearRecord, error) {
	field := func(col string) string { return strings.TrimSpace(row[idx[col]]) }

	year, err := strconv.Atoi(field(ColYear))
	if err != nil {
		return CountryYearRecord{}, fmt.Errorf("%s: %w", ColYear, err)
	}
	lifeExp, err := parseFinite(field(ColLifeExp))
	if err != nil {
		return CountryYearRecord{}, fmt.Errorf("%s: %w", ColLifeExp, err)
	}
	gdp, err := parseFinite(field(ColGDPPercap))
	if err != nil {
		return CountryYearRecord{}, fmt.Errorf("%s: %w", ColGDPPercap, err)
	}
	pop, err := strconv.ParseInt(field(ColPop), 10, 64)
	if err != nil {
		return CountryYearRecord{}, fmt.Errorf("%s: %w", ColPop, err)
	}

	return CountryYearRecord{
		Country:   row[idx[ColCountry]],
		Year:      year,
		Continent: field(ColContinent),
		LifeExp:   lifeExp,
		GDPPercap: gdp,
		Pop:       pop,
		ISOAlpha:  field(ColISOAlpha),
	}, nil
}
