package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMortality(t *testing.T) {
	input := "country,1950,1951,1952\n" +
		"Afghanistan,380.1,370.2,360.0\n" +
		"Norway,30.5,,28.1\n"

	wide, err := ReadMortality(strings.NewReader(input), "test.csv")
	require.NoError(t, err)

	assert.Equal(t, []int{1950, 1951, 1952}, wide.Years)
	require.Len(t, wide.Rows, 2)
	assert.Equal(t, "Afghanistan", wide.Rows[0].Country)
	require.NotNil(t, wide.Rows[0].Values[2])
	assert.InDelta(t, 360.0, *wide.Rows[0].Values[2], 1e-9)
	assert.Nil(t, wide.Rows[1].Values[1], "empty cell should be null")
}

func TestReadMortality_CountryColumnAnywhere(t *testing.T) {
	input := "1990,country,1991\n12.5,Chad,11.0\n"

	wide, err := ReadMortality(strings.NewReader(input), "test.csv")
	require.NoError(t, err)

	assert.Equal(t, []int{1990, 1991}, wide.Years)
	require.Len(t, wide.Rows, 1)
	assert.Equal(t, "Chad", wide.Rows[0].Country)
	assert.InDelta(t, 11.0, *wide.Rows[0].Values[1], 1e-9)
}

func TestReadMortality_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantIs   error
		contains string
	}{
		{
			name:     "non-numeric year label",
			input:    "country,1950,abc\nChad,1,2\n",
			contains: `"abc"`,
		},
		{
			name:   "missing country column",
			input:  "nation,1950\nChad,1\n",
			wantIs: ErrMissingCountryColumn,
		},
		{
			name:   "empty file",
			input:  "",
			wantIs: ErrEmptySource,
		},
		{
			name:     "non-numeric cell",
			input:    "country,1950\nChad,n/a\n",
			contains: "line 2",
		},
		{
			name:     "NaN cell",
			input:    "country,1950\nChad,NaN\n",
			contains: "finite",
		},
		{
			name:     "ragged row",
			input:    "country,1950,1951\nChad,1\n",
			contains: "read row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wide, err := ReadMortality(strings.NewReader(tt.input), "bad.csv")
			require.Error(t, err)
			assert.Nil(t, wide)

			var dsErr *DataSourceError
			require.ErrorAs(t, err, &dsErr)
			assert.Equal(t, "bad.csv", dsErr.Source)

			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestReadMortality_ByteOrderMark(t *testing.T) {
	input := "\ufeffcountry,2000\nPeru,40.2\n"

	wide, err := ReadMortality(strings.NewReader(input), "bom.csv")
	require.NoError(t, err)
	require.Len(t, wide.Rows, 1)
	assert.Equal(t, "Peru", wide.Rows[0].Country)
}

func TestLoadMortality_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := LoadMortality(context.Background(), path)
	require.Error(t, err)

	var dsErr *DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "open", dsErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCoerceYear(t *testing.T) {
	year, err := CoerceYear(" 1952 ")
	require.NoError(t, err)
	assert.Equal(t, 1952, year)

	for _, bad := range []string{"abc", "1952.5", ""} {
		_, err := CoerceYear(bad)
		assert.Error(t, err, "label %q", bad)
	}
}

func TestMelt(t *testing.T) {
	input := "country,2000,2001,2002\n" +
		"A,1,2,3\n" +
		"B,,5,\n"

	wide, err := ReadMortality(strings.NewReader(input), "m.csv")
	require.NoError(t, err)

	long := Melt(wide)
	require.Len(t, long, 2*3, "countries x year columns")

	assert.Equal(t, MortalityLongRecord{Country: "A", Year: 2000, ChildMortality: ptr(1)}, long[0])
	assert.Equal(t, "B", long[3].Country)
	assert.Equal(t, 2000, long[3].Year)
	assert.Nil(t, long[3].ChildMortality)
	assert.Nil(t, long[5].ChildMortality)
	assert.InDelta(t, 5.0, *long[4].ChildMortality, 1e-9)
}

func TestMelt_HeaderOnly(t *testing.T) {
	wide, err := ReadMortality(strings.NewReader("country,2000,2001\n"), "m.csv")
	require.NoError(t, err)
	assert.Empty(t, Melt(wide))
	assert.Nil(t, Melt(nil))
}

func ptr(v float64) *float64 { return &v }
