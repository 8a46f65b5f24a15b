package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReference() []CountryYearRecord {
	return []CountryYearRecord{
		{Country: "Afghanistan", Year: 1952, Continent: "Asia", LifeExp: 28.8, GDPPercap: 779.4, Pop: 8425333, ISOAlpha: "AFG"},
		{Country: "Afghanistan", Year: 1957, Continent: "Asia", LifeExp: 30.3, GDPPercap: 820.9, Pop: 9240934, ISOAlpha: "AFG"},
		{Country: "Zimbabwe", Year: 1962, Continent: "Africa", LifeExp: 52.4, GDPPercap: 527.3, Pop: 4277736, ISOAlpha: "ZWE"},
		{Country: "Norway", Year: 1952, Continent: "Europe", LifeExp: 72.7, GDPPercap: 10095.4, Pop: 3327728, ISOAlpha: "NOR"},
	}
}

func sampleLong(t *testing.T, csv string) []MortalityLongRecord {
	t.Helper()
	wide, err := ReadMortality(strings.NewReader(csv), "m.csv")
	require.NoError(t, err)
	return Melt(wide)
}

func TestMerge_LeftJoin(t *testing.T) {
	ref := sampleReference()
	long := sampleLong(t, "country,1952,1957\n"+
		"Afghanistan,360.0,\n"+
		"Norway,28.1,25.0\n"+
		"Narnia,1,2\n")

	table := Merge(ref, long)
	require.Equal(t, len(ref), table.Len(), "left join keeps every reference row")

	afg, ok := table.Lookup("Afghanistan", 1952)
	require.True(t, ok)
	assert.Equal(t, ref[0], afg.CountryYearRecord)
	require.NotNil(t, afg.ChildMortality)
	assert.InDelta(t, 360.0, *afg.ChildMortality, 1e-9)

	afg57, ok := table.Lookup("Afghanistan", 1957)
	require.True(t, ok)
	assert.Nil(t, afg57.ChildMortality, "empty cell stays null")

	zwe, ok := table.Lookup("Zimbabwe", 1962)
	require.True(t, ok)
	assert.Equal(t, ref[2], zwe.CountryYearRecord)
	assert.Nil(t, zwe.ChildMortality, "country missing from mortality file is null")

	nor, ok := table.Lookup("Norway", 1952)
	require.True(t, ok)
	assert.InDelta(t, 28.1, *nor.ChildMortality, 1e-9)
}

func TestMerge_PreservesReferenceRows(t *testing.T) {
	ref := sampleReference()
	inputs := []string{
		"country,1952\n",
		"country,1952,1957,1962\nAfghanistan,1,2,3\nZimbabwe,4,5,6\nNorway,7,8,9\n",
		"country,2000\nAfghanistan,1\n",
	}

	for _, in := range inputs {
		table := Merge(ref, sampleLong(t, in))
		require.Equal(t, len(ref), table.Len())

		seen := make(map[Key]bool)
		for i, r := range table.Records() {
			k := Key{Country: r.Country, Year: r.Year}
			assert.False(t, seen[k], "row %v duplicated", k)
			seen[k] = true
			assert.Equal(t, ref[i], r.CountryYearRecord, "non-mortality fields unchanged")
		}
	}
}

func TestMerge_ExactMatchOnly(t *testing.T) {
	ref := sampleReference()
	long := sampleLong(t, "country,1952\nafghanistan,10\n Norway,20\n")

	table := Merge(ref, long)

	afg, _ := table.Lookup("Afghanistan", 1952)
	assert.Nil(t, afg.ChildMortality, "case differs, no match")
	nor, _ := table.Lookup("Norway", 1952)
	assert.Nil(t, nor.ChildMortality, "leading space differs, no match")
}

func TestMerge_DuplicateMortalityKeyUsesFirst(t *testing.T) {
	ref := sampleReference()[:1]
	long := []MortalityLongRecord{
		{Country: "Afghanistan", Year: 1952, ChildMortality: ptr(1)},
		{Country: "Afghanistan", Year: 1952, ChildMortality: ptr(2)},
	}

	table := Merge(ref, long)
	require.Equal(t, 1, table.Len())
	rec, _ := table.Lookup("Afghanistan", 1952)
	assert.InDelta(t, 1.0, *rec.ChildMortality, 1e-9)
}

func TestMerge_DoesNotAliasMortalityValues(t *testing.T) {
	ref := sampleReference()[:1]
	v := 42.0
	table := Merge(ref, []MortalityLongRecord{{Country: "Afghanistan", Year: 1952, ChildMortality: &v}})

	v = 0
	rec, _ := table.Lookup("Afghanistan", 1952)
	assert.InDelta(t, 42.0, *rec.ChildMortality, 1e-9)
}

func TestMerge_Report(t *testing.T) {
	ref := sampleReference()
	long := sampleLong(t, "country,1952\nAfghanistan,360\nNarnia,1\n")

	report := Merge(ref, long).Report()

	assert.Equal(t, 4, report.ReferenceRows)
	assert.Equal(t, 2, report.MortalityRows)
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 3, report.NullValues)
	assert.Equal(t, []string{"Zimbabwe", "Norway"}, report.UnmatchedCountries)
	assert.Equal(t, []string{"Narnia"}, report.UnusedCountries)
}

func TestMergedRecord_Values(t *testing.T) {
	rec := MergedRecord{CountryYearRecord: sampleReference()[0], ChildMortality: ptr(360)}

	assert.Equal(t, []string{"Afghanistan", "1952", "Asia", "28.8", "779.4", "8425333", "AFG", "360"}, rec.Strings())
	assert.Len(t, rec.Values(), len(Columns))
	assert.Equal(t, 360.0, rec.Values()[7])

	rec.ChildMortality = nil
	assert.Equal(t, "", rec.Strings()[7])
	assert.Nil(t, rec.Values()[7])
}
