package chart

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/healthtrends/internal/dataset"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	ref := []dataset.CountryYearRecord{
		{Country: "Afghanistan", Year: 1952, Continent: "Asia", LifeExp: 28.8, GDPPercap: 779.4, Pop: 8425333, ISOAlpha: "AFG"},
		{Country: "Afghanistan", Year: 1957, Continent: "Asia", LifeExp: 30.3, GDPPercap: 820.9, Pop: 9240934, ISOAlpha: "AFG"},
		{Country: "Zimbabwe", Year: 1962, Continent: "Africa", LifeExp: 52.4, GDPPercap: 527.3, Pop: 4277736, ISOAlpha: "ZWE"},
		{Country: "Norway", Year: 1952, Continent: "Europe", LifeExp: 72.7, GDPPercap: 10095.4, Pop: 3327728, ISOAlpha: "NOR"},
	}
	wide, err := dataset.ReadMortality(strings.NewReader(
		"country,1952,1957\nAfghanistan,360.0,\nNorway,28.1,25.0\n"), "m.csv")
	require.NoError(t, err)
	return dataset.Merge(ref, dataset.Melt(wide))
}

func TestTable(t *testing.T) {
	fig := Table(sampleTable(t), 0)
	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]
	assert.Equal(t, "table", tr.Type)
	require.Len(t, tr.Header.Values, len(dataset.Columns))
	assert.Equal(t, []string{"<b>country</b>"}, tr.Header.Values[0])

	require.Len(t, tr.Cells.Values, len(dataset.Columns))
	assert.Equal(t, []string{"Afghanistan", "Afghanistan", "Zimbabwe", "Norway"}, tr.Cells.Values[0])
	assert.Equal(t, []string{"360", "", "", "28.1"}, tr.Cells.Values[7])
}

func TestTable_LimitsRows(t *testing.T) {
	fig := Table(sampleTable(t), 2)
	assert.Len(t, fig.Data[0].Cells.Values[0], 2)
}

func TestLifeExpectancy_DefaultSelection(t *testing.T) {
	fig := LifeExpectancy(sampleTable(t), DefaultCountry)

	require.Len(t, fig.Data, 3)
	var visible []string
	for _, tr := range fig.Data {
		require.NotNil(t, tr.Visible)
		if *tr.Visible {
			visible = append(visible, tr.Name)
		}
	}
	assert.Equal(t, []string{"Afghanistan"}, visible)
	assert.Equal(t, "Life Expectancy Over Time: Afghanistan", fig.Layout.Title.Text)
	assert.Equal(t, []float64{1952, 1957}, fig.Data[0].X)
	assert.InDelta(t, 30.3, *fig.Data[0].Y[1], 1e-9)

	require.Len(t, fig.Layout.UpdateMenus, 1)
	menu := fig.Layout.UpdateMenus[0]
	assert.Equal(t, 0, menu.Active)
	assert.Equal(t, "left", menu.XAnchor)
	assert.InDelta(t, 1.2, menu.Y, 1e-9)
	require.Len(t, menu.Buttons, 3)
	assert.Equal(t, "Norway", menu.Buttons[2].Label)
	mask := menu.Buttons[2].Args[0].(map[string]any)["visible"]
	assert.Equal(t, []bool{false, false, true}, mask)
}

func TestLifeExpectancy_Selection(t *testing.T) {
	fig := LifeExpectancy(sampleTable(t), "Norway")
	assert.False(t, *fig.Data[0].Visible)
	assert.True(t, *fig.Data[2].Visible)
	assert.Equal(t, 2, fig.Layout.UpdateMenus[0].Active)
	assert.Equal(t, LifeExpectancyTitle("Norway"), fig.Layout.Title.Text)
}

func TestLifeExpectancy_UnknownCountryFallsBack(t *testing.T) {
	fig := LifeExpectancy(sampleTable(t), "Atlantis")
	assert.True(t, *fig.Data[0].Visible)
	assert.Equal(t, LifeExpectancyTitle("Afghanistan"), fig.Layout.Title.Text)
}

func TestScatter(t *testing.T) {
	table := sampleTable(t)
	fig := Scatter(table)

	require.Len(t, fig.Frames, 3)
	assert.Equal(t, "1952", fig.Frames[0].Name)
	assert.Equal(t, fig.Frames[0].Data, fig.Data)

	for _, fr := range fig.Frames {
		require.Len(t, fr.Data, 3, "every frame carries every continent")
		assert.Equal(t, "Asia", fr.Data[0].Name)
		assert.Equal(t, "Africa", fr.Data[1].Name)
		assert.Equal(t, "Europe", fr.Data[2].Name)
	}

	asia := fig.Frames[0].Data[0]
	assert.Equal(t, []string{"Afghanistan"}, asia.IDs)
	assert.Equal(t, []float64{779.4}, asia.X)
	assert.InDelta(t, 360.0, *asia.Y[0], 1e-9)
	assert.Equal(t, []float64{8425333}, asia.Marker.Size)
	assert.Equal(t, Palette[0], asia.Marker.Color)
	assert.Equal(t, "area", asia.Marker.SizeMode)
	assert.InDelta(t, 2*8425333.0/3600, asia.Marker.SizeRef, 1e-9)

	assert.Empty(t, fig.Frames[0].Data[1].IDs)
	assert.Nil(t, fig.Frames[1].Data[0].Y[0], "null mortality stays null")

	assert.Equal(t, "log", fig.Layout.XAxis.Type)
	assert.Equal(t, []float64{2, 5}, fig.Layout.XAxis.Range)
	assert.Equal(t, []float64{0, 400}, fig.Layout.YAxis.Range)
	assert.Equal(t, "GDP per Capita", fig.Layout.XAxis.Title.Text)
	assert.Equal(t, "Child Mortality(per 1,000 births)", fig.Layout.YAxis.Title.Text)

	require.Len(t, fig.Layout.Sliders, 1)
	require.Len(t, fig.Layout.Sliders[0].Steps, 3)
	assert.Equal(t, "1962", fig.Layout.Sliders[0].Steps[2].Label)
}

func TestChoropleth(t *testing.T) {
	fig := Choropleth(sampleTable(t))

	require.Len(t, fig.Frames, 3)
	tr := fig.Frames[0].Data[0]
	assert.Equal(t, "choropleth", tr.Type)
	assert.Equal(t, "ISO-3", tr.LocationMode)
	assert.Equal(t, []string{"AFG", "NOR"}, tr.Locations)
	assert.InDelta(t, 28.1, *tr.Z[1], 1e-9)

	assert.Equal(t, "natural earth", fig.Layout.Geo.Projection.Type)
	assert.InDelta(t, 28.1, fig.Layout.ColorAxis.CMin, 1e-9)
	assert.InDelta(t, 360.0, fig.Layout.ColorAxis.CMax, 1e-9)
	require.Len(t, fig.Layout.ColorAxis.ColorScale, len(Plasma))
	assert.Equal(t, [2]any{1.0, "#f0f921"}, fig.Layout.ColorAxis.ColorScale[len(Plasma)-1])
}

func TestChoropleth_FramesRedraw(t *testing.T) {
	fig := Choropleth(sampleTable(t))
	step := fig.Layout.Sliders[0].Steps[0]
	opts := step.Args[1].(map[string]any)
	assert.Equal(t, true, opts["frame"].(map[string]any)["redraw"])
}

func TestFigure_JSONEncodesNulls(t *testing.T) {
	fig := Choropleth(sampleTable(t))
	b, err := fig.JSON()
	require.NoError(t, err)

	var decoded struct {
		Frames []struct {
			Name string `json:"name"`
			Data []struct {
				Z []*float64 `json:"z"`
			} `json:"data"`
		} `json:"frames"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded.Frames, 3)
	assert.Equal(t, "1957", decoded.Frames[1].Name)
	require.Len(t, decoded.Frames[1].Data[0].Z, 1)
	assert.Nil(t, decoded.Frames[1].Data[0].Z[0])
}

func TestEmptyTable(t *testing.T) {
	empty := dataset.Merge(nil, nil)

	assert.Empty(t, Scatter(empty).Frames)
	assert.Empty(t, Choropleth(empty).Frames)
	assert.Empty(t, LifeExpectancy(empty, DefaultCountry).Data)
	assert.InDelta(t, 1.0, BubbleSizeRef(0), 1e-9)
}
