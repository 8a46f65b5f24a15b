package chart

import (
	"strconv"

	"github.com/leapstack-labs/healthtrends/internal/dataset"
)

// Palette is the qualitative colour sequence assigned to continents in order
// of first appearance.
var Palette = []string{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A",
	"#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

const (
	bubbleSizeMax  = 60
	scatterHover   = "<b>%{hovertext}</b><br><br>year=%{customdata}<br>GDP per Capita=%{x}<br>Child Mortality(per 1,000 births)=%{y}<br>Population=%{marker.size}<extra></extra>"
	scatterXLabel  = "GDP per Capita"
	scatterYLabel  = "Child Mortality(per 1,000 births)"
	scatterXMinLog = 2 // 100
	scatterXMaxLog = 5 // 100000
)

// BubbleSizeRef returns the marker sizeref that makes the largest population
// render at the maximum bubble diameter in area mode.
func BubbleSizeRef(maxPop int64) float64 {
	if maxPop <= 0 {
		return 1
	}
	return 2 * float64(maxPop) / (bubbleSizeMax * bubbleSizeMax)
}

// Scatter builds the animated GDP per capita vs child mortality bubble chart:
// one trace per continent in every frame, bubbles keyed by country so the
// animation tracks them across years.
func Scatter(t *dataset.Table) *Figure {
	continents := t.Continents()
	years := t.Years()
	sizeRef := BubbleSizeRef(t.MaxPop())

	frames := make([]Frame, 0, len(years))
	for _, year := range years {
		frames = append(frames, Frame{
			Name: strconv.Itoa(year),
			Data: scatterTraces(t.Frame(year), continents, year, sizeRef),
		})
	}

	f := &Figure{
		Frames: frames,
		Layout: Layout{
			XAxis: &Axis{
				Title: &Title{Text: scatterXLabel},
				Type:  "log",
				Range: []float64{scatterXMinLog, scatterXMaxLog},
			},
			YAxis: &Axis{
				Title: &Title{Text: scatterYLabel},
				Range: []float64{0, 400},
			},
			Legend: &Legend{
				Title:         &Title{Text: dataset.ColContinent},
				TraceGroupGap: 0,
				ItemSizing:    "constant",
			},
			Margin: &Margin{L: 60, R: 20, T: 40, B: 40},
		},
	}
	if len(frames) > 0 {
		f.Data = frames[0].Data
		f.Layout.UpdateMenus, f.Layout.Sliders = animationControls(years, false)
	}
	return f
}

func scatterTraces(rows []dataset.MergedRecord, continents []string, year int, sizeRef float64) []Trace {
	grouped := make(map[string][]dataset.MergedRecord, len(continents))
	for _, r := range rows {
		grouped[r.Continent] = append(grouped[r.Continent], r)
	}

	label := strconv.Itoa(year)
	traces := make([]Trace, 0, len(continents))
	for i, continent := range continents {
		group := grouped[continent]
		tr := Trace{
			Type:          "scatter",
			Mode:          "markers",
			Name:          continent,
			LegendGroup:   continent,
			ShowLegend:    boolPtr(true),
			IDs:           make([]string, len(group)),
			X:             make([]float64, len(group)),
			Y:             make([]*float64, len(group)),
			HoverText:     make([]string, len(group)),
			HoverTemplate: scatterHover,
			CustomData:    make([]string, len(group)),
			Marker: &Marker{
				Color:    Palette[i%len(Palette)],
				Size:     make([]float64, len(group)),
				SizeMode: "area",
				SizeRef:  sizeRef,
				Symbol:   "circle",
			},
		}
		for j, r := range group {
			tr.IDs[j] = r.Country
			tr.X[j] = r.GDPPercap
			tr.Y[j] = r.ChildMortality
			tr.HoverText[j] = r.Country
			tr.CustomData[j] = label
			tr.Marker.Size[j] = float64(r.Pop)
		}
		traces = append(traces, tr)
	}
	return traces
}
