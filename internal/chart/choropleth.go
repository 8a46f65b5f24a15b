package chart

import (
	"strconv"

	"github.com/leapstack-labs/healthtrends/internal/dataset"
)

// Plasma is the sequential colour scale used by the map.
var Plasma = []string{
	"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
	"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
}

const choroplethHover = "<b>%{hovertext}</b><br><br>year=%{customdata}<br>iso_alpha=%{location}<br>childMortality=%{z}<extra></extra>"

// Choropleth builds the animated world map of child mortality by ISO alpha-3
// code. The colour range spans all years so frames are comparable.
func Choropleth(t *dataset.Table) *Figure {
	years := t.Years()

	frames := make([]Frame, 0, len(years))
	for _, year := range years {
		frames = append(frames, Frame{
			Name: strconv.Itoa(year),
			Data: []Trace{choroplethTrace(t.Frame(year), year)},
		})
	}

	lo, hi, ok := t.MortalityRange()
	if !ok {
		lo, hi = 0, 1
	}

	f := &Figure{
		Frames: frames,
		Layout: Layout{
			Geo: &Geo{
				Projection:     Projection{Type: "natural earth"},
				ShowFrame:      false,
				ShowCoastlines: true,
			},
			ColorAxis: &ColorAxis{
				ColorScale: colorScale(Plasma),
				CMin:       lo,
				CMax:       hi,
				ColorBar:   &ColorBar{Title: &Title{Text: dataset.ColChildMortality}},
			},
			Margin: &Margin{L: 0, R: 0, T: 30, B: 0},
		},
	}
	if len(frames) > 0 {
		f.Data = frames[0].Data
		f.Layout.UpdateMenus, f.Layout.Sliders = animationControls(years, true)
	}
	return f
}

func choroplethTrace(rows []dataset.MergedRecord, year int) Trace {
	label := strconv.Itoa(year)
	tr := Trace{
		Type:          "choropleth",
		Geo:           "geo",
		ColorAxis:     "coloraxis",
		LocationMode:  "ISO-3",
		HoverTemplate: choroplethHover,
		Locations:     make([]string, len(rows)),
		Z:             make([]*float64, len(rows)),
		HoverText:     make([]string, len(rows)),
		CustomData:    make([]string, len(rows)),
	}
	for i, r := range rows {
		tr.Locations[i] = r.ISOAlpha
		tr.Z[i] = r.ChildMortality
		tr.HoverText[i] = r.Country
		tr.CustomData[i] = label
	}
	return tr
}

// colorScale spreads colours evenly over [0, 1].
func colorScale(colors []string) [][2]any {
	out := make([][2]any, len(colors))
	last := len(colors) - 1
	for i, c := range colors {
		pos := 0.0
		if last > 0 {
			pos = float64(i) / float64(last)
		}
		out[i] = [2]any{pos, c}
	}
	return out
}
