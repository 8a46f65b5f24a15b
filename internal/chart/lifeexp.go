package chart

import "github.com/leapstack-labs/healthtrends/internal/dataset"

// DefaultCountry is the country whose series is visible initially.
const DefaultCountry = "Afghanistan"

// LifeExpectancyTitle is the chart title for one country.
func LifeExpectancyTitle(country string) string {
	return "Life Expectancy Over Time: " + country
}

// LifeExpectancy builds one line series per country with only selected
// visible, plus a dropdown that switches the visible series. An unknown
// selection falls back to the first country.
func LifeExpectancy(t *dataset.Table, selected string) *Figure {
	countries := t.Countries()
	active := 0
	for i, c := range countries {
		if c == selected {
			active = i
			break
		}
	}
	if len(countries) > 0 {
		selected = countries[active]
	}

	traces := make([]Trace, 0, len(countries))
	buttons := make([]Button, 0, len(countries))
	for i, country := range countries {
		rows := t.ByCountry(country)
		x := make([]float64, len(rows))
		y := make([]*float64, len(rows))
		for j, r := range rows {
			x[j] = float64(r.Year)
			v := r.LifeExp
			y[j] = &v
		}
		traces = append(traces, Trace{
			Type:    "scatter",
			Mode:    "lines+markers",
			Name:    country,
			Visible: boolPtr(i == active),
			X:       x,
			Y:       y,
		})

		visible := make([]bool, len(countries))
		visible[i] = true
		buttons = append(buttons, Button{
			Label:  country,
			Method: "update",
			Args: []any{
				map[string]any{"visible": visible},
				map[string]any{"title": LifeExpectancyTitle(country)},
			},
		})
	}

	return &Figure{
		Data: traces,
		Layout: Layout{
			Title: &Title{Text: LifeExpectancyTitle(selected)},
			UpdateMenus: []UpdateMenu{{
				Active:     active,
				Buttons:    buttons,
				Direction:  "down",
				Pad:        map[string]int{"r": 10, "t": 10},
				X:          0,
				XAnchor:    "left",
				Y:          1.2,
				YAnchor:    "top",
				ShowActive: true,
			}},
			XAxis: &Axis{Title: &Title{Text: "Year"}},
			YAxis: &Axis{Title: &Title{Text: "Life Expectancy"}},
		},
	}
}
