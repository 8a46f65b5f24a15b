package chart

import "github.com/leapstack-labs/healthtrends/internal/dataset"

// DefaultTableRows is the number of rows shown by the table view.
const DefaultTableRows = 10

// Table renders the first n merged rows as a plotly table trace.
func Table(t *dataset.Table, n int) *Figure {
	if n <= 0 {
		n = DefaultTableRows
	}
	rows := t.Head(n)

	cols := make([][]string, len(dataset.Columns))
	for i := range cols {
		cols[i] = make([]string, 0, len(rows))
	}
	for _, r := range rows {
		for i, v := range r.Strings() {
			cols[i] = append(cols[i], v)
		}
	}

	header := make([][]string, len(dataset.Columns))
	for i, c := range dataset.Columns {
		header[i] = []string{"<b>" + c + "</b>"}
	}

	return &Figure{
		Data: []Trace{{
			Type: "table",
			Header: &TableBlock{
				Values: header,
				Align:  "left",
				Fill:   &Fill{Color: "#00083e"},
				Font:   &Font{Color: "#ffffff", Size: 12},
			},
			Cells: &TableBlock{
				Values: cols,
				Align:  "left",
				Fill:   &Fill{Color: "#f2f2f2"},
			},
		}},
		Layout: Layout{
			Margin: &Margin{L: 0, R: 0, T: 10, B: 0},
			Height: 60 + 28*len(rows),
		},
	}
}
