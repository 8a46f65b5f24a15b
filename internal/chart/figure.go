// Package chart builds plotly.js figure specifications for the dashboard
// views. Figures are plain data; the browser renders them with Plotly.react.
package chart

import "encoding/json"

// Figure is a plotly figure: traces, layout and optional animation frames.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Frames []Frame `json:"frames,omitempty"`
}

// JSON encodes the figure.
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// Trace covers the fields used by the scatter, choropleth and table traces.
type Trace struct {
	Type          string      `json:"type"`
	Name          string      `json:"name,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	Visible       *bool       `json:"visible,omitempty"`
	ShowLegend    *bool       `json:"showlegend,omitempty"`
	LegendGroup   string      `json:"legendgroup,omitempty"`
	IDs           []string    `json:"ids,omitempty"`
	X             []float64   `json:"x,omitempty"`
	Y             []*float64  `json:"y,omitempty"`
	HoverText     []string    `json:"hovertext,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
	CustomData    []string    `json:"customdata,omitempty"`
	Marker        *Marker     `json:"marker,omitempty"`
	Locations     []string    `json:"locations,omitempty"`
	LocationMode  string      `json:"locationmode,omitempty"`
	Z             []*float64  `json:"z,omitempty"`
	ColorAxis     string      `json:"coloraxis,omitempty"`
	Geo           string      `json:"geo,omitempty"`
	Header        *TableBlock `json:"header,omitempty"`
	Cells         *TableBlock `json:"cells,omitempty"`
}

// Marker styles scatter points.
type Marker struct {
	Color    string    `json:"color,omitempty"`
	Size     []float64 `json:"size,omitempty"`
	SizeMode string    `json:"sizemode,omitempty"`
	SizeRef  float64   `json:"sizeref,omitempty"`
	Symbol   string    `json:"symbol,omitempty"`
}

// TableBlock is the header or cells block of a table trace. Values are
// column-major.
type TableBlock struct {
	Values [][]string `json:"values"`
	Align  string     `json:"align,omitempty"`
	Fill   *Fill      `json:"fill,omitempty"`
	Font   *Font      `json:"font,omitempty"`
}

// Fill is a background colour.
type Fill struct {
	Color string `json:"color"`
}

// Font styles text.
type Font struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

// Layout is the subset of plotly layout attributes the views use.
type Layout struct {
	Title       *Title       `json:"title,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
	Geo         *Geo         `json:"geo,omitempty"`
	ColorAxis   *ColorAxis   `json:"coloraxis,omitempty"`
	UpdateMenus []UpdateMenu `json:"updatemenus,omitempty"`
	Sliders     []Slider     `json:"sliders,omitempty"`
	Margin      *Margin      `json:"margin,omitempty"`
	Height      int          `json:"height,omitempty"`
}

// Title is a text title.
type Title struct {
	Text string `json:"text"`
}

// Axis configures a cartesian axis. For a log axis Range is in log10 units.
type Axis struct {
	Title *Title    `json:"title,omitempty"`
	Type  string    `json:"type,omitempty"`
	Range []float64 `json:"range,omitempty"`
}

// Legend configures the legend.
type Legend struct {
	Title         *Title `json:"title,omitempty"`
	TraceGroupGap int    `json:"tracegroupgap,omitempty"`
	ItemSizing    string `json:"itemsizing,omitempty"`
}

// Geo configures the map subplot.
type Geo struct {
	Projection     Projection `json:"projection"`
	ShowFrame      bool       `json:"showframe"`
	ShowCoastlines bool       `json:"showcoastlines"`
}

// Projection names a geo projection.
type Projection struct {
	Type string `json:"type"`
}

// ColorAxis is a shared continuous colour scale.
type ColorAxis struct {
	ColorScale [][2]any  `json:"colorscale"`
	CMin       float64   `json:"cmin"`
	CMax       float64   `json:"cmax"`
	ColorBar   *ColorBar `json:"colorbar,omitempty"`
}

// ColorBar labels a colour axis.
type ColorBar struct {
	Title *Title `json:"title,omitempty"`
}

// UpdateMenu is a dropdown or button row.
type UpdateMenu struct {
	Type       string         `json:"type,omitempty"`
	Direction  string         `json:"direction,omitempty"`
	Active     int            `json:"active"`
	ShowActive bool           `json:"showactive"`
	Buttons    []Button       `json:"buttons"`
	Pad        map[string]int `json:"pad,omitempty"`
	X          float64        `json:"x"`
	XAnchor    string         `json:"xanchor,omitempty"`
	Y          float64        `json:"y"`
	YAnchor    string         `json:"yanchor,omitempty"`
}

// Button is one entry of an UpdateMenu. Args are passed to the plotly method.
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Slider steps through animation frames.
type Slider struct {
	Active       int            `json:"active"`
	CurrentValue *CurrentValue  `json:"currentvalue,omitempty"`
	Pad          map[string]int `json:"pad,omitempty"`
	Len          float64        `json:"len,omitempty"`
	X            float64        `json:"x"`
	XAnchor      string         `json:"xanchor,omitempty"`
	Y            float64        `json:"y"`
	YAnchor      string         `json:"yanchor,omitempty"`
	Steps        []SliderStep   `json:"steps"`
}

// CurrentValue prefixes the slider's displayed value.
type CurrentValue struct {
	Prefix string `json:"prefix"`
}

// SliderStep selects one frame.
type SliderStep struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Margin sets plot margins in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Frame is one animation step.
type Frame struct {
	Name string  `json:"name"`
	Data []Trace `json:"data"`
}

func boolPtr(b bool) *bool { return &b }
