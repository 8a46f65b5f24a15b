package chart

import "strconv"

const frameDuration = 500

// animationControls returns the play/pause buttons and the year slider shared
// by the animated views. redraw must be true for geo traces.
func animationControls(years []int, redraw bool) ([]UpdateMenu, []Slider) {
	play := Button{
		Label:  "&#9654;",
		Method: "animate",
		Args: []any{nil, map[string]any{
			"frame":       map[string]any{"duration": frameDuration, "redraw": redraw},
			"mode":        "immediate",
			"fromcurrent": true,
			"transition":  map[string]any{"duration": frameDuration, "easing": "linear"},
		}},
	}
	pause := Button{
		Label:  "&#9724;",
		Method: "animate",
		Args: []any{[]any{nil}, map[string]any{
			"frame":       map[string]any{"duration": 0, "redraw": redraw},
			"mode":        "immediate",
			"fromcurrent": true,
			"transition":  map[string]any{"duration": 0, "easing": "linear"},
		}},
	}

	menus := []UpdateMenu{{
		Type:      "buttons",
		Direction: "left",
		Buttons:   []Button{play, pause},
		Pad:       map[string]int{"r": 10, "t": 70},
		X:         0.1,
		XAnchor:   "right",
		Y:         0,
		YAnchor:   "top",
	}}

	steps := make([]SliderStep, 0, len(years))
	for _, y := range years {
		name := strconv.Itoa(y)
		steps = append(steps, SliderStep{
			Label:  name,
			Method: "animate",
			Args: []any{[]string{name}, map[string]any{
				"frame":       map[string]any{"duration": 0, "redraw": redraw},
				"mode":        "immediate",
				"fromcurrent": true,
				"transition":  map[string]any{"duration": 0, "easing": "linear"},
			}},
		})
	}

	sliders := []Slider{{
		Active:       0,
		CurrentValue: &CurrentValue{Prefix: "year="},
		Pad:          map[string]int{"b": 10, "t": 60},
		Len:          0.9,
		X:            0.1,
		XAnchor:      "left",
		Y:            0,
		YAnchor:      "top",
		Steps:        steps,
	}}

	return menus, sliders
}
