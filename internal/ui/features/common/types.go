// Package common provides shared types, layout components and session
// helpers for UI features.
package common

// Options configures how the views are rendered.
type Options struct {
	// PreviewRows is the number of rows in the table view.
	PreviewRows int
	// DefaultCountry is the life-expectancy series shown when the session
	// holds no selection.
	DefaultCountry string
	IsDev          bool
}

// NavLink is an entry of the top navigation bar.
type NavLink struct {
	Href  string
	Label string
}

// NavLinks lists the pages reachable from the navigation bar.
var NavLinks = []NavLink{
	{Href: "/", Label: "Dashboard"},
	{Href: "/lifeexp", Label: "Life expectancy"},
}
