// Package home provides the dashboard page: the four views over the merged
// dataset, kept current over SSE.
package home

import (
	"fmt"

	"github.com/leapstack-labs/healthtrends/internal/chart"
	"github.com/leapstack-labs/healthtrends/internal/ui/features/lifeexp"
)

// Section ids of the dashboard.
const (
	DashboardID  = "dashboard"
	TableID      = "table-view"
	LifeExpID    = lifeexp.SectionID
	ScatterID    = "scatter"
	ChoroplethID = "choropleth"
)

// DashboardView holds the figures rendered on the dashboard.
type DashboardView struct {
	Rows       int
	Countries  int
	Years      []int
	Table      *chart.Figure
	LifeExp    *chart.Figure
	Scatter    *chart.Figure
	Choropleth *chart.Figure
}

// Summary describes the table size and year span, e.g.
// "180 rows, 15 countries, 1952-2007".
func (v DashboardView) Summary() string {
	span := "no years"
	if n := len(v.Years); n > 0 {
		span = fmt.Sprintf("%d-%d", v.Years[0], v.Years[n-1])
	}
	return fmt.Sprintf("%d rows, %d countries, %s", v.Rows, v.Countries, span)
}
