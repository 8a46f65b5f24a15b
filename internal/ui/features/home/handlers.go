package home

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/healthtrends/internal/chart"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/ui/features/common"
	"github.com/leapstack-labs/healthtrends/internal/ui/notifier"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	holder       *dataset.Holder
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	opts         common.Options
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(holder *dataset.Holder, sessionStore sessions.Store, notify *notifier.Notifier, opts common.Options) *Handlers {
	return &Handlers{
		holder:       holder,
		sessionStore: sessionStore,
		notifier:     notify,
		opts:         opts,
	}
}

// HomePage renders the dashboard with every view. It starts a session so
// the /updates stream can follow later selections.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	// Without a session the dashboard still renders with the default country.
	_, _ = common.EnsureSession(w, r, h.sessionStore)

	country := common.SelectedCountry(r, h.sessionStore, h.opts.DefaultCountry)
	view := BuildDashboard(h.holder.Table(), h.opts.PreviewRows, country)

	if err := common.Page("Dashboard", "/", h.opts.IsDev, LivePage(view)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the dashboard. It sends
// nothing initially; each broadcast re-patches #dashboard from the current
// table and the session's current selection.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			country := common.SelectedCountry(r, h.sessionStore, h.opts.DefaultCountry)
			view := BuildDashboard(h.holder.Table(), h.opts.PreviewRows, country)
			if err := sse.PatchElementTempl(Dashboard(view)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// BuildDashboard assembles the four figures from t.
func BuildDashboard(t *dataset.Table, previewRows int, country string) DashboardView {
	return DashboardView{
		Rows:       t.Len(),
		Countries:  len(t.Countries()),
		Years:      t.Years(),
		Table:      chart.Table(t, previewRows),
		LifeExp:    chart.LifeExpectancy(t, country),
		Scatter:    chart.Scatter(t),
		Choropleth: chart.Choropleth(t),
	}
}
