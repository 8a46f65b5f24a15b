package lifeexp

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/healthtrends/internal/chart"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/ui/features/common"
	"github.com/starfederation/datastar-go/datastar"
)

// SectionID is the id of the life-expectancy section, on this page and on
// the dashboard.
const SectionID = "lifeexp"

// Handlers provides HTTP handlers for the life-expectancy feature.
type Handlers struct {
	holder       *dataset.Holder
	sessionStore sessions.Store
	opts         common.Options
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(holder *dataset.Holder, sessionStore sessions.Store, opts common.Options, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		holder:       holder,
		sessionStore: sessionStore,
		opts:         opts,
		logger:       logger,
	}
}

// Page renders the country selector and the life-expectancy chart.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	t := h.holder.Table()
	country := resolveCountry(t, common.SelectedCountry(r, h.sessionStore, h.opts.DefaultCountry))

	body := PageBody(t.Countries(), country, chart.LifeExpectancy(t, country))
	if err := common.Page("Life expectancy", "/lifeexp", h.opts.IsDev, body).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Select stores the chosen country in the session and patches the
// life-expectancy section over SSE.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	country, err := url.PathUnescape(chi.URLParam(r, "country"))
	if err != nil {
		http.Error(w, "invalid country", http.StatusBadRequest)
		return
	}

	t := h.holder.Table()
	if !t.HasCountry(country) {
		http.Error(w, "unknown country: "+country, http.StatusNotFound)
		return
	}

	// The session cookie must be set before NewSSE writes the headers.
	id, err := common.SaveCountry(w, r, h.sessionStore, country)
	if err != nil {
		h.logger.Error("failed to save session", "error", err)
	}
	h.logger.Debug("country selected", "session", id, "country", country)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Section(chart.LifeExpectancy(t, country))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// resolveCountry falls back to the first country when selected is absent
// from t, matching chart.LifeExpectancy.
func resolveCountry(t *dataset.Table, selected string) string {
	if t.HasCountry(selected) {
		return selected
	}
	if countries := t.Countries(); len(countries) > 0 {
		return countries[0]
	}
	return selected
}
