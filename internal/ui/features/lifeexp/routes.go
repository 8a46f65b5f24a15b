// Package lifeexp provides the life-expectancy page and the country
// selection endpoint.
package lifeexp

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/ui/features/common"
)

// SetupRoutes configures routes for the life-expectancy feature.
func SetupRoutes(
	router chi.Router,
	holder *dataset.Holder,
	sessionStore sessions.Store,
	opts common.Options,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(holder, sessionStore, opts, logger)

	router.Route("/lifeexp", func(r chi.Router) {
		r.Get("/", handlers.Page)
		r.Get("/select/{country}", handlers.Select)
	})

	return nil
}
