package home

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/ui/features/common"
	"github.com/leapstack-labs/healthtrends/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	holder *dataset.Holder,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	opts common.Options,
) error {
	handlers := NewHandlers(holder, sessionStore, notify, opts)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	return nil
}
