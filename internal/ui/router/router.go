// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/ui/features/common"
	homeFeature "github.com/leapstack-labs/healthtrends/internal/ui/features/home"
	lifeexpFeature "github.com/leapstack-labs/healthtrends/internal/ui/features/lifeexp"
	"github.com/leapstack-labs/healthtrends/internal/ui/notifier"
	"github.com/leapstack-labs/healthtrends/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	holder *dataset.Holder,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	opts common.Options,
	logger *slog.Logger,
) error {
	if opts.IsDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	if err := homeFeature.SetupRoutes(router, holder, sessionStore, notify, opts); err != nil {
		return err
	}

	if err := lifeexpFeature.SetupRoutes(router, holder, sessionStore, opts, logger); err != nil {
		return err
	}

	return nil
}

// setupReload serves /reload, which reloads the page once per server
// process and again after each /hotreload ping.
func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
