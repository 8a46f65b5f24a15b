// Package ui serves the health trends dashboard.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/healthtrends/internal/dataset"
	"github.com/leapstack-labs/healthtrends/internal/ui/features/common"
	"github.com/leapstack-labs/healthtrends/internal/ui/notifier"
	"github.com/leapstack-labs/healthtrends/internal/ui/router"
	"golang.org/x/sync/errgroup"
)

const reloadDebounce = 100 * time.Millisecond

// Server is the dashboard server.
type Server struct {
	holder       *dataset.Holder
	preparer     *dataset.Preparer
	sessionStore *sessions.FilesystemStore
	port         int
	watch        bool
	opts         common.Options
	logger       *slog.Logger
	notifier     *notifier.Notifier

	// reloadMu serializes Reload so a slower, older load never swaps in
	// after a newer one.
	reloadMu sync.Mutex
}

// Config holds configuration for the UI server.
type Config struct {
	// Holder serves the prepared table.
	Holder *dataset.Holder
	// Preparer rebuilds the table when a watched input changes.
	Preparer       *dataset.Preparer
	Port           int
	Watch          bool
	SessionSecret  string
	// SessionDir holds the server-side session files; empty means the
	// system temp dir.
	SessionDir     string
	PreviewRows    int
	DefaultCountry string
	Dev            bool
	Logger         *slog.Logger
}

// NewServer creates a new UI server instance. An empty SessionSecret gets a
// random one, so sessions last for the life of the process.
func NewServer(cfg Config) *Server {
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	sessionStore := sessions.NewFilesystemStore(cfg.SessionDir, []byte(secret))
	sessionStore.MaxAge(86400 * 30)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		holder:       cfg.Holder,
		preparer:     cfg.Preparer,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		opts: common.Options{
			PreviewRows:    cfg.PreviewRows,
			DefaultCountry: cfg.DefaultCountry,
			IsDev:          cfg.Dev,
		},
		logger:   logger,
		notifier: notifier.New(),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.holder, s.sessionStore, s.notifier, s.opts, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.preparer != nil {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Reload re-runs the preparer. On success the new table replaces the served
// one and SSE clients are notified; on failure the previous table stays.
func (s *Server) Reload(ctx context.Context) error {
	if s.preparer == nil {
		return errors.New("no preparer configured")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	table, err := s.preparer.Prepare(ctx)
	if err != nil {
		return err
	}
	s.holder.Swap(table)
	s.notifier.Broadcast()
	s.logger.Info("dataset reloaded", "rows", table.Len())
	return nil
}

// watchedFiles returns the input files a change to which triggers a reload.
func (s *Server) watchedFiles() []string {
	files := []string{filepath.Clean(s.preparer.MortalityPath())}
	if ref := s.preparer.ReferencePath(); ref != "" {
		files = append(files, filepath.Clean(ref))
	}
	return files
}

// watchFiles watches the input files and reloads the dataset when one is
// written. Directories are watched rather than files so editors that save
// by rename are noticed.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	files := s.watchedFiles()
	watched := make(map[string]bool, len(files))
	for _, f := range files {
		watched[f] = true
		dir := filepath.Dir(f)
		if err := watcher.Add(dir); err != nil {
			s.logger.Error("failed to watch directory", "dir", dir, "error", err)
		}
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("input changed, reloading", "file", name)
				if err := s.Reload(ctx); err != nil {
					s.logger.Error("reload failed, keeping previous dataset", "file", name, "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
