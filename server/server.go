// Package server serves the demo page, its assets and the page settings the
// browser build reads at startup.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/teranos/dolly"
	"github.com/teranos/dolly/views"
)

// Options configures the handler.
type Options struct {
	Page      views.DemoPage
	StaticDir string
	Timeout   time.Duration
	Logger    logrus.FieldLogger
}

// ConfigSource returns the current page configuration. It is called per
// request so reloaded settings are picked up.
type ConfigSource func() dolly.PageConfig

// Handler serves the demo page.
type Handler struct {
	opts   Options
	config ConfigSource
	log    logrus.FieldLogger
}

// New builds the router.
func New(opts Options, config ConfigSource) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	h := &Handler{opts: opts, config: config, log: opts.Logger.WithField("component", "server")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))

	if opts.StaticDir != "" {
		r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.Dir(opts.StaticDir))))
	}
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the page, config and health routes to r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/config.json", h.pageConfig)
	r.Get("/healthz", h.health)
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	render(w, r, views.Page(h.opts.Page))
}

func (h *Handler) pageConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(h.config()); err != nil {
		h.log.WithError(err).Warn("failed to encode page config")
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
