// Package server is the HTTP page shell around the editor. Every page view
// owns one editor held in a Store; the HTML page posts actions back with
// plain forms and a JSON API exposes the same operations.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/sirupsen/logrus"

	"github.com/saurabhkr66/jsonbuilder/pkg/projection"
	"github.com/saurabhkr66/jsonbuilder/pkg/render"
	"github.com/saurabhkr66/jsonbuilder/pkg/renderers/text"
	"github.com/saurabhkr66/jsonbuilder/pkg/renderers/vanilla"
)

// Server wires the session store, renderers and routes.
type Server struct {
	store    *Store
	registry *render.Registry
	logger   logrus.FieldLogger
	theme    *theme.RendererConfig
	format   projection.Format
	indent   int
	title    string
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithStore supplies the session store.
func WithStore(store *Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRegistry supplies the renderers; the registry default draws GET /.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithLogger sets the request and error logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTheme applies theme tokens and asset URLs to rendered pages.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithPreview sets the default preview format and indentation.
func WithPreview(format projection.Format, indent int) Option {
	return func(s *Server) {
		if format != "" {
			s.format = format
		}
		s.indent = indent
	}
}

// WithTitle sets the page heading.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = strings.TrimSpace(title)
	}
}

// New builds a server. Without WithRegistry it registers the vanilla HTML
// renderer (default) and the text renderer.
func New(options ...Option) (*Server, error) {
	s := &Server{
		format: projection.FormatJSON,
		indent: projection.DefaultIndent,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.store == nil {
		s.store = NewStore()
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if s.registry == nil {
		registry, err := DefaultRegistry()
		if err != nil {
			return nil, err
		}
		s.registry = registry
	}

	s.mux = http.NewServeMux()
	s.routes()
	return s, nil
}

// DefaultRegistry returns a registry holding the vanilla renderer (default)
// and the text renderer.
func DefaultRegistry(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("server: vanilla renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(text.New()); err != nil {
		return nil, err
	}
	return registry, nil
}

// Store exposes the session store.
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return requestLogger(s.logger, s.mux)
}

// Serve accepts connections on listener until ctx is cancelled, then shuts
// down, giving in-flight requests up to grace to finish. Expired sessions are
// swept in the background.
func (s *Server) Serve(ctx context.Context, listener net.Listener, grace time.Duration) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	go s.sweep(ctx, time.Minute)

	select {
	case err := <-errChan:
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	s.logger.WithField("addr", listener.Addr().String()).Info("listening")
	return s.Serve(ctx, listener, grace)
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.store.Sweep(); removed > 0 {
				s.logger.WithField("removed", removed).Debug("expired sessions swept")
			}
		}
	}
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handlePage)
	s.mux.HandleFunc("POST /actions", s.handleFormAction)
	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	s.mux.HandleFunc("POST /api/sessions/{id}/actions", s.handleAPIAction)
	s.mux.HandleFunc("GET /api/sessions/{id}/preview", s.handlePreview)
	s.mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
