// Package server exposes the report over HTTP.
//
// Routes:
//
//	GET /report?placeholders=false&experimental=true  plain-text report
//	GET /healthz                                      "ok"
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/doughall/devinfo/internal/report"
	"github.com/doughall/devinfo/internal/sysinfo"
)

// DefaultShutdownTimeout bounds how long Shutdown waits for open requests.
const DefaultShutdownTimeout = 10 * time.Second

// Reporter produces a rendered report. *sysinfo.Refresher implements it.
type Reporter interface {
	Tree(ctx context.Context, opts sysinfo.Options) *report.Node
}

// Config holds the server address and the report defaults used when a
// request does not override them.
type Config struct {
	Addr             string
	ShowPlaceholders bool
	Experimental     bool
}

// Server serves reports over HTTP.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	reporter Reporter
	cfg      Config
	logger   *slog.Logger
}

// New builds the router and HTTP server.
func New(cfg Config, reporter Reporter, logger *slog.Logger) *Server {
	s := &Server{
		reporter: reporter,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "server")),
	}

	router := chi.NewRouter()
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.healthz)
	router.Get("/report", s.report)

	s.router = router
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until Shutdown is called. It returns nil after a
// clean shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting server", slog.String("addr", s.server.Addr))
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gives outstanding requests until ctx expires, then closes.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown initiated")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		return s.server.Close()
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	placeholders, err := boolParam(r, "placeholders", s.cfg.ShowPlaceholders)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	experimental, err := boolParam(r, "experimental", s.cfg.Experimental)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tree := s.reporter.Tree(r.Context(), sysinfo.Options{Experimental: experimental})
	var buf bytes.Buffer
	if err := report.WriteText(&buf, tree, report.RenderOptions{HidePlaceholders: !placeholders}); err != nil {
		s.logger.Error("render report", slog.String("error", err.Error()))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return v, nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			logger.Debug("request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("remote_ip", req.RemoteAddr),
				slog.Int("status", ww.Status()),
				slog.Duration("took", time.Since(start)),
			)
		})
	}
}
