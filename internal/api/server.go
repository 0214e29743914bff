// Package api implements the figlint audit service.
//
// The service exposes the audit pipeline over HTTP:
//
//	POST   /v1/audit        audit a scene dump against a journal standard
//	POST   /v1/fix          audit and apply automated fixes
//	GET    /v1/standards    list the registered journal standards
//	GET    /v1/reports      list archived reports
//	GET    /v1/reports/{id} fetch an archived report
//	DELETE /v1/reports/{id} remove an archived report
//	GET    /healthz         liveness probe
//
// Requests and responses are JSON. Errors carry the machine-readable
// code from pkg/errors in the body, mapped to an HTTP status.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sciviz/figlint/pkg/cache"
	"github.com/sciviz/figlint/pkg/pipeline"
	"github.com/sciviz/figlint/pkg/standards"
	"github.com/sciviz/figlint/pkg/store"
)

// Server wires the pipeline, report archive, and HTTP routing.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates a server around an existing runner and store.
// A nil store disables report archival endpoints' persistence and
// falls back to an in-memory archive.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// BuildServer constructs a server from configuration: cache backend,
// report archive, and user standards file.
func BuildServer(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	var c cache.Cache
	var err error
	switch {
	case cfg.RedisURL != "":
		c, err = cache.NewRedisCacheFromURL(ctx, cfg.RedisURL)
	case cfg.CacheDir != "":
		c, err = cache.NewFileCache(cfg.CacheDir)
	default:
		c = cache.NewNullCache()
	}
	if err != nil {
		return nil, err
	}

	var st store.Store
	if cfg.MongoURI != "" {
		st, err = store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
	} else {
		st = store.NewMemoryStore()
	}

	if cfg.StandardsFile != "" {
		n, err := standards.LoadFile(cfg.StandardsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded user standards", "file", cfg.StandardsFile, "count", n)
	}

	return NewServer(pipeline.NewRunner(c, nil, logger), st, logger), nil
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/audit", s.handleAudit)
		r.Post("/fix", s.handleFix)
		r.Get("/standards", s.handleStandards)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Delete("/reports/{id}", s.handleDeleteReport)
	})

	return r
}

// ListenAndServe runs the HTTP server until the context is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("audit service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the server's backends.
func (s *Server) Close(ctx context.Context) error {
	err := s.runner.Close()
	if serr := s.store.Close(ctx); serr != nil && err == nil {
		err = serr
	}
	return err
}
