// Package server exposes the rendering pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                  build info
//	GET  /presets                  preset names, descriptions and markup
//	GET  /render.svg               render from query parameters
//	POST /render                   render a JSON scene, store the artifacts
//	GET  /artifacts/{id}/{format}  fetch a stored artifact
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/observability"
	"github.com/matzehuels/tessera/pkg/pipeline"
)

// Server serves rendering requests.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// New creates a server backed by store. The store holds both the
// content-addressed render cache and the artifacts uploaded under ids.
func New(cfg Config, store cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if store == nil {
		store = cache.NewNullCache()
	}
	keyer := cache.NewScopedKeyer(nil, cfg.KeyPrefix)
	return &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(store, keyer, logger),
		store:  store,
		keyer:  keyer,
		logger: logger,
	}
}

// OpenCache returns a Redis cache when RedisAddr is set and a file cache
// under CacheDir otherwise.
func OpenCache(ctx context.Context, cfg Config) (cache.Cache, string, error) {
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return c, "redis " + cfg.RedisAddr, err
	}
	c, err := cache.NewFileCache(cfg.CacheDir)
	return c, "file " + cfg.CacheDir, err
}

// Router builds the chi router with middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/presets", s.handlePresets)
	r.Get("/render.svg", s.handleRenderQuery)
	r.Post("/render", s.handleRender)
	r.Get("/artifacts/{id}/{format}", s.handleArtifact)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request and reports it to the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
