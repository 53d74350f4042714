// Package httpapi serves generation over HTTP.
//
// Every POST route takes the raw sample document as the request body and
// reads options from the query string:
//
//	curl -H 'Content-Type: application/json' --data-binary @order.json \
//	  'localhost:8080/v1/generate?name=Order&target=go&package=orders'
//
// The body's Content-Type selects the decoder; when it is missing or
// generic the body is sniffed.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni"

	"github.com/usestring/jsontypegen/internal/cache"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// Config configures a Server.
type Config struct {
	// Defaults apply to every request before query overrides.
	Defaults     typegen.Options
	MaxBodyBytes int64
}

// Server is the HTTP API.
type Server struct {
	cfg      Config
	cache    *cache.ResultCache
	registry *prometheus.Registry
	metrics  *metrics
	handler  http.Handler
}

// New builds the server and its routes. A nil cache disables caching.
func New(cfg Config, c *cache.ResultCache) (*Server, error) {
	if c == nil {
		var err error
		if c, err = cache.New(0); err != nil {
			return nil, err
		}
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}

	s := &Server{cfg: cfg, cache: c, registry: prometheus.NewRegistry()}
	s.metrics = newMetrics(s.registry, c)

	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.metrics.middleware)

	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodPost)
	api.HandleFunc("/check", s.handleCheck).Methods(http.MethodPost)
	api.HandleFunc("/targets", s.handleTargets).Methods(http.MethodGet)

	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	recovery := negroni.NewRecovery()
	recovery.PrintStack = false

	n := negroni.New(recovery, negroni.HandlerFunc(logRequests))
	n.UseHandler(router)
	s.handler = n
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http api listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http api: %w", err)
		}
		return nil
	}
}

// logRequests logs one line per request after it completes.
func logRequests(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	ww, ok := rw.(negroni.ResponseWriter)
	if !ok {
		ww = negroni.NewResponseWriter(rw)
	}
	next(ww, r)

	level := slog.LevelInfo
	if ww.Status() >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.LogAttrs(r.Context(), level, "http request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", ww.Status()),
		slog.Int("bytes", ww.Size()),
		slog.Duration("duration", time.Since(start)),
	)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
