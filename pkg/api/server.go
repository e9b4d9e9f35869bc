// Package api serves the trace catalog over HTTP.
//
//	GET /metrics                Prometheus metrics
//	GET /api/v1/health
//	GET /api/v1/traces          ?network= &station= &location= &channel= &path= &limit=
//	GET /api/v1/traces/{id}
//	GET /api/v1/stats
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the API routes. gatherer backs the /metrics endpoint.
func NewRouter(server *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(server.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))
		r.Get("/traces", metrics.InstrumentHandler("GET", "/api/v1/traces", server.handleListTraces))
		r.Get("/traces/{id}", metrics.InstrumentHandler("GET", "/api/v1/traces/{id}", server.handleGetTrace))
		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", server.handleStats))
	})

	return r
}

// StartServer serves the catalog until ctx is done, then shuts down
// gracefully. Metrics are registered with a fresh registry that also
// carries the Go and process collectors.
func StartServer(ctx context.Context, store TraceStore, config ServerConfig, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := NewServer(store, config, NewMetrics(reg), logger)
	return Serve(ctx, server, NewRouter(server, reg))
}

// Serve runs handler on the server's address until ctx is done.
func Serve(ctx context.Context, server *Server, handler http.Handler) error {
	addr := fmt.Sprintf("%s:%d", server.config.Bind, server.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		server.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	server.logger.Info("stopped")
	return nil
}
