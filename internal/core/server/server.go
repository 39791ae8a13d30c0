package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/spatial-index/internal/core/config"
	middleware "github.com/mohammed-shakir/spatial-index/internal/core/middleware"
	"github.com/mohammed-shakir/spatial-index/internal/core/router"
	"github.com/mohammed-shakir/spatial-index/internal/health"
	"github.com/mohammed-shakir/spatial-index/internal/metrics"
)

// NewHandler assembles the middleware chain, probes, metrics and API routes.
func NewHandler(logger *slog.Logger, api *router.API, probe health.Probe, mp *metrics.Provider) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(probe))
	if mp != nil {
		r.Method(http.MethodGet, mp.Path(), mp.Handler())
	}
	api.Mount(r)
	return r
}

// Run serves until ctx is done, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, h http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.QueryTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
