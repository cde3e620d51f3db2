package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/TalentFlow/internal/api"
	"github.com/soaringjerry/TalentFlow/internal/config"
	"github.com/soaringjerry/TalentFlow/internal/middleware"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func newHandler(cfg *config.Config, store api.Store) http.Handler {
	auth := middleware.NewAuthenticator(cfg.JWTSecret)
	mux := http.NewServeMux()
	api.NewRouter(store, auth).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"commit": commit, "build_time": buildTime})
	})

	var handler http.Handler = mux
	if cfg.Faults.Enabled {
		handler = middleware.Faults(middleware.FaultConfig{
			MinLatency:  cfg.Faults.MinLatency,
			MaxLatency:  cfg.Faults.MaxLatency,
			FailureRate: cfg.Faults.FailureRate,
			Methods:     []string{http.MethodPut, http.MethodPost},
		})(handler)
	}
	handler = middleware.CORS(cfg.CORSOrigins)(handler)
	handler = middleware.NoStore(handler)
	handler = middleware.SecureHeaders(handler)
	return handler
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	if cfg.JWTSecret == config.DevSecret {
		logger.Warn("using the development JWT secret; set TALENTFLOW_JWT_SECRET")
	}
	if cfg.Faults.Enabled {
		logger.Warn("fault injection enabled",
			"min_latency", cfg.Faults.MinLatency, "max_latency", cfg.Faults.MaxLatency, "failure_rate", cfg.Faults.FailureRate)
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.RequestLogger(logger)(newHandler(cfg, store)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("TalentFlow server listening", "addr", cfg.Addr, "storage", cfg.Storage)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
