package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clinicops/workflow-agent/internal/actions"
	"github.com/clinicops/workflow-agent/internal/agent"
	"github.com/clinicops/workflow-agent/internal/api"
	"github.com/clinicops/workflow-agent/internal/audit"
	appconfig "github.com/clinicops/workflow-agent/internal/config"
	"github.com/clinicops/workflow-agent/internal/observability/metrics"
	"github.com/clinicops/workflow-agent/internal/store"
	"github.com/clinicops/workflow-agent/pkg/logging"
)

func main() {
	// A missing .env is fine, configuration falls back to real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting workflow-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"dry_run", cfg.DryRun,
	)

	st := store.NewSeeded(store.SeedConfig{
		Seed:        cfg.SeedValue,
		HorizonDays: cfg.SlotHorizonDays,
		Start:       time.Now(),
	})
	recorder := audit.NewRecorder()
	registry := actions.NewRegistry(st, logger)

	promReg := prometheus.NewRegistry()
	agentMetrics := metrics.New(promReg)

	a := agent.New(registry, recorder, logger,
		agent.WithDryRun(cfg.DryRun),
		agent.WithMetrics(agentMetrics),
	)

	handler := api.NewHandler(a, st, recorder, logger)
	r := api.NewRouter(handler, logger, promReg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
