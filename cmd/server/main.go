package main

import (
	"context"
	"errors"
	"fuel-route-service/internal/api"
	"fuel-route-service/internal/app"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/platform/obs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// main is the application composition root.
// It wires Postgres, ORS and the optional Redis result cache behind ports and starts the HTTP server.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := obs.NewLogger(cfg.Env, os.Stdout)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	stack, err := app.Build(ctx, cfg, logger, reg)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer stack.Close()

	router := api.NewRouter(api.RouterDeps{
		Planner:  stack.Planner,
		DB:       stack.Pool,
		Gatherer: reg,
		Metrics:  stack.Metrics,
		Logger:   logger,
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "Server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received. Stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
		return
	}

	logger.Info("Server stopped gracefully.")
}
