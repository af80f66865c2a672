package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/bridge"
	"github.com/xela07ax/paulis-place/internal/console/server"
	"github.com/xela07ax/paulis-place/internal/infra"
	"github.com/xela07ax/paulis-place/internal/metrics"
)

func main() {
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	metricsSrv := metrics.Serve(cfg.Metrics.Addr, reg, logger)

	client := bridge.NewClient(cfg.Bridge, m, logger)

	// Upstream может подняться позже: проба только пишет в лог
	probeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	_ = client.Probe(probeCtx, cfg.Bridge.ProbeAttempts)
	cancel()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(server.AccessLog(logger.Named("bridge-api")))
	r.Use(m.Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Mount("/meeting", bridge.NewHandler(client, logger).Routes())

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("meeting bridge started",
			zap.String("addr", srv.Addr),
			zap.String("upstream", client.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(ctx)
	}
	logger.Info("meeting bridge stopped")
}
