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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/console/handler"
	"github.com/xela07ax/paulis-place/internal/console/server"
	"github.com/xela07ax/paulis-place/internal/console/service"
	"github.com/xela07ax/paulis-place/internal/events"
	"github.com/xela07ax/paulis-place/internal/infra"
	"github.com/xela07ax/paulis-place/internal/metrics"
	"github.com/xela07ax/paulis-place/internal/registry"
	"github.com/xela07ax/paulis-place/internal/store"
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

	// 1. Метрики
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	metricsSrv := metrics.Serve(cfg.Metrics.Addr, reg, logger)

	// 2. События флота: Redis, если задан адрес, иначе в никуда
	var pub events.Publisher = events.NopPublisher{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Недоступный Redis не мешает встречам: события просто не доедут
			logger.Warn("redis unreachable, fleet events will be dropped", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		pub = events.NewRedisPublisher(rdb)
	}
	dispatcher := events.NewDispatcher(pub, events.Options{
		BufferSize:    cfg.Events.BufferSize,
		BatchSize:     cfg.Events.BatchSize,
		FlushInterval: cfg.Events.FlushInterval,
	}, logger)
	dispatcher.Start()

	// 3. Слои (Dependency Injection)
	agents := registry.New()
	meetings := store.NewMeetingStore(agents)
	svc := service.NewMeetingService(meetings, agents, dispatcher, m, logger)

	api := server.NewMeetingRoomServer(logger, m,
		handler.NewDashboardHandler(svc),
		handler.NewAgentHandler(svc),
		handler.NewMeetingHandler(svc, logger),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 4. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("meeting room started",
			zap.String("addr", srv.Addr),
			zap.Int("agents", agents.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-stop
	logger.Info("shutting down meeting room")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(ctx)
	}
	// Дописываем накопленные события после остановки HTTP
	dispatcher.Stop()
	logger.Info("meeting room stopped")
}
