package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"rakta/internal/adapter/repo"
	"rakta/internal/http/handlers"
	"rakta/internal/infra"
	"rakta/internal/infra/credentials"
	"rakta/internal/notify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg, "worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	metrics := infra.NewMetrics()
	runner := infra.NewSQLRunner(pool, logger).
		WithObserver(metrics).
		WithSlowThreshold(cfg.SQLSlowThreshold)

	publisher, err := notify.NewMQTTPublisher(ctx, notify.MQTTConfig{
		Broker:   cfg.MQTTBroker,
		ClientID: "rakta-worker-" + uuid.NewString()[:8],
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
	})
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("worker: stopped before mqtt connected")
		return
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure mqtt")
	}
	defer publisher.Close()

	if cfg.WorkerMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", handlers.MetricsHandler(metrics.Registry))
		metricsServer := infra.NewHTTPServer(cfg.WorkerMetricsAddr, cfg, mux)
		go func() {
			if err := metricsServer.Run(ctx, cfg.HTTPIdleTimeout); err != nil {
				logger.Error().Err(err).Msg("worker: metrics server failed")
			}
		}()
	}

	worker := &notify.Worker{
		Requests:     repo.NewRequestRepository(runner),
		Users:        repo.NewUserRepository(runner),
		Publisher:    publisher,
		Recorder:     metrics,
		Logger:       logger,
		TopicPrefix:  cfg.MQTTTopicPrefix,
		PollInterval: cfg.WorkerPollInterval,
		Pruner:       credentials.NewStore(runner),
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
