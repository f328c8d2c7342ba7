package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rendezvous/internal/notification"
	"rendezvous/pkg/config"
	"rendezvous/pkg/kafka"
	kafkamw "rendezvous/pkg/kafka/middleware"
	"rendezvous/pkg/metrics"
)

const ServiceName = "rendezvous-notifier"

func main() {
	cfg := config.Load(ServiceName)
	if cfg.Kafka == nil || !cfg.Kafka.Enabled() {
		cfg.Log.Fatal("Kafka brokers must be configured to run the notifier")
	}
	if err := cfg.Kafka.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	dispatcher := notification.NewDispatcherFromConfig(cfg)
	consumer, err := kafka.NewConsumer(
		cfg.Kafka,
		cfg.Kafka.NotificationsTopic,
		cfg.Kafka.ConsumerGroup,
		cfg.Kafka.NotificationsDLQ,
		notification.NewKafkaHandler(dispatcher, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create consumer", "error", err)
	}
	consumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafkamw.MetricsConsumerMiddleware())

	metricsServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: metrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Metrics server failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier consuming",
		"topic", cfg.Kafka.NotificationsTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		cfg.Log.Error("Metrics server shutdown failed", "error", err)
	}
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
