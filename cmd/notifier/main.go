package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"castlehire/internal/notifier"
	"castlehire/pkg/client"
	"castlehire/pkg/config"
	"castlehire/pkg/kafka"
	kafka_config "castlehire/pkg/kafka/config"
	kafka_middleware "castlehire/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	if cfg.MailerBaseURL == "" {
		cfg.Log.Fatal("MAILER_BASE_URL must be set, the notifier cannot run without a mail service")
	}
	mailer := client.NewMailerClient(cfg.MailerBaseURL, cfg.MailerAPIKey, cfg.MailerFrom)

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	handler := notifier.New(mailer, cfg.PublicBaseURL, cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.BookingsTopic,
		kafkaCfg.ConsumerGroup,
		kafkaCfg.BookingsDLQTopic,
		handler.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.NewMetrics(ServiceName).MetricsConsumerMiddleware())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier consuming booking events",
		"topic", kafkaCfg.BookingsTopic,
		"group", kafkaCfg.ConsumerGroup,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier shut down cleanly")
}
