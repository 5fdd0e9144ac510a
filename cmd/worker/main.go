package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/bustrip/config"
	"github.com/Domenick1991/bustrip/internal/kafka"
	"github.com/Domenick1991/bustrip/internal/logger"
	"github.com/Domenick1991/bustrip/internal/notify"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := config.LoadEnv(os.Getenv("ENV_FILE")); err != nil {
		logrus.Fatalf("load env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log)

	if !cfg.Kafka.Enabled {
		log.Fatal("worker needs kafka: set kafka.enabled or KAFKA_BROKERS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, log)
	defer consumer.Close()

	sender := notify.NewSender(log)

	log.WithField("topic", cfg.Kafka.BookingEventsTopic).Info("notification worker started")
	if err := consumer.Consume(ctx, sender.Send); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("consumer stopped")
		return
	}
	log.Info("notification worker stopped")
}
