package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-presence/internal/config"
	"go-presence/internal/journal"
	"go-presence/internal/messaging/kafka"
	"go-presence/internal/messaging/kafka/producer"
	"go-presence/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays journaled punches to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if !cfg.Database.Enabled() {
		return fmt.Errorf("DB_HOST and DB_NAME are required for the relay worker")
	}
	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(postgresConfig(cfg.Database), connectRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := journal.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, connectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewJournalOutbox(journal.NewRepository(gormDB), cfg.Kafka.Topic)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
