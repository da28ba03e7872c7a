package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-presence/internal/bootstrap"
	"go-presence/internal/config"
	"go-presence/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const auditGroupID = "go-presence-punch-audit"

// RunConsumer tails the punch topic into the audit log.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          cfg.Kafka.Topic,
		GroupID:        auditGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePunchRecorded(ctx, reader, bootstrap.NewStdoutAuditLogger(), logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
