package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	newReader := func(topic string) *kafkago.Reader {
		return kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{kafkaBroker},
			Topic:          topic,
			GroupID:        "go-leave-notifications",
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
	}

	statusReader := newReader(events.LeaveStatusChangedTopic)
	defer statusReader.Close()
	interruptionReader := newReader(events.LeaveInterruptionAppliedTopic)
	defer interruptionReader.Close()
	overlapReader := newReader(events.LeaveOverlapDetectedTopic)
	defer overlapReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveStatusChanges(ctx, statusReader, logger)
	go consumer.ConsumeLeaveInterruptions(ctx, interruptionReader, logger)
	go consumer.ConsumeLeaveOverlaps(ctx, overlapReader, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
