package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/lndroit/streamlens/internal/config"
)

// Consumer streams raw record payloads from a Kafka topic into the pipeline.
// Offsets are committed only after a payload has been handed downstream, so
// a crash replays records into the window rather than dropping them.
type Consumer struct {
	reader *kafka.Reader
	output chan<- []byte
	logger *zap.Logger
}

func NewConsumer(cfg config.KafkaConfig, output chan<- []byte, logger *zap.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		return nil, ErrInvalidKafkaConfig
	}

	sugar := logger.Named("kafka").Sugar()
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
		// The window tracks a live stream, so favor latency over batching:
		// hand over single records instead of waiting for full fetches.
		MinBytes:    1,
		MaxBytes:    1 << 20,
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafka.LastOffset,
		Logger:      kafka.LoggerFunc(sugar.Debugf),
		ErrorLogger: kafka.LoggerFunc(sugar.Errorf),
	})

	logger.Info("Kafka consumer ready",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("group_id", cfg.GroupID),
	)

	return &Consumer{reader: reader, output: output, logger: logger}, nil
}

// Run fetches records until the context ends or the reader fails. Fetch
// errors are terminal; commit errors are not, since replaying an already
// pushed record only re-slides the window.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("Closing Kafka reader failed", zap.Error(err))
		}
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return context.Canceled
			}
			return fmt.Errorf("%w: %w", ErrKafkaFetchFailed, err)
		}

		select {
		case c.output <- msg.Value:
		case <-ctx.Done():
			return context.Canceled
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return context.Canceled
			}
			c.logger.Warn("Committing Kafka offset failed",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}
