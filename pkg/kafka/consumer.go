package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler processes one decoded event. Returning an error triggers a retry.
type Handler func(ctx context.Context, event *Event) error

// handlerAttempts bounds retries per message; after that the offset is
// committed anyway so one poison message cannot wedge the partition.
const handlerAttempts = 3

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
}

// Consumer reads one topic within a consumer group and dispatches each
// message to a Handler.
type Consumer struct {
	reader    *kafka.Reader
	handler   Handler
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewConsumer creates a consumer; Start must be called to begin reading.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 << 20
	}

	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MinBytes: cfg.MinBytes,
			MaxBytes: cfg.MaxBytes,
		}),
		handler: handler,
		logger:  logger,
	}
}

// Start blocks consuming messages until ctx is canceled. Offsets are
// committed after handling, successful or not; only a fetch error leaves
// the offset untouched.
func (c *Consumer) Start(ctx context.Context) error {
	cfg := c.reader.Config()
	c.logger.Info("consumer started",
		slog.String("topic", cfg.Topic),
		slog.String("group", cfg.GroupID),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", cfg.Topic))
				return c.Close()
			}
			c.logger.Error("fetch message", slog.String("error", err.Error()))
			continue
		}

		if event, err := UnmarshalEvent(msg.Value); err != nil {
			c.logger.Error("drop undecodable message",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		} else if err := c.process(ctx, event); err != nil {
			c.logger.Error("handler exhausted retries, skipping message",
				slog.String("event_type", event.EventType),
				slog.String("aggregate_id", event.AggregateID),
				slog.String("topic", msg.Topic),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit message", slog.String("error", err.Error()))
		}
	}
}

func (c *Consumer) process(ctx context.Context, event *Event) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = c.handler(ctx, event)
		if err == nil || attempt >= handlerAttempts {
			return err
		}
		c.logger.Warn("handler failed, retrying",
			slog.String("event_type", event.EventType),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
}

// Close releases the underlying reader. Safe to call more than once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.reader.Close() })
	return err
}
