package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Config struct {
	Brokers        []string
	Topic          string
	GroupID        string
	MinBytes       int           // default 1KB
	MaxBytes       int           // default 10MB
	CommitInterval time.Duration // default 1s (0 = sync each msg)
	MaxWait        time.Duration // default 250ms
	FromOldest     bool          // new groups start at the first offset instead of the last
	Logger         *zap.Logger   // reader errors; nil = silent
}

type Message = kafka.Message

// Source is what the workers read from; *Consumer implements it.
type Source interface {
	Fetch(ctx context.Context) (Message, error)
	Commit(ctx context.Context, m Message) error
	Close() error
}

// Consumer is a thin wrapper around segmentio/kafka-go Reader.
type Consumer struct {
	r *kafka.Reader
}

var _ Source = (*Consumer)(nil)

func NewConsumerFromConfig(c Config) *Consumer {
	return &Consumer{r: kafka.NewReader(readerConfig(c))}
}

func readerConfig(c Config) kafka.ReaderConfig {
	min := c.MinBytes
	if min <= 0 {
		min = 1 << 10 // 1KB
	}
	max := c.MaxBytes
	if max <= 0 {
		max = 10 << 20 // 10MB
	}
	ci := c.CommitInterval
	if ci <= 0 {
		ci = time.Second
	}
	mw := c.MaxWait
	if mw <= 0 {
		mw = 250 * time.Millisecond
	}

	start := kafka.LastOffset
	if c.FromOldest {
		start = kafka.FirstOffset
	}

	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MinBytes:       min,
		MaxBytes:       max,
		CommitInterval: ci,
		MaxWait:        mw,
		StartOffset:    start,
	}
	if c.Logger != nil {
		sl := c.Logger.Sugar()
		rc.ErrorLogger = kafka.LoggerFunc(func(msg string, args ...any) { sl.Errorf(msg, args...) })
	}
	return rc
}

func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	return c.r.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m Message) error {
	return c.r.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.r.Close() }
