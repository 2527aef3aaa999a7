package kafkain

import (
	"context"
	"errors"
	"time"

	"return_app/internal/ports/outbound"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer delivers queued notifications through a MailSender. Mail is
// best effort: a failed send is logged and the message committed anyway.
type Consumer struct {
	reader messageReader
	mail   outbound.MailSender
	log    *zap.Logger
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

func NewConsumer(cfg ConsumerConfig, mail outbound.MailSender, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return &Consumer{reader: r, mail: mail, log: log.Named("kafka")}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Warn("fetch error", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(500 * time.Millisecond):
			}
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Warn("commit error", zap.Error(err), zap.Int64("offset", msg.Offset))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	n, err := DecodeNotification(msg.Value)
	if err != nil {
		c.log.Warn("bad message (skip+commit)", zap.ByteString("key", msg.Key), zap.Error(err))
		return
	}

	if err := c.mail.Send(ctx, n); err != nil {
		c.log.Warn("mail not sent",
			zap.String("request_id", n.RequestID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
		return
	}
	c.log.Debug("mail sent", zap.String("request_id", n.RequestID), zap.String("kind", string(n.Kind)))
}
