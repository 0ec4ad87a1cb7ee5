package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/gateway/httpclient"
)

const (
	defaultHandlerAttempts = 5
	defaultHandlerBackoff  = 500 * time.Millisecond
)

// messageReader is the part of kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader          messageReader
	handlerAttempts int
	handlerBackoff  time.Duration
}

type EventHandler func(ctx context.Context, event models.Event) error

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{
		reader:          reader,
		handlerAttempts: defaultHandlerAttempts,
		handlerBackoff:  defaultHandlerBackoff,
	}
}

// Consume blocks until ctx is cancelled or a handler keeps failing.
// Offsets are committed in order, so a message is never committed past: a
// handler failure is retried with backoff and, if it persists, Consume
// returns the error with the message uncommitted. A restart resumes from it.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			logger.Log.WithError(err).Error("Failed to fetch message")
			continue
		}

		event, err := DecodeEvent(message.Value)
		if err != nil {
			logger.Log.WithError(err).WithField("offset", message.Offset).Error("Failed to unmarshal event")
			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Log.WithError(err).Error("Failed to commit message")
			}
			continue
		}

		log := logger.Log.WithFields(logrus.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"offset":     message.Offset,
		})
		err = httpclient.Retry(ctx, c.handlerAttempts, c.handlerBackoff, func() error {
			if err := handler(ctx, event); err != nil {
				log.WithError(err).Warn("Event handler failed")
				return err
			}
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Error("Failed to process event")
			return fmt.Errorf("process event %s at offset %d: %w", event.ID, message.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			logger.Log.WithError(err).Error("Failed to commit message")
		}
	}
}

func DecodeEvent(value []byte) (models.Event, error) {
	var event models.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
