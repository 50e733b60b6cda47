// Package events publishes domain events about profiles and feed items.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

const (
	TopicProfileCreated  = "profile.created"
	TopicProfileUpdated  = "profile.updated"
	TopicProfileDeleted  = "profile.deleted"
	TopicFeedItemCreated = "feed.item.created"
)

// Publisher sends an event value, JSON encoded, to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
	Close() error
}

// KafkaPublisher wraps a kafka.Writer that routes messages by the topic set
// on each kafka.Message.
type KafkaPublisher struct {
	w *kafka.Writer
}

// NewKafkaPublisher creates an asynchronous writer for the given brokers.
// Delivery failures surface only in the log.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			Async:                  true,
			AllowAutoTopicCreation: true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					slog.Warn("event delivery failed", "messages", len(messages), "error", err)
				}
			},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", topic, err)
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: b,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error { return p.w.Close() }

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Close() error { return nil }
