// Package consumer provides Kafka consumer functionality for the
// alert.changed topic.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"stock-alerts/internal/events"
)

const (
	readTimeout    = 10 * time.Second
	commitInterval = time.Second
)

// Consumer wraps a Kafka reader and provides a simple interface for
// consuming alert change events.
type Consumer struct {
	reader *kafka.Reader
	topic  string
}

// NewConsumer creates a new Kafka consumer with the specified brokers,
// topic, and group ID. The consumer is configured for at-least-once
// delivery semantics; callers must tolerate redelivery.
func NewConsumer(brokers string, topic string, groupID string) (*Consumer, error) {
	if brokers == "" {
		return nil, fmt.Errorf("brokers cannot be empty")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("groupID cannot be empty")
	}

	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	slog.Info("Initializing Kafka consumer",
		"brokers", brokerList,
		"topic", topic,
		"group_id", groupID,
	)

	// StartOffset only applies when no committed offset exists for the
	// consumer group.
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokerList,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        readTimeout,
		CommitInterval: commitInterval,
		StartOffset:    kafka.LastOffset,
	})

	return &Consumer{
		reader: reader,
		topic:  topic,
	}, nil
}

// ReadChange reads the next message from Kafka and deserializes it as an
// AlertChange. Returns an error if reading or deserialization fails.
func (c *Consumer) ReadChange(ctx context.Context) (*events.AlertChange, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read message from Kafka: %w", err)
	}

	var change events.AlertChange
	if err := json.Unmarshal(msg.Value, &change); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert change: %w", err)
	}

	return &change, nil
}

// Run reads change events and forwards them to ch until the context is
// cancelled. Malformed payloads are logged and skipped; the channel is
// closed on return.
func (c *Consumer) Run(ctx context.Context, ch chan<- events.AlertChange) {
	defer close(ch)
	for {
		change, err := c.ReadChange(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			slog.Error("Failed to read alert change", "topic", c.topic, "error", err)
			continue
		}
		select {
		case ch <- *change:
		case <-ctx.Done():
			return
		}
	}
}

// Close gracefully closes the Kafka reader and releases resources.
func (c *Consumer) Close() error {
	slog.Info("Closing Kafka consumer", "topic", c.topic)
	if err := c.reader.Close(); err != nil {
		slog.Error("Error closing Kafka consumer", "error", err)
		return err
	}
	return nil
}
