// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topics for cross-component signals.
const (
	// TopicBallotSubmitted is raised after a ballot is enqueued so the
	// refresh loop picks up the new submission.
	TopicBallotSubmitted = "ballot.submitted"

	// TopicConnectivityRestored is raised when the UI reports regained
	// connectivity; the outbox flushes automatically on it.
	TopicConnectivityRestored = "connectivity.restored"
)

// Bus is the in-process broadcast bus for application signals. Every
// subscriber of a topic receives every message published on it.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// New creates a Bus backed by a Watermill gochannel Pub/Sub.
func New(logger *slog.Logger) *Bus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewSlogLogger(logger),
	)

	return &Bus{pubSub: pubSub, logger: logger}
}

// Publish broadcasts a signal on topic. Signals carry no payload; the topic
// itself is the message.
func (b *Bus) Publish(topic string) error {
	msg := message.NewMessage(watermill.NewUUID(), nil)
	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}

	b.logger.Debug("signal published", "topic", topic, "uuid", msg.UUID)
	return nil
}

// Subscribe returns a channel of messages for topic. The channel closes when
// ctx is cancelled. Each received message must be Acked.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	msgs, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	return msgs, nil
}

// Close shuts down the Pub/Sub and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
