package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the channel cart change notifications travel on.
const DefaultChannel = "cafeCart:changes"

// Operation names carried in change notifications.
const (
	OpUpdated = "cart.updated"
	OpCleared = "cart.cleared"
)

// Notification is the message published after every cart persist. Origin
// identifies the mutating context so receivers can tell their own writes
// apart from foreign ones.
type Notification struct {
	Origin    string `json:"origin"`
	Op        string `json:"op"`
	ItemCount int    `json:"itemCount"`
}

// Broadcaster publishes and subscribes to cart change notifications over a
// Redis pub/sub channel. It is the cross-context analog of the browser
// storage event: every open context of the site observes every change.
type Broadcaster struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewBroadcaster creates a broadcaster on the given channel. An empty
// channel name falls back to DefaultChannel.
func NewBroadcaster(client *redis.Client, channel string, logger *slog.Logger) *Broadcaster {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Broadcaster{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Channel returns the pub/sub channel name in use.
func (b *Broadcaster) Channel() string {
	return b.channel
}

// Publish sends a change notification to every subscribed context,
// including the publisher's own listener.
func (b *Broadcaster) Publish(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %q: %w", b.channel, err)
	}

	b.logger.Debug("published cart change",
		slog.String("op", n.Op),
		slog.String("origin", n.Origin),
		slog.Int("item_count", n.ItemCount),
	)

	return nil
}

// Subscribe starts a goroutine delivering every notification on the channel
// to handler, in arrival order. It returns once the subscription is
// confirmed, so changes published afterwards are never missed. The returned
// stop function cancels the subscription and waits for the delivery
// goroutine to drain.
func (b *Broadcaster) Subscribe(ctx context.Context, handler func(Notification)) (stop func(), err error) {
	sub := b.client.Subscribe(ctx, b.channel)

	// Receive the subscription confirmation before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to %q: %w", b.channel, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.Channel() {
			var n Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				b.logger.Warn("dropping malformed change notification",
					slog.String("payload", msg.Payload),
					slog.String("error", err.Error()),
				)
				continue
			}
			handler(n)
		}
	}()

	return func() {
		_ = sub.Close()
		<-done
	}, nil
}
