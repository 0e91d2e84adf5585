package events

import (
	"context"
	"encoding/json"
	"fmt"

	"strmly/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisBroker struct {
	Client *goredis.Client
	log    *logger.Logger
}

func NewRedisBroker(client *goredis.Client, l *logger.Logger) *RedisBroker {
	if l == nil {
		l = logger.NewNop()
	}
	return &RedisBroker{Client: client, log: l}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.Client.Publish(ctx, channel, data).Err()
}

// Subscribe returns once the subscription is confirmed. Messages are handled
// on a separate goroutine until ctx is cancelled.
func (b *RedisBroker) Subscribe(ctx context.Context, channel string, handler Handler) error {
	pubsub := b.Client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.log.Warn(ctx, "dropping malformed event", zap.String("channel", channel), zap.Error(err))
					continue
				}
				if err := handler(ctx, event); err != nil {
					b.log.Error(ctx, "event handler failed", zap.String("type", event.Type), zap.Error(err))
				}
			}
		}
	}()

	return nil
}
