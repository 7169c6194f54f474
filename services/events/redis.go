package events

import (
	"context"
	"encoding/json"
	"fmt"

	"groundbook/models"
	"groundbook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ChangesChannel is the Redis pub/sub channel booking events travel on.
const ChangesChannel = "bookings:changes"

// RedisBus publishes and subscribes to booking events over Redis pub/sub.
type RedisBus struct {
	client  *redis.Client
	channel string
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client, channel: ChangesChannel}
}

func (b *RedisBus) Publish(ctx context.Context, event models.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode booking event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, match func(models.BookingEvent) bool) (<-chan models.BookingEvent, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	// Receive blocks until the subscription is confirmed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	out := make(chan models.BookingEvent, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event models.BookingEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					utils.GetLogger().Warn("Dropping malformed booking event", zap.Error(err))
					continue
				}
				if match != nil && !match(event) {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
