package broker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/dayledger/internal/logger"
)

// Redis fans notifications out to every API instance subscribed to the
// channel. The payload is the operation id; listeners reload state themselves.
type Redis struct {
	client  *redis.Client
	channel string
}

func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

func (r *Redis) Publish(ctx context.Context, operationID uuid.UUID) error {
	if err := r.client.Publish(ctx, r.channel, operationID.String()).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", r.channel, err)
	}

	return nil
}

func (r *Redis) Listen(ctx context.Context, handle Handler) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reading messages.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribing to %s: %w", r.channel, err)
	}

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			id, err := uuid.Parse(msg.Payload)
			if err != nil {
				logger.Log.Warn().Str("channel", msg.Channel).Str("payload", msg.Payload).Msg("ignoring malformed notification")
				continue
			}

			handle(ctx, id)
		}
	}
}
