package event

import (
	"context"
	"encoding/json"

	"go-order-api/internal/model"
	logx "go-order-api/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes each stock event as JSON on a pub/sub channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Notify(ctx context.Context, events ...model.StockEvent) {
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			logx.Error().Err(err).Str("event_id", e.EventID.String()).Msg("encode stock event")
			continue
		}
		if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
			logx.Warn().Err(err).
				Str("channel", p.channel).
				Uint("product_id", e.ProductID).
				Msg("publish stock event to redis")
			return
		}
	}
}
