package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/playmatatu/chaospool/internal/models"
)

// Publisher announces finished tables to other nodes.
type Publisher interface {
	Publish(ctx context.Context, ev models.TableEvent) error
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.TableEvent) error { return nil }

// RedisPublisher publishes table events on a Redis channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev models.TableEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode table event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish table event: %w", err)
	}
	return nil
}

// StartTableEventSubscriber listens for finished tables on channel and calls
// onEvent for each. Any node may raise the shared best score, so the server
// uses this to refresh its cached best.
func StartTableEventSubscriber(ctx context.Context, rdb *redis.Client, channel string, onEvent func(models.TableEvent)) {
	if rdb == nil {
		log.Info("[WS] Redis client not set; table event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, channel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Infof("[WS] %s subscriber started", channel)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.TableEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warnf("[WS] invalid table event payload: %v", err)
					continue
				}
				log.Infof("[WS] table event received: table=%s status=%s score=%d", ev.TableID, ev.Status, ev.Score)
				onEvent(ev)
			}
		}
	}()
}
