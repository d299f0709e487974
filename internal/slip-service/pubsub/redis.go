package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/pkg/contracts/events"
)

// Broadcaster recebe as atualizações vindas do canal (o Hub WebSocket)
type Broadcaster interface {
	Broadcast(upd events.SessionUpdate)
}

// RedisNotifier publica atualizações de sessão no canal Redis Pub/Sub,
// permitindo que qualquer réplica do slip-service entregue aos clientes WS
type RedisNotifier struct {
	R       *redis.Client
	Channel string
}

func NewRedisNotifier(r *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{R: r, Channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, upd events.SessionUpdate) error {
	b, err := json.Marshal(upd)
	if err != nil {
		return err
	}
	return n.R.Publish(ctx, n.Channel, b).Err()
}

// StartRedisSubscriber escuta o canal em uma goroutine e repassa
// cada SessionUpdate ao Broadcaster até o contexto ser cancelado
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, b Broadcaster, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if upd, err := decode(msg.Payload); err != nil {
					log.Warn("session update unmarshal failed", zap.Error(err))
				} else {
					b.Broadcast(upd)
				}
			}
		}
	}()
}

func decode(payload string) (events.SessionUpdate, error) {
	var upd events.SessionUpdate
	err := json.Unmarshal([]byte(payload), &upd)
	return upd, err
}
