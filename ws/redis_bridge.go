package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobh_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const EventsChannel = "jobh:events"

type envelope struct {
	UserID  string  `json:"userId"`
	Message Message `json:"message"`
}

// RedisBridge рассылает события через pub/sub, чтобы пуш доходил до
// соединений на любом инстансе за балансировщиком
type RedisBridge struct {
	hub     *Hub
	client  *redis.Client
	channel string
}

func NewRedisBridge(hub *Hub, client *redis.Client) *RedisBridge {
	return &RedisBridge{hub: hub, client: client, channel: EventsChannel}
}

// SendToUser публикует событие; при недоступном Redis доставляет локально
func (b *RedisBridge) SendToUser(ctx context.Context, userID, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	msg := Message{Event: event, Data: data, SentAt: time.Now().UTC()}

	raw, err := json.Marshal(envelope{UserID: userID, Message: msg})
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		logger.CtxWarn(ctx, "publish to events channel failed, delivering locally", "error", err)
		return b.hub.deliver(userID, msg)
	}
	return nil
}

// Run слушает канал и отдает события локальному хабу до отмены ctx
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	logger.Info("subscribed to events channel", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
				logger.Warn("malformed event on channel", "channel", b.channel, "error", err)
				continue
			}
			b.hub.deliver(env.UserID, env.Message)
		}
	}
}
