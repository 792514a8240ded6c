package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Dispatcher локальная доставка событий, полученных из relay
type Dispatcher interface {
	Dispatch(ev Event)
}

// RedisRelay пересылает события между инстансами через Redis pub/sub
type RedisRelay struct {
	client  *redis.Client
	channel string
	origin  string
	logger  Logger
}

// NewRedisRelay создает relay, origin уникален для инстанса
func NewRedisRelay(client *redis.Client, channel string, logger Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
	}
}

// Origin идентификатор инстанса
func (r *RedisRelay) Origin() string {
	return r.origin
}

// Publish отправляет событие в канал
func (r *RedisRelay) Publish(ctx context.Context, ev Event) error {
	ev.Origin = r.origin
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// Run читает канал и доставляет чужие события локально до отмены ctx
func (r *RedisRelay) Run(ctx context.Context, dispatcher Dispatcher) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Ждем подтверждения подписки
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("%w: subscribe %s: %v", ErrRelay, r.channel, err)
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.handleMessage(msg.Payload, dispatcher)
		}
	}
}

func (r *RedisRelay) handleMessage(payload string, dispatcher Dispatcher) {
	ev, err := decodeEvent(payload)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("changefeed: skip relay message: %v", err)
		}
		return
	}
	// Свои события уже доставлены локально в Publish
	if ev.Origin == r.origin {
		return
	}
	dispatcher.Dispatch(ev)
}

func decodeEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrDecodeEvent, err)
	}
	if ev.Collection == "" {
		return Event{}, fmt.Errorf("%w: %v", ErrDecodeEvent, ErrEmptyCollection)
	}
	return ev, nil
}
