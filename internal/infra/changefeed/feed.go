// Package changefeed рассылает изменения строк подписчикам внутри процесса
// и, опционально, между инстансами через Redis pub/sub.
package changefeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/m04kA/MediTime-BookingService/pkg/metrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Handler вызывается для каждого подходящего события.
// Доставка at-least-once, порядок между коллекциями не гарантируется.
type Handler func(Event)

// Relay пересылает события в другие инстансы
type Relay interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscription хэндл подписки для Unsubscribe
type Subscription struct {
	id         uint64
	collection string
}

type subscriber struct {
	filter  Filter
	handler Handler
}

// Feed in-process change feed
type Feed struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*subscriber
	nextID uint64

	relay   Relay
	logger  Logger
	metrics *metrics.Metrics
}

// New создает feed без relay
func New(logger Logger, m *metrics.Metrics) *Feed {
	return &Feed{
		subs:    make(map[string]map[uint64]*subscriber),
		logger:  logger,
		metrics: m,
	}
}

// SetRelay включает пересылку опубликованных событий
func (f *Feed) SetRelay(relay Relay) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.relay = relay
}

// Subscribe подписывает handler на изменения коллекции, подходящие под filter
func (f *Feed) Subscribe(collection string, filter Filter, handler Handler) Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID

	if f.subs[collection] == nil {
		f.subs[collection] = make(map[uint64]*subscriber)
	}
	f.subs[collection][id] = &subscriber{filter: filter, handler: handler}

	return Subscription{id: id, collection: collection}
}

// Unsubscribe отменяет подписку, повторный вызов ничего не делает
func (f *Feed) Unsubscribe(sub Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subscribers, ok := f.subs[sub.collection]
	if !ok {
		return
	}
	delete(subscribers, sub.id)
	if len(subscribers) == 0 {
		delete(f.subs, sub.collection)
	}
}

// Publish доставляет событие локальным подписчикам и отправляет его в relay
func (f *Feed) Publish(ctx context.Context, ev Event) error {
	if ev.Collection == "" {
		return ErrEmptyCollection
	}

	f.Dispatch(ev)

	f.mu.RLock()
	relay := f.relay
	f.mu.RUnlock()

	if relay == nil {
		return nil
	}
	if err := relay.Publish(ctx, ev); err != nil {
		return fmt.Errorf("%w: %v", ErrRelay, err)
	}
	return nil
}

// Dispatch доставляет событие только локальным подписчикам
func (f *Feed) Dispatch(ev Event) {
	f.metrics.IncChangeFeedEvents(ev.Collection, string(ev.Type))

	f.mu.RLock()
	handlers := make([]Handler, 0, len(f.subs[ev.Collection]))
	for _, s := range f.subs[ev.Collection] {
		if s.filter.Matches(ev) {
			handlers = append(handlers, s.handler)
		}
	}
	f.mu.RUnlock()

	for _, h := range handlers {
		f.deliver(h, ev)
	}
}

// SubscriberCount количество подписок на коллекцию
func (f *Feed) SubscriberCount(collection string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[collection])
}

func (f *Feed) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil && f.logger != nil {
			f.logger.Error("changefeed: handler panic on %s/%s: %v", ev.Collection, ev.Type, r)
		}
	}()
	h(ev)
}
