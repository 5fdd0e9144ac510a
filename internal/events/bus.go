// Package events fans booking lifecycle events out to in-process subscribers
// and, when configured, to a Kafka topic.
package events

import (
	"context"
	"sync"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/sirupsen/logrus"
)

type Handler func(ctx context.Context, event domain.Event)

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Bus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int

	producer Producer
	topic    string
	log      logrus.FieldLogger
}

type Option func(*Bus)

// WithProducer forwards every event to topic, keyed by booking id.
func WithProducer(p Producer, topic string) Option {
	return func(b *Bus) {
		b.producer = p
		b.topic = topic
	}
}

func NewBus(log logrus.FieldLogger, opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[int]Handler),
		log:      log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Emit delivers event synchronously to subscribers, then to Kafka.
// Publish failures are logged; they never undo the lifecycle step.
func (b *Bus) Emit(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, event)
	}

	if b.producer == nil || b.topic == "" {
		return
	}
	if err := b.producer.Publish(ctx, b.topic, event.BookingID, event); err != nil {
		b.log.WithFields(logrus.Fields{
			"event":      event.Type,
			"booking_id": event.BookingID,
		}).WithError(err).Warn("failed to publish booking event")
	}
}
