package queue

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Publisher delivers a payload to a topic. Delivery is fire-and-forget:
// callers log a failed Publish and move on.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

// Handler consumes one payload published to a topic.
type Handler func(payload any) error

// InMemoryQueue fans every published payload out to the topic's subscribers.
// Used in development and tests; nothing survives a restart.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	log      *zap.Logger
	wg       sync.WaitGroup
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(log *zap.Logger) *InMemoryQueue {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryQueue{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Publish hands the payload to every subscriber of topic in its own goroutine.
// A topic with no subscribers drops the payload.
func (q *InMemoryQueue) Publish(_ context.Context, topic string, payload any) error {
	if topic == "" {
		return fmt.Errorf("publish: empty topic")
	}

	q.mu.Lock()
	handlers := append([]Handler(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		q.log.Debug("no subscribers, dropping payload", zap.String("topic", topic))
		return nil
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.deliver(topic, handler, payload)
	}
	return nil
}

// deliver runs the handler once. Failures are logged, never retried.
func (q *InMemoryQueue) deliver(topic string, handler Handler, payload any) {
	defer q.wg.Done()
	if err := handler(payload); err != nil {
		q.log.Warn("subscriber failed", zap.String("topic", topic), zap.Error(err))
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("subscribe %s: nil handler", topic)
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close waits for in-flight deliveries.
func (q *InMemoryQueue) Close() error {
	q.wg.Wait()
	return nil
}

var _ Publisher = (*InMemoryQueue)(nil)
