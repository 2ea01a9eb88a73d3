// ABOUTME: Synchronous topic-based publish/subscribe registry
// ABOUTME: Decouples the recording engine from sources and presentation

package bus

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/trail/internal/logging"
)

// Topic names an event stream, e.g. "recording/started".
type Topic string

// Handler receives a published payload.
type Handler func(payload any)

// Unsubscribe removes the handler it was returned for. Calling it more than
// once is safe.
type Unsubscribe func()

type subscription struct {
	id      string
	handler Handler
}

// Bus delivers payloads to topic subscribers synchronously and in
// subscription order.
//
// Thread Safety: Bus is safe for concurrent use. Handlers run on the
// publishing goroutine, outside the registry lock.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]subscription
	logger *log.Logger
}

// New creates an empty bus. A nil logger uses the default logger.
func New(logger *log.Logger) *Bus {
	return &Bus{
		subs:   make(map[Topic][]subscription),
		logger: logging.OrDefault(logger),
	}
}

// Subscribe registers handler for topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) Unsubscribe {
	id := uuid.NewString()

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic Topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		// Copy instead of splicing in place so in-flight snapshots stay intact.
		next := make([]subscription, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(b.subs, topic)
		} else {
			b.subs[topic] = next
		}
		return
	}
}

// Publish delivers payload to every handler subscribed to topic at the time
// of the call. A panicking handler is logged and does not stop delivery.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	snapshot := b.subs[topic]
	b.mu.RUnlock()

	for _, s := range snapshot {
		b.invoke(topic, s, payload)
	}
}

func (b *Bus) invoke(topic Topic, s subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "topic", topic, "subscription", s.id, "panic", r)
		}
	}()
	s.handler(payload)
}

// Count returns the number of subscribers for topic.
func (b *Bus) Count(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// On subscribes a typed handler. Payloads of another type are dropped with a warning.
func On[T any](b *Bus, topic Topic, fn func(T)) Unsubscribe {
	return b.Subscribe(topic, func(payload any) {
		v, ok := payload.(T)
		if !ok {
			b.logger.Warn("dropping payload of unexpected type", "topic", topic, "payload", payload)
			return
		}
		fn(v)
	})
}
