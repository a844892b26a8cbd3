package engine

import (
	"sync"
	"time"
)

// EventType identifies a class of engine event.
type EventType int

// SubscriberID names a registered handler so it can be removed later.
type SubscriberID int

// Event is one engine occurrence delivered to subscribers.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

type busHandler struct {
	fn    func(Event)
	types map[EventType]struct{} // nil matches every type
}

// EventBus fans engine events out to registered handlers. Delivery is
// synchronous on the emitting goroutine; consumers that need buffering (the
// SSE hub, the MQTT publisher) buffer on their side.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[SubscriberID]busHandler
	lastID   SubscriberID
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[SubscriberID]busHandler)}
}

// Subscribe registers fn for every event type.
func (b *EventBus) Subscribe(fn func(Event)) SubscriberID {
	return b.add(busHandler{fn: fn})
}

// SubscribeTypes registers fn for the listed event types only.
func (b *EventBus) SubscribeTypes(fn func(Event), types ...EventType) SubscriberID {
	filter := make(map[EventType]struct{}, len(types))
	for _, t := range types {
		filter[t] = struct{}{}
	}
	return b.add(busHandler{fn: fn, types: filter})
}

func (b *EventBus) add(h busHandler) SubscriberID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastID++
	b.handlers[b.lastID] = h
	return b.lastID
}

// Unsubscribe drops the handler registered under id.
func (b *EventBus) Unsubscribe(id SubscriberID) {
	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
}

// Emit delivers evt to every matching handler. Matching happens under the
// read lock; the handlers themselves run outside it, so a handler may
// subscribe or unsubscribe without deadlocking. Events with a zero timestamp
// are stamped at emission.
func (b *EventBus) Emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	b.mu.RLock()
	matched := make([]func(Event), 0, len(b.handlers))
	for _, h := range b.handlers {
		if h.types != nil {
			if _, ok := h.types[evt.Type]; !ok {
				continue
			}
		}
		matched = append(matched, h.fn)
	}
	b.mu.RUnlock()

	for _, fn := range matched {
		fn(evt)
	}
}
