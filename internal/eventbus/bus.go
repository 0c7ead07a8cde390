package eventbus

import (
	"context"
	"sync"

	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventStatus carries connection status changes.
	EventStatus EventType = "status"
	// EventNotification carries notification lifecycle changes.
	EventNotification EventType = "notification"
)

// Event represents a display-facing event emitted by the sync layer.
type Event struct {
	Type         EventType
	Status       schema.StatusEvent
	Notification schema.NotificationEvent
}

// Bus fanouts events to subscribers. Slow subscribers are skipped rather
// than blocking the publisher.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber and returns a channel + cancel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.Debug("eventbus subscribe", "subs", count)
	}
	return ch, func() {
		// Removal and close happen under the same lock as sends so a
		// concurrent publish can never hit a closed channel.
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
		if b.log != nil {
			b.log.Debug("eventbus unsubscribe")
		}
	}
}

// OnStatusChange publishes a connection status event.
func (b *Bus) OnStatusChange(event schema.StatusEvent) {
	b.publish(Event{Type: EventStatus, Status: event})
}

// OnNotification publishes a notification lifecycle event.
func (b *Bus) OnNotification(event schema.NotificationEvent) {
	b.publish(Event{Type: EventNotification, Notification: event})
}

func (b *Bus) publish(event Event) {
	if b == nil {
		return
	}
	// Sends are non-blocking, so holding the lock across the fanout is
	// cheap and keeps close-on-unsubscribe safe.
	b.mu.Lock()
	dropped := 0
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.Trace("eventbus dropped", "count", dropped)
	}
}
