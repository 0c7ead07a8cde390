package httpapi

import (
	"context"
	"sync"
	"time"

	"pkt.systems/coxswain/internal/eventbus"
	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

// StreamEvent is sent to SSE clients.
type StreamEvent struct {
	Seq          uint64                    `json:"seq"`
	Type         string                    `json:"type"`
	Status       *schema.StatusEvent       `json:"status,omitempty"`
	Notification *schema.NotificationEvent `json:"notification,omitempty"`
	Snapshot     *SnapshotPayload          `json:"snapshot,omitempty"`
	Timestamp    time.Time                 `json:"timestamp"`
}

// SnapshotPayload seeds client state on connect.
type SnapshotPayload struct {
	Conversations []schema.Conversation   `json:"conversations"`
	Status        schema.ConnectionStatus `json:"status"`
	Notifications []schema.Notification   `json:"notifications"`
}

// Hub broadcasts stream events with a replayable history.
type Hub struct {
	mu          sync.Mutex
	seq         uint64
	history     []StreamEvent
	subs        map[chan StreamEvent]struct{}
	historySize int
	log         pslog.Logger
}

// NewHub constructs a hub with the given history size.
func NewHub(historySize int, logger pslog.Logger) *Hub {
	if historySize <= 0 {
		historySize = 1000
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Hub{
		subs:        make(map[chan StreamEvent]struct{}),
		historySize: historySize,
		log:         logger,
	}
}

// Run pumps bus events into the hub until the context is cancelled.
func (h *Hub) Run(ctx context.Context, bus *eventbus.Bus) {
	ch, cancel := bus.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			switch event.Type {
			case eventbus.EventStatus:
				status := event.Status
				h.publish(StreamEvent{Type: "status", Status: &status, Timestamp: time.Now()})
			case eventbus.EventNotification:
				notification := event.Notification
				h.publish(StreamEvent{Type: "notification", Notification: &notification, Timestamp: time.Now()})
			}
		}
	}
}

// Subscribe registers a subscriber and returns the channel, a cancel
// function, the current sequence number, and the retained history.
func (h *Hub) Subscribe() (<-chan StreamEvent, func(), uint64, []StreamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan StreamEvent, 256)
	h.subs[ch] = struct{}{}
	history := append([]StreamEvent(nil), h.history...)
	seq := h.seq
	h.log.Info("hub subscribe", "subs", len(h.subs), "history", len(history))
	unsub := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		remaining := len(h.subs)
		h.mu.Unlock()
		h.log.Info("hub unsubscribe", "subs", remaining)
	}
	return ch, unsub, seq, history
}

// Replay returns events after the provided seq.
func (h *Hub) Replay(after uint64) []StreamEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	events := make([]StreamEvent, 0, len(h.history))
	for _, event := range h.history {
		if event.Seq > after {
			events = append(events, event)
		}
	}
	h.log.Debug("hub replay", "after", after, "count", len(events))
	return events
}

func (h *Hub) publish(event StreamEvent) {
	h.mu.Lock()
	h.seq++
	event.Seq = h.seq
	h.history = append(h.history, event)
	if len(h.history) > h.historySize {
		h.history = h.history[len(h.history)-h.historySize:]
	}
	// Non-blocking sends stay under the lock so an unsubscribe close can
	// never race the fanout.
	dropped := 0
	for sub := range h.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	h.mu.Unlock()

	if dropped > 0 {
		h.log.Warn("hub event dropped", "type", event.Type, "dropped", dropped)
	}
}
