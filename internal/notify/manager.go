// Package notify manages transient advisory notifications through their
// lifecycle: created, visible after a short entrance delay, exiting, and
// removed after the exit animation delay.
package notify

import (
	"context"
	"sync"
	"time"

	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

const (
	// entranceDelay is how long a notification stays in the created
	// phase before becoming visible.
	entranceDelay = 50 * time.Millisecond
	// exitDelay covers the exit animation between dismissal and removal.
	exitDelay = 300 * time.Millisecond
)

// Sink receives notification lifecycle events.
type Sink interface {
	OnNotification(schema.NotificationEvent)
}

type entry struct {
	notification schema.Notification
	phase        schema.NotificationPhase
	enter        *time.Timer
	autoExit     *time.Timer
	remove       *time.Timer
}

// Manager owns all live notifications. Safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	items  map[schema.NotificationID]*entry
	order  []schema.NotificationID
	sink   Sink
	logger pslog.Logger
	closed bool
}

// NewManager constructs a notification manager. The sink is optional.
func NewManager(sink Sink, logger pslog.Logger) *Manager {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Manager{
		items:  make(map[schema.NotificationID]*entry),
		sink:   sink,
		logger: logger,
	}
}

// Push registers a notification and starts its lifecycle. A zero ID gets
// a generated one; the assigned ID is returned.
func (m *Manager) Push(n schema.Notification) schema.NotificationID {
	if n.ID == "" {
		n.ID = schema.NotificationID(newID())
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return n.ID
	}
	e := &entry{notification: n, phase: schema.NotificationCreated}
	m.items[n.ID] = e
	m.order = append(m.order, n.ID)
	id := n.ID
	e.enter = time.AfterFunc(entranceDelay, func() { m.show(id) })
	m.mu.Unlock()

	m.logger.Debug("notification pushed", "id", n.ID, "severity", n.Severity, "title", n.Title)
	m.emit(schema.NotificationEvent{Phase: schema.NotificationCreated, Notification: n})
	return n.ID
}

// Success pushes a success notification.
func (m *Manager) Success(title, message string) schema.NotificationID {
	return m.Push(schema.Notification{Severity: schema.SeveritySuccess, Title: title, Message: message})
}

// Error pushes an error notification that stays until dismissed.
func (m *Manager) Error(title, message string) schema.NotificationID {
	return m.Push(schema.Notification{Severity: schema.SeverityError, Title: title, Message: message, Persistent: true})
}

// Warning pushes a warning notification.
func (m *Manager) Warning(title, message string) schema.NotificationID {
	return m.Push(schema.Notification{Severity: schema.SeverityWarning, Title: title, Message: message})
}

// Info pushes an informational notification.
func (m *Manager) Info(title, message string) schema.NotificationID {
	return m.Push(schema.Notification{Severity: schema.SeverityInfo, Title: title, Message: message})
}

// Dismiss starts the exit sequence for a notification. Dismissing an
// unknown, already exiting, or removed notification is a no-op.
func (m *Manager) Dismiss(id schema.NotificationID) {
	m.mu.Lock()
	e, ok := m.items[id]
	if !ok || e.phase == schema.NotificationExiting {
		m.mu.Unlock()
		return
	}
	if e.enter != nil {
		e.enter.Stop()
	}
	if e.autoExit != nil {
		e.autoExit.Stop()
	}
	e.phase = schema.NotificationExiting
	n := e.notification
	e.remove = time.AfterFunc(exitDelay, func() { m.removeEntry(id) })
	m.mu.Unlock()

	m.logger.Trace("notification dismissed", "id", id)
	m.emit(schema.NotificationEvent{Phase: schema.NotificationExiting, Notification: n})
}

// List returns notifications that have not been removed, oldest first.
func (m *Manager) List() []schema.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]schema.Notification, 0, len(m.order))
	for _, id := range m.order {
		if e, ok := m.items[id]; ok {
			out = append(out, e.notification)
		}
	}
	return out
}

// Close stops all pending timers. Pushed notifications are dropped
// without removal events.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, e := range m.items {
		if e.enter != nil {
			e.enter.Stop()
		}
		if e.autoExit != nil {
			e.autoExit.Stop()
		}
		if e.remove != nil {
			e.remove.Stop()
		}
	}
	m.items = make(map[schema.NotificationID]*entry)
	m.order = nil
}

func (m *Manager) show(id schema.NotificationID) {
	m.mu.Lock()
	e, ok := m.items[id]
	if !ok || m.closed || e.phase != schema.NotificationCreated {
		m.mu.Unlock()
		return
	}
	e.phase = schema.NotificationVisible
	n := e.notification
	if d, auto := displayDuration(n); auto {
		e.autoExit = time.AfterFunc(d, func() { m.Dismiss(id) })
	}
	m.mu.Unlock()

	m.emit(schema.NotificationEvent{Phase: schema.NotificationVisible, Notification: n})
}

func (m *Manager) removeEntry(id schema.NotificationID) {
	m.mu.Lock()
	e, ok := m.items[id]
	if !ok || m.closed {
		m.mu.Unlock()
		return
	}
	delete(m.items, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	n := e.notification
	m.mu.Unlock()

	m.logger.Trace("notification removed", "id", id)
	m.emit(schema.NotificationEvent{Phase: schema.NotificationRemoved, Notification: n})
}

func (m *Manager) emit(event schema.NotificationEvent) {
	if m.sink != nil {
		m.sink.OnNotification(event)
	}
}

// displayDuration resolves how long a notification stays visible and
// whether it auto-dismisses at all. An absent duration means the default;
// an explicit zero (or negative) duration means the notification stays
// until dismissed.
func displayDuration(n schema.Notification) (time.Duration, bool) {
	if n.Persistent {
		return 0, false
	}
	if n.Duration == nil {
		return schema.DefaultNotificationDuration, true
	}
	if *n.Duration <= 0 {
		return 0, false
	}
	return *n.Duration, true
}
