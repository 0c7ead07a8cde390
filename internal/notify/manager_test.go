package notify

import (
	"testing"
	"time"

	"pkt.systems/coxswain/schema"
)

type recordingSink struct {
	events chan schema.NotificationEvent
}

func newRecordingSink() *recordingSink {
	return &recordingSink{events: make(chan schema.NotificationEvent, 32)}
}

func (s *recordingSink) OnNotification(event schema.NotificationEvent) {
	s.events <- event
}

func (s *recordingSink) next(t *testing.T, within time.Duration) schema.NotificationEvent {
	t.Helper()
	select {
	case event := <-s.events:
		return event
	case <-time.After(within):
		t.Fatal("timed out waiting for notification event")
		return schema.NotificationEvent{}
	}
}

func (s *recordingSink) expectNone(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case event := <-s.events:
		t.Fatalf("unexpected event %q for %q", event.Phase, event.Notification.ID)
	case <-time.After(within):
	}
}

func TestNotificationLifecycle(t *testing.T) {
	sink := newRecordingSink()
	m := NewManager(sink, nil)
	defer m.Close()

	id := m.Push(schema.Notification{
		Severity: schema.SeverityInfo,
		Title:    "synced",
		Duration: schema.NotificationDuration(30 * time.Millisecond),
	})
	if id == "" {
		t.Fatal("expected assigned id")
	}

	wantPhases := []schema.NotificationPhase{
		schema.NotificationCreated,
		schema.NotificationVisible,
		schema.NotificationExiting,
		schema.NotificationRemoved,
	}
	for _, want := range wantPhases {
		event := sink.next(t, 2*time.Second)
		if event.Phase != want {
			t.Fatalf("phase = %q, want %q", event.Phase, want)
		}
		if event.Notification.ID != id {
			t.Fatalf("event id = %q, want %q", event.Notification.ID, id)
		}
	}
	if got := len(m.List()); got != 0 {
		t.Errorf("listed %d notifications after removal, want 0", got)
	}
}

func TestPersistentNeverAutoDismisses(t *testing.T) {
	sink := newRecordingSink()
	m := NewManager(sink, nil)
	defer m.Close()

	m.Push(schema.Notification{
		Severity:   schema.SeverityError,
		Title:      "sync failed",
		Duration:   schema.NotificationDuration(10 * time.Millisecond),
		Persistent: true,
	})

	if event := sink.next(t, time.Second); event.Phase != schema.NotificationCreated {
		t.Fatalf("phase = %q, want created", event.Phase)
	}
	if event := sink.next(t, time.Second); event.Phase != schema.NotificationVisible {
		t.Fatalf("phase = %q, want visible", event.Phase)
	}
	sink.expectNone(t, 150*time.Millisecond)
	if got := len(m.List()); got != 1 {
		t.Errorf("listed %d notifications, want 1", got)
	}
}

func TestExplicitZeroDurationNeverAutoDismisses(t *testing.T) {
	sink := newRecordingSink()
	m := NewManager(sink, nil)
	defer m.Close()

	m.Push(schema.Notification{
		Severity: schema.SeverityWarning,
		Title:    "degraded",
		Duration: schema.NotificationDuration(0),
	})

	sink.next(t, time.Second) // created
	sink.next(t, time.Second) // visible
	sink.expectNone(t, 150*time.Millisecond)
	if got := len(m.List()); got != 1 {
		t.Errorf("listed %d notifications, want 1", got)
	}
}

func TestDisplayDuration(t *testing.T) {
	cases := []struct {
		name     string
		n        schema.Notification
		want     time.Duration
		wantAuto bool
	}{
		{
			name:     "absent duration uses the default",
			n:        schema.Notification{},
			want:     schema.DefaultNotificationDuration,
			wantAuto: true,
		},
		{
			name:     "explicit zero never auto-dismisses",
			n:        schema.Notification{Duration: schema.NotificationDuration(0)},
			wantAuto: false,
		},
		{
			name:     "negative duration never auto-dismisses",
			n:        schema.Notification{Duration: schema.NotificationDuration(-time.Second)},
			wantAuto: false,
		},
		{
			name:     "explicit duration is honored",
			n:        schema.Notification{Duration: schema.NotificationDuration(2 * time.Second)},
			want:     2 * time.Second,
			wantAuto: true,
		},
		{
			name:     "persistent overrides any duration",
			n:        schema.Notification{Duration: schema.NotificationDuration(2 * time.Second), Persistent: true},
			wantAuto: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, auto := displayDuration(tc.n)
			if auto != tc.wantAuto {
				t.Fatalf("auto = %v, want %v", auto, tc.wantAuto)
			}
			if auto && d != tc.want {
				t.Fatalf("duration = %v, want %v", d, tc.want)
			}
		})
	}
}

func TestDismissIsIdempotent(t *testing.T) {
	sink := newRecordingSink()
	m := NewManager(sink, nil)
	defer m.Close()

	id := m.Push(schema.Notification{Severity: schema.SeverityInfo, Title: "x", Persistent: true})
	sink.next(t, time.Second) // created
	sink.next(t, time.Second) // visible

	m.Dismiss(id)
	m.Dismiss(id)
	m.Dismiss("unknown")

	if event := sink.next(t, time.Second); event.Phase != schema.NotificationExiting {
		t.Fatalf("phase = %q, want exiting", event.Phase)
	}
	if event := sink.next(t, time.Second); event.Phase != schema.NotificationRemoved {
		t.Fatalf("phase = %q, want removed", event.Phase)
	}
	sink.expectNone(t, 100*time.Millisecond)
}

func TestDismissBeforeVisibleShortCircuits(t *testing.T) {
	sink := newRecordingSink()
	m := NewManager(sink, nil)
	defer m.Close()

	id := m.Push(schema.Notification{Severity: schema.SeverityInfo, Title: "x"})
	if event := sink.next(t, time.Second); event.Phase != schema.NotificationCreated {
		t.Fatalf("phase = %q, want created", event.Phase)
	}
	m.Dismiss(id)

	if event := sink.next(t, time.Second); event.Phase != schema.NotificationExiting {
		t.Fatalf("phase = %q, want exiting", event.Phase)
	}
	if event := sink.next(t, time.Second); event.Phase != schema.NotificationRemoved {
		t.Fatalf("phase = %q, want removed", event.Phase)
	}
}

func TestSeverityHelpers(t *testing.T) {
	m := NewManager(nil, nil)
	defer m.Close()

	m.Success("done", "")
	m.Error("boom", "details")
	m.Warning("careful", "")
	m.Info("fyi", "")

	list := m.List()
	if len(list) != 4 {
		t.Fatalf("listed %d notifications, want 4", len(list))
	}
	wantSeverities := []schema.Severity{
		schema.SeveritySuccess,
		schema.SeverityError,
		schema.SeverityWarning,
		schema.SeverityInfo,
	}
	for i, n := range list {
		if n.Severity != wantSeverities[i] {
			t.Errorf("notification %d severity = %q, want %q", i, n.Severity, wantSeverities[i])
		}
	}
	for _, n := range list {
		if n.Severity == schema.SeverityError && !n.Persistent {
			t.Error("error notification should be persistent")
		}
	}
}
