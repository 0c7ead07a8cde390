package schema

import "time"

// Severity classifies a notification.
type Severity string

const (
	// SeveritySuccess reports a completed operation.
	SeveritySuccess Severity = "success"
	// SeverityError reports a failed operation.
	SeverityError Severity = "error"
	// SeverityWarning reports a degraded condition.
	SeverityWarning Severity = "warning"
	// SeverityInfo reports neutral information.
	SeverityInfo Severity = "info"
)

// DefaultNotificationDuration is how long a notification stays visible
// when no explicit duration is set.
const DefaultNotificationDuration = 5000 * time.Millisecond

// NotificationDuration wraps an explicit display duration for a
// Notification. An explicit zero keeps the notification up until it is
// dismissed.
func NotificationDuration(d time.Duration) *time.Duration {
	return &d
}

// Notification is a transient advisory message. An absent (nil) Duration
// means the default display time; an explicit zero duration, like
// Persistent, suppresses auto-dismissal.
type Notification struct {
	ID         NotificationID
	Severity   Severity
	Title      string
	Message    string
	Duration   *time.Duration
	Persistent bool
	CreatedAt  time.Time
}

// NotificationPhase is a notification's lifecycle position.
type NotificationPhase string

const (
	// NotificationCreated fires when a notification is registered.
	NotificationCreated NotificationPhase = "created"
	// NotificationVisible fires after the entrance delay.
	NotificationVisible NotificationPhase = "visible"
	// NotificationExiting fires when dismissal starts.
	NotificationExiting NotificationPhase = "exiting"
	// NotificationRemoved fires after the exit delay.
	NotificationRemoved NotificationPhase = "removed"
)

// NotificationEvent reports a notification lifecycle change.
type NotificationEvent struct {
	Phase        NotificationPhase
	Notification Notification
}

// StatusEvent reports a connection status change from the health monitor.
type StatusEvent struct {
	Status   ConnectionStatus
	Previous ConnectionStatus
	Manual   bool
	At       time.Time
}
