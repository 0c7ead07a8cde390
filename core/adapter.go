package core

import (
	"fmt"
	"time"

	"pkt.systems/coxswain/internal/repo"
	"pkt.systems/coxswain/schema"
)

// conversationIDLength is how much of a session id survives into the
// display-facing conversation id.
const conversationIDLength = 8

// DeriveConnectionStatus maps a session's lifecycle state to a connection
// status. This is the single authoritative mapping; no other component may
// re-derive status differently.
func DeriveConnectionStatus(state schema.SessionState) schema.ConnectionStatus {
	switch state {
	case schema.SessionStateRunning:
		return schema.StatusConnected
	case schema.SessionStateCreating:
		return schema.StatusConnecting
	case schema.SessionStateError:
		return schema.StatusError
	default:
		// STOPPED, STOPPING, UNSPECIFIED, absent, and anything unknown.
		return schema.StatusDisconnected
	}
}

// IsSessionReady reports whether a session's sandbox endpoint is safe to
// call: running and explicitly marked ready. Readiness gates proxying, not
// display status; callers must check both independently.
func IsSessionReady(s schema.Session) bool {
	return s.State == schema.SessionStateRunning && s.Ready
}

// SessionEndpoint returns the session's internal endpoint. ok is false when
// no endpoint is published yet, which means "not yet proxyable", not an
// error.
func SessionEndpoint(s schema.Session) (endpoint string, ok bool) {
	if s.InternalEndpoint == "" {
		return "", false
	}
	return s.InternalEndpoint, true
}

// AdaptSession projects a session into its display-facing conversation.
// Deterministic and total: the same session always yields the same
// conversation, and no input shape fails.
func AdaptSession(s schema.Session) schema.Conversation {
	id := string(s.ID)
	if len(id) > conversationIDLength {
		id = id[:conversationIDLength]
	}
	title := s.Name
	if title == "" {
		title = fmt.Sprintf("Session %s", id)
	}
	now := time.Now()
	created := s.CreatedAt
	if created.IsZero() {
		created = now
	}
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = now
	}
	status := DeriveConnectionStatus(s.State)
	// Running but not ready shows as connecting; the endpoint is not yet
	// usable even though the lifecycle state says running.
	if status == schema.StatusConnected && !s.Ready {
		status = schema.StatusConnecting
	}
	return schema.Conversation{
		ID:        schema.ConversationID(id),
		SessionID: s.ID,
		Title:     title,
		CreatedAt: created,
		UpdatedAt: updated,
		Messages:  []schema.Message{},
		Status:    status,
		Repo:      repo.Parse(s.Repo.URL, s.Repo.Ref),
	}
}

// AdaptSessions projects sessions in the order received.
func AdaptSessions(sessions []schema.Session) []schema.Conversation {
	out := make([]schema.Conversation, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, AdaptSession(s))
	}
	return out
}
