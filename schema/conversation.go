package schema

import "time"

// ConnectionStatus is the derived liveness of a session or of the
// orchestrator connection as a whole.
type ConnectionStatus string

const (
	// StatusConnected indicates a live, usable connection.
	StatusConnected ConnectionStatus = "connected"
	// StatusConnecting indicates a connection being established.
	StatusConnecting ConnectionStatus = "connecting"
	// StatusDisconnected indicates no connection.
	StatusDisconnected ConnectionStatus = "disconnected"
	// StatusError indicates the connection failed.
	StatusError ConnectionStatus = "error"
)

// Conversation is the display-facing projection of a Session. Its status is
// a pure function of the last-fetched session state; messages are loaded
// lazily through the sandbox proxy.
type Conversation struct {
	ID        ConversationID
	SessionID SessionID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message
	Status    ConnectionStatus
	// Repo is the parsed repository reference, when the session has one.
	Repo RepoInfo
}
