package schema

// UserID identifies a user in the system.
type UserID string

// WorkspaceID identifies a workspace (a provisioned sandbox environment).
type WorkspaceID string

// SessionID identifies an agent session running inside a workspace.
type SessionID string

// ConversationID is the display-facing projection of a session id.
type ConversationID string

// MessageID identifies a message within a session.
type MessageID string

// NotificationID identifies a transient notification.
type NotificationID string

// RepositoryRef points at a git repository as configured on a session.
type RepositoryRef struct {
	URL string
	Ref string
}

// RepoInfo is the parsed form of a repository URL. Owner and Name are set
// when the URL matched a recognized host pattern; otherwise URL and Ref
// carry the unparsed reference.
type RepoInfo struct {
	Owner string
	Name  string
	URL   string
	Ref   string
}
