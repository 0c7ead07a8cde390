package schema

import "time"

// SessionState is the orchestrator's lifecycle enum for a session, carried
// verbatim from the wire. Unknown values are preserved rather than rejected.
type SessionState string

const (
	// SessionStateUnspecified is the zero/absent state.
	SessionStateUnspecified SessionState = "SESSION_STATE_UNSPECIFIED"
	// SessionStateCreating indicates the sandbox is being provisioned.
	SessionStateCreating SessionState = "SESSION_STATE_CREATING"
	// SessionStateRunning indicates the sandbox is up.
	SessionStateRunning SessionState = "SESSION_STATE_RUNNING"
	// SessionStateStopping indicates the sandbox is shutting down.
	SessionStateStopping SessionState = "SESSION_STATE_STOPPING"
	// SessionStateStopped indicates the sandbox has stopped.
	SessionStateStopped SessionState = "SESSION_STATE_STOPPED"
	// SessionStateError indicates the sandbox failed.
	SessionStateError SessionState = "SESSION_STATE_ERROR"
)

// Session is a unit of agent work inside a workspace. State, readiness, and
// the internal endpoint are server-authoritative: they are only ever
// refreshed from a fetch, never invented locally.
type Session struct {
	ID          SessionID
	Name        string
	WorkspaceID WorkspaceID
	State       SessionState
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Repo        RepositoryRef
	Labels      map[string]string

	// Ready reports that the sandbox endpoint is safe to call. It gates
	// proxying only; display status is derived from State independently.
	Ready bool
	// InternalEndpoint is opaque to this layer and only meaningful while
	// the session is running and ready. Empty means not yet proxyable.
	InternalEndpoint string

	// Messages is the append-only history. It is loaded lazily through the
	// sandbox proxy and nil until fetched.
	Messages []Message
}
