// Package orchwire defines the JSON bodies of the orchestrator gateway.
// Field names and encodings (epoch-second timestamps, proto-style state
// enums) are fixed by the gateway; this package never interprets them.
package orchwire

// Session is the orchestrator's session object as it appears on the wire.
type Session struct {
	// ID is the server-assigned session id.
	ID string `json:"id"`
	// Name is the display name when present.
	Name string `json:"name,omitempty"`
	// State is the lifecycle enum, e.g. "SESSION_STATE_RUNNING".
	State string `json:"state,omitempty"`
	// CreatedAt and UpdatedAt are epoch seconds; zero means absent.
	CreatedAt int64 `json:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty"`
	// Config carries creation-time settings when present.
	Config *SessionConfig `json:"config,omitempty"`
	// Status carries runtime status when present.
	Status *SessionStatus `json:"status,omitempty"`
	// Labels are opaque key/value tags.
	Labels map[string]string `json:"labels,omitempty"`
}

// SessionConfig is the creation-time configuration of a session.
type SessionConfig struct {
	Repository *Repository `json:"repository,omitempty"`
}

// Repository points at the git repository a session works on.
type Repository struct {
	URL string `json:"url"`
	Ref string `json:"ref,omitempty"`
}

// SessionStatus is the runtime status sub-object of a session.
type SessionStatus struct {
	// Ready reports the sandbox endpoint is safe to call.
	Ready bool `json:"ready"`
	// InternalEndpoint is the sandbox endpoint used for proxying.
	InternalEndpoint string `json:"internalEndpoint,omitempty"`
}

// ListSessionsResponse is the GET /v1/sessions response body.
type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

// GetSessionResponse is the GET /v1/sessions/{id} response body.
type GetSessionResponse struct {
	Session *Session `json:"session"`
}

// CreateSessionRequest is the POST /v1/sessions request body.
type CreateSessionRequest struct {
	Name   string            `json:"name"`
	UserID string            `json:"userId"`
	Config *SessionConfig    `json:"config,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
}

// CreateSessionResponse is the POST /v1/sessions response body. A missing
// Session object is an error condition for callers, not an empty session.
type CreateSessionResponse struct {
	Session *Session `json:"session"`
}

// DeleteSessionResponse is the DELETE /v1/sessions/{id} response body.
type DeleteSessionResponse struct{}

// HealthResponse is the GET /v1/health response body.
type HealthResponse struct {
	// Status is "SERVING" or "NOT_SERVING".
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Header is one ordered header pair of a proxied call.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProxyRequest is the POST /v1/sessions/{id}/proxy request body.
type ProxyRequest struct {
	SessionID string   `json:"sessionId"`
	Method    string   `json:"method"`
	Path      string   `json:"path"`
	Headers   []Header `json:"headers,omitempty"`
	Body      string   `json:"body,omitempty"`
	UserID    string   `json:"userId"`
}

// ProxyResponse is the POST /v1/sessions/{id}/proxy response body.
type ProxyResponse struct {
	StatusCode int      `json:"statusCode"`
	Body       string   `json:"body,omitempty"`
	Headers    []Header `json:"headers,omitempty"`
}

// ErrorResponse is the gateway's error body on non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
