package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidUser indicates an invalid user identifier.
	ErrInvalidUser = errors.New("invalid user")
	// ErrWorkspaceNotFound indicates a workspace could not be found.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrSessionNotFound indicates a session could not be found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionMissing indicates a create-session response omitted the
	// session object. An empty response is an error, never accepted as an
	// empty session.
	ErrSessionMissing = errors.New("create session returned no session")
	// ErrSessionNotReady indicates the session's sandbox endpoint is not
	// yet safe to call.
	ErrSessionNotReady = errors.New("session not ready")
)

// APIErrorKind is the closed taxonomy of failure kinds surfaced to the UI.
type APIErrorKind string

const (
	// KindLoadWorkspacesFailed classifies failures loading workspaces.
	KindLoadWorkspacesFailed APIErrorKind = "LOAD_WORKSPACES_FAILED"
	// KindCreateWorkspaceFailed classifies failures creating a workspace.
	KindCreateWorkspaceFailed APIErrorKind = "CREATE_WORKSPACE_FAILED"
	// KindDeleteWorkspaceFailed classifies failures deleting a workspace.
	KindDeleteWorkspaceFailed APIErrorKind = "DELETE_WORKSPACE_FAILED"
	// KindLoadSessionsFailed classifies failures loading sessions.
	KindLoadSessionsFailed APIErrorKind = "LOAD_SESSIONS_FAILED"
	// KindCreateSessionFailed classifies failures creating a session.
	KindCreateSessionFailed APIErrorKind = "CREATE_SESSION_FAILED"
	// KindDeleteSessionFailed classifies failures deleting a session.
	KindDeleteSessionFailed APIErrorKind = "DELETE_SESSION_FAILED"
	// KindConnectionError classifies a reachable-but-failing orchestrator.
	KindConnectionError APIErrorKind = "CONNECTION_ERROR"
	// KindNetworkError classifies an unreachable orchestrator.
	KindNetworkError APIErrorKind = "NETWORK_ERROR"
	// KindUnauthorized classifies authentication failures.
	KindUnauthorized APIErrorKind = "UNAUTHORIZED"
	// KindForbidden classifies authorization failures.
	KindForbidden APIErrorKind = "FORBIDDEN"
	// KindNotFound classifies missing remote resources.
	KindNotFound APIErrorKind = "NOT_FOUND"
	// KindServerError classifies orchestrator-side failures.
	KindServerError APIErrorKind = "SERVER_ERROR"
	// KindUnknown is the unclassified fallback.
	KindUnknown APIErrorKind = "UNKNOWN_ERROR"
)

// APIError wraps a failure with a stable classification. It is carried as a
// value across the facade boundary; the UI layer alone maps a kind to
// title/suggestion text.
type APIError struct {
	Kind    APIErrorKind
	Op      string
	Message string
	Details map[string]any
	Err     error
}

// NewAPIError constructs a classified error.
func NewAPIError(kind APIErrorKind, op string, err error) *APIError {
	return &APIError{Kind: kind, Op: op, Err: err}
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return string(e.Kind)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorKind extracts the classification from an error chain, falling back
// to KindUnknown.
func ErrorKind(err error) APIErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}
