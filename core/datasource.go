package core

import (
	"context"

	"pkt.systems/coxswain/schema"
)

// DataSource is the backend contract behind the sync service: workspace and
// session lifecycle plus the raw sandbox proxy. Two interchangeable
// implementations exist, fixture-backed and orchestrator-backed, selected
// once at startup. Implementations add no retry logic; retries are the
// caller's responsibility.
type DataSource interface {
	CheckHealth(ctx context.Context) (schema.Health, error)

	LoadWorkspaces(ctx context.Context, req schema.LoadWorkspacesRequest) (schema.LoadWorkspacesResponse, error)
	CreateWorkspace(ctx context.Context, req schema.CreateWorkspaceRequest) (schema.CreateWorkspaceResponse, error)
	DeleteWorkspace(ctx context.Context, req schema.DeleteWorkspaceRequest) (schema.DeleteWorkspaceResponse, error)
	GetWorkspace(ctx context.Context, req schema.GetWorkspaceRequest) (schema.GetWorkspaceResponse, error)

	ListSessions(ctx context.Context, req schema.ListSessionsRequest) (schema.ListSessionsResponse, error)
	CreateSession(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error)
	GetSession(ctx context.Context, req schema.GetSessionRequest) (schema.GetSessionResponse, error)
	DeleteSession(ctx context.Context, req schema.DeleteSessionRequest) (schema.DeleteSessionResponse, error)

	// Proxy routes one raw HTTP call through a session's sandbox endpoint.
	// The body is opaque at this layer.
	Proxy(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error)

	Close() error
}
