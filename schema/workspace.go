package schema

import "time"

// WorkspaceStatus describes the lifecycle of a workspace.
type WorkspaceStatus string

const (
	// WorkspaceStatusRunning indicates the workspace is up.
	WorkspaceStatusRunning WorkspaceStatus = "running"
	// WorkspaceStatusCreating indicates the workspace is being provisioned.
	WorkspaceStatusCreating WorkspaceStatus = "creating"
	// WorkspaceStatusStopped indicates the workspace has stopped.
	WorkspaceStatusStopped WorkspaceStatus = "stopped"
	// WorkspaceStatusError indicates provisioning or runtime failure.
	WorkspaceStatusError WorkspaceStatus = "error"
)

// ResourceLimits bounds a workspace's sandbox resources.
type ResourceLimits struct {
	CPUMillis int
	MemoryMB  int
	DiskMB    int
}

// Workspace is a provisioned remote sandbox environment. Status is
// server-authoritative and only refreshed, never derived locally, except
// for optimistic "creating" placeholders pending confirmation.
type Workspace struct {
	ID        WorkspaceID
	Name      string
	Status    WorkspaceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	Repo      RepositoryRef
	Limits    *ResourceLimits
	OwnerID   UserID
}
