package schema

// Workspace lifecycle.

// LoadWorkspacesRequest describes a request to list workspaces.
type LoadWorkspacesRequest struct {
	UserID UserID
}

// LoadWorkspacesResponse reports workspaces in the order received.
type LoadWorkspacesResponse struct {
	Workspaces []Workspace
}

// CreateWorkspaceRequest describes a request to create a workspace.
type CreateWorkspaceRequest struct {
	UserID  UserID
	Name    string
	RepoURL string
	RepoRef string
	Limits  *ResourceLimits
}

// CreateWorkspaceResponse reports the created workspace.
type CreateWorkspaceResponse struct {
	Workspace Workspace
}

// DeleteWorkspaceRequest describes a request to delete a workspace.
type DeleteWorkspaceRequest struct {
	UserID      UserID
	WorkspaceID WorkspaceID
}

// DeleteWorkspaceResponse confirms workspace deletion.
type DeleteWorkspaceResponse struct{}

// GetWorkspaceRequest describes a request to fetch one workspace.
type GetWorkspaceRequest struct {
	UserID      UserID
	WorkspaceID WorkspaceID
}

// GetWorkspaceResponse reports the workspace.
type GetWorkspaceResponse struct {
	Workspace Workspace
}

// Session lifecycle.

// ListSessionsRequest describes a request to list sessions. WorkspaceID is
// optional; when empty, sessions across all workspaces are returned.
type ListSessionsRequest struct {
	UserID      UserID
	WorkspaceID WorkspaceID
}

// ListSessionsResponse reports sessions in the order received.
type ListSessionsResponse struct {
	Sessions []Session
}

// CreateSessionRequest describes a request to create a session.
type CreateSessionRequest struct {
	UserID      UserID
	WorkspaceID WorkspaceID
	Name        string
	RepoURL     string
	RepoRef     string
	Labels      map[string]string
}

// CreateSessionResponse reports the created session.
type CreateSessionResponse struct {
	Session Session
}

// GetSessionRequest describes a request to fetch one session.
type GetSessionRequest struct {
	UserID    UserID
	SessionID SessionID
}

// GetSessionResponse reports the session.
type GetSessionResponse struct {
	Session Session
}

// DeleteSessionRequest describes a request to delete a session.
type DeleteSessionRequest struct {
	UserID    UserID
	SessionID SessionID
}

// DeleteSessionResponse confirms session deletion.
type DeleteSessionResponse struct{}

// Sandbox operations.

// SendMessageRequest describes a chat message submission.
type SendMessageRequest struct {
	UserID    UserID
	SessionID SessionID
	Content   string
	Type      MessageType
}

// SendMessageResponse reports the message as accepted by the sandbox.
type SendMessageResponse struct {
	Message Message
}

// ListMessagesRequest describes a request for a session transcript.
type ListMessagesRequest struct {
	UserID    UserID
	SessionID SessionID
}

// ListMessagesResponse reports the transcript in order.
type ListMessagesResponse struct {
	Messages []Message
}

// ListFilesRequest describes a request for a sandbox file listing.
type ListFilesRequest struct {
	UserID    UserID
	SessionID SessionID
}

// ListFilesResponse reports the file listing.
type ListFilesResponse struct {
	Files []FileEntry
}

// ReadFileRequest describes a request to read one sandbox file.
type ReadFileRequest struct {
	UserID    UserID
	SessionID SessionID
	Path      string
}

// ReadFileResponse reports the file content.
type ReadFileResponse struct {
	File FileContent
}

// ExecuteCommandRequest describes a terminal command invocation.
type ExecuteCommandRequest struct {
	UserID    UserID
	SessionID SessionID
	Command   string
}

// ExecuteCommandResponse reports the command outcome.
type ExecuteCommandResponse struct {
	Result CommandResult
}

// GitStatusRequest describes a request for sandbox git status.
type GitStatusRequest struct {
	UserID    UserID
	SessionID SessionID
}

// GitStatusResponse reports the git status.
type GitStatusResponse struct {
	Status GitStatus
}

// Conversation-shaped equivalents, kept for display-layer compatibility.

// LoadConversationsRequest describes a request to list conversations.
type LoadConversationsRequest struct {
	UserID UserID
}

// LoadConversationsResponse reports conversations in the order their
// sessions were received.
type LoadConversationsResponse struct {
	Conversations []Conversation
}

// CreateConversationRequest describes a request to create a conversation
// (and its backing session).
type CreateConversationRequest struct {
	UserID  UserID
	Title   string
	RepoURL string
	RepoRef string
}

// CreateConversationResponse reports the created conversation.
type CreateConversationResponse struct {
	Conversation Conversation
}

// DeleteConversationRequest describes a request to delete a conversation's
// backing session.
type DeleteConversationRequest struct {
	UserID    UserID
	SessionID SessionID
}

// DeleteConversationResponse confirms deletion.
type DeleteConversationResponse struct{}

// Proxying.

// ProxyRequest describes a raw HTTP call routed through a session's sandbox
// endpoint. Body is passed through opaque; interpretation is the caller's
// job.
type ProxyRequest struct {
	UserID    UserID
	SessionID SessionID
	Method    string
	Path      string
	Body      []byte
	Headers   map[string]string
}

// ProxyResponse is the raw result of a proxied call.
type ProxyResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}
