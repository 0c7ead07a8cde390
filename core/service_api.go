package core

import (
	"context"

	"pkt.systems/coxswain/schema"
)

// Service is the sync orchestration facade consumed by the rest of the
// application. It wraps a DataSource with higher-level workflows, logs
// failures with context, and re-raises them unchanged.
type Service interface {
	CheckHealth(ctx context.Context) (schema.Health, error)

	LoadWorkspaces(ctx context.Context, req schema.LoadWorkspacesRequest) (schema.LoadWorkspacesResponse, error)
	CreateWorkspace(ctx context.Context, req schema.CreateWorkspaceRequest) (schema.CreateWorkspaceResponse, error)
	DeleteWorkspace(ctx context.Context, req schema.DeleteWorkspaceRequest) (schema.DeleteWorkspaceResponse, error)
	GetWorkspace(ctx context.Context, req schema.GetWorkspaceRequest) (schema.GetWorkspaceResponse, error)

	LoadConversations(ctx context.Context, req schema.LoadConversationsRequest) (schema.LoadConversationsResponse, error)
	CreateConversation(ctx context.Context, req schema.CreateConversationRequest) (schema.CreateConversationResponse, error)
	DeleteConversation(ctx context.Context, req schema.DeleteConversationRequest) (schema.DeleteConversationResponse, error)

	SendMessage(ctx context.Context, req schema.SendMessageRequest) (schema.SendMessageResponse, error)
	ListMessages(ctx context.Context, req schema.ListMessagesRequest) (schema.ListMessagesResponse, error)
	ListFiles(ctx context.Context, req schema.ListFilesRequest) (schema.ListFilesResponse, error)
	ReadFile(ctx context.Context, req schema.ReadFileRequest) (schema.ReadFileResponse, error)
	ExecuteCommand(ctx context.Context, req schema.ExecuteCommandRequest) (schema.ExecuteCommandResponse, error)
	GitStatus(ctx context.Context, req schema.GitStatusRequest) (schema.GitStatusResponse, error)

	// ProxySandboxRequest is the single chokepoint through which all
	// sandbox operations flow.
	ProxySandboxRequest(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error)
}
