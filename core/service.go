package core

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"pkt.systems/coxswain/internal/logx"
	"pkt.systems/coxswain/internal/orchclient"
	"pkt.systems/coxswain/internal/orchwire"
	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

type syncService struct {
	source DataSource
	logger pslog.Logger
}

// NewService wraps a data source in the sync orchestration facade.
func NewService(source DataSource, logger pslog.Logger) Service {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &syncService{source: source, logger: logger}
}

func (s *syncService) CheckHealth(ctx context.Context) (schema.Health, error) {
	health, err := s.source.CheckHealth(ctx)
	if err != nil {
		s.logger.Warn("service health check failed", "err", err)
		return schema.Health{}, err
	}
	return health, nil
}

func (s *syncService) LoadWorkspaces(ctx context.Context, req schema.LoadWorkspacesRequest) (schema.LoadWorkspacesResponse, error) {
	resp, err := s.source.LoadWorkspaces(ctx, req)
	if err != nil {
		s.logger.Warn("service load workspaces failed", "user", req.UserID, "err", err)
		return schema.LoadWorkspacesResponse{}, err
	}
	s.logger.Debug("service load workspaces ok", "user", req.UserID, "count", len(resp.Workspaces))
	return resp, nil
}

func (s *syncService) CreateWorkspace(ctx context.Context, req schema.CreateWorkspaceRequest) (schema.CreateWorkspaceResponse, error) {
	s.logger.Debug("service create workspace start", "user", req.UserID, "name", req.Name)
	resp, err := s.source.CreateWorkspace(ctx, req)
	if err != nil {
		s.logger.Warn("service create workspace failed", "user", req.UserID, "err", err)
		return schema.CreateWorkspaceResponse{}, err
	}
	return resp, nil
}

func (s *syncService) DeleteWorkspace(ctx context.Context, req schema.DeleteWorkspaceRequest) (schema.DeleteWorkspaceResponse, error) {
	resp, err := s.source.DeleteWorkspace(ctx, req)
	if err != nil {
		s.logger.Warn("service delete workspace failed", "workspace", req.WorkspaceID, "err", err)
		return schema.DeleteWorkspaceResponse{}, err
	}
	return resp, nil
}

func (s *syncService) GetWorkspace(ctx context.Context, req schema.GetWorkspaceRequest) (schema.GetWorkspaceResponse, error) {
	resp, err := s.source.GetWorkspace(ctx, req)
	if err != nil {
		s.logger.Warn("service get workspace failed", "workspace", req.WorkspaceID, "err", err)
		return schema.GetWorkspaceResponse{}, err
	}
	return resp, nil
}

// LoadConversations lists sessions and projects each into a conversation,
// preserving the order the backend returned them in.
func (s *syncService) LoadConversations(ctx context.Context, req schema.LoadConversationsRequest) (schema.LoadConversationsResponse, error) {
	resp, err := s.source.ListSessions(ctx, schema.ListSessionsRequest{UserID: req.UserID})
	if err != nil {
		s.logger.Warn("service load conversations failed", "user", req.UserID, "err", err)
		return schema.LoadConversationsResponse{}, err
	}
	conversations := AdaptSessions(resp.Sessions)
	s.logger.Debug("service load conversations ok", "user", req.UserID, "count", len(conversations))
	return schema.LoadConversationsResponse{Conversations: conversations}, nil
}

// CreateConversation creates the backing session and adapts it. A create
// that reports success without a session object is a backend contract
// violation and fails loudly instead of returning an empty conversation.
func (s *syncService) CreateConversation(ctx context.Context, req schema.CreateConversationRequest) (schema.CreateConversationResponse, error) {
	s.logger.Debug("service create conversation start", "user", req.UserID, "title", req.Title)
	create := schema.CreateSessionRequest{
		UserID:  req.UserID,
		Name:    req.Title,
		RepoURL: req.RepoURL,
		RepoRef: req.RepoRef,
	}
	// Sessions made through the conversation surface carry their creator.
	if req.UserID != "" {
		create.Labels = map[string]string{"creator": string(req.UserID)}
	}
	resp, err := s.source.CreateSession(ctx, create)
	if err != nil {
		s.logger.Warn("service create conversation failed", "user", req.UserID, "err", err)
		return schema.CreateConversationResponse{}, err
	}
	if resp.Session.ID == "" {
		err := schema.NewAPIError(schema.KindCreateSessionFailed, "create conversation", schema.ErrSessionMissing)
		s.logger.Warn("service create conversation failed", "user", req.UserID, "err", err)
		return schema.CreateConversationResponse{}, err
	}
	conversation := AdaptSession(resp.Session)
	logx.WithRepo(s.logger, conversation.Repo).Info("service create conversation ok",
		"user", req.UserID, "session", conversation.SessionID)
	return schema.CreateConversationResponse{Conversation: conversation}, nil
}

func (s *syncService) DeleteConversation(ctx context.Context, req schema.DeleteConversationRequest) (schema.DeleteConversationResponse, error) {
	if _, err := s.source.DeleteSession(ctx, schema.DeleteSessionRequest{UserID: req.UserID, SessionID: req.SessionID}); err != nil {
		s.logger.Warn("service delete conversation failed", "session", req.SessionID, "err", err)
		return schema.DeleteConversationResponse{}, err
	}
	return schema.DeleteConversationResponse{}, nil
}

// ProxySandboxRequest is the single chokepoint for sandbox traffic. All
// typed sandbox operations funnel through here; failures are logged with
// context and re-raised unchanged.
func (s *syncService) ProxySandboxRequest(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
	if req.SessionID == "" {
		return schema.ProxyResponse{}, schema.NewAPIError(schema.KindConnectionError, "proxy sandbox request", schema.ErrInvalidRequest)
	}
	log := logx.WithSession(s.logger, req.SessionID)
	resp, err := s.source.Proxy(ctx, req)
	if err != nil {
		log.Warn("service sandbox proxy failed", "method", req.Method, "path", req.Path, "err", err)
		return schema.ProxyResponse{}, err
	}
	log.Trace("service sandbox proxy ok", "method", req.Method, "path", req.Path, "status", resp.StatusCode)
	return resp, nil
}

func (s *syncService) SendMessage(ctx context.Context, req schema.SendMessageRequest) (schema.SendMessageResponse, error) {
	msgType := req.Type
	if msgType == "" {
		msgType = schema.MessageTypeUser
	}
	body := orchwire.ChatMessageRequest{Content: req.Content, Type: string(msgType)}
	var out orchwire.ChatMessageResponse
	if err := s.sandboxCall(ctx, req.UserID, req.SessionID, "POST", "/chat/messages", body, &out, "send message"); err != nil {
		return schema.SendMessageResponse{}, err
	}
	if out.Message == nil {
		return schema.SendMessageResponse{}, schema.NewAPIError(schema.KindConnectionError, "send message", schema.ErrInvalidRequest)
	}
	msg := orchclient.FromWireMessage(*out.Message)
	if msg.SessionID == "" {
		msg.SessionID = req.SessionID
	}
	return schema.SendMessageResponse{Message: msg}, nil
}

func (s *syncService) ListMessages(ctx context.Context, req schema.ListMessagesRequest) (schema.ListMessagesResponse, error) {
	var out orchwire.ListMessagesResponse
	if err := s.sandboxCall(ctx, req.UserID, req.SessionID, "GET", "/chat/messages", nil, &out, "list messages"); err != nil {
		return schema.ListMessagesResponse{}, err
	}
	return schema.ListMessagesResponse{Messages: orchclient.FromWireMessages(out.Messages)}, nil
}

func (s *syncService) ListFiles(ctx context.Context, req schema.ListFilesRequest) (schema.ListFilesResponse, error) {
	var out orchwire.ListFilesResponse
	if err := s.sandboxCall(ctx, req.UserID, req.SessionID, "GET", "/files", nil, &out, "list files"); err != nil {
		return schema.ListFilesResponse{}, err
	}
	return schema.ListFilesResponse{Files: orchclient.FromWireFiles(out.Files)}, nil
}

func (s *syncService) ReadFile(ctx context.Context, req schema.ReadFileRequest) (schema.ReadFileResponse, error) {
	var out orchwire.ReadFileResponse
	path := "/files/" + escapeFilePath(req.Path)
	if err := s.sandboxCall(ctx, req.UserID, req.SessionID, "GET", path, nil, &out, "read file"); err != nil {
		return schema.ReadFileResponse{}, err
	}
	file := schema.FileContent{Path: out.Path, Content: out.Content}
	if file.Path == "" {
		file.Path = req.Path
	}
	return schema.ReadFileResponse{File: file}, nil
}

func (s *syncService) ExecuteCommand(ctx context.Context, req schema.ExecuteCommandRequest) (schema.ExecuteCommandResponse, error) {
	body := orchwire.ExecuteRequest{Command: req.Command}
	var out orchwire.ExecuteResponse
	if err := s.sandboxCall(ctx, req.UserID, req.SessionID, "POST", "/terminal/execute", body, &out, "execute command"); err != nil {
		return schema.ExecuteCommandResponse{}, err
	}
	return schema.ExecuteCommandResponse{Result: schema.CommandResult{
		Command:  req.Command,
		ExitCode: out.ExitCode,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
	}}, nil
}

func (s *syncService) GitStatus(ctx context.Context, req schema.GitStatusRequest) (schema.GitStatusResponse, error) {
	var out orchwire.GitStatusResponse
	if err := s.sandboxCall(ctx, req.UserID, req.SessionID, "GET", "/git/status", nil, &out, "git status"); err != nil {
		return schema.GitStatusResponse{}, err
	}
	return schema.GitStatusResponse{Status: orchclient.FromWireGitStatus(out)}, nil
}

// sandboxCall serializes the body once, routes the request through
// ProxySandboxRequest and decodes the reply. Non-2xx sandbox statuses are
// folded into the shared taxonomy here so the typed operations never see a
// raw status code.
func (s *syncService) sandboxCall(ctx context.Context, userID schema.UserID, sessionID schema.SessionID, method, path string, body, out any, op string) error {
	req := schema.ProxyRequest{
		UserID:    userID,
		SessionID: sessionID,
		Method:    method,
		Path:      path,
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return schema.NewAPIError(schema.KindConnectionError, op, err)
		}
		req.Body = data
		req.Headers = map[string]string{"Content-Type": "application/json"}
	}
	resp, err := s.ProxySandboxRequest(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		transport := &orchclient.TransportError{StatusCode: resp.StatusCode, Message: sandboxErrorMessage(resp.Body)}
		err := orchclient.Classify(op, schema.KindConnectionError, transport)
		s.logger.Warn("service sandbox call failed",
			"session", sessionID, "method", method, "path", path, "status", resp.StatusCode, "err", err)
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return schema.NewAPIError(schema.KindConnectionError, op, err)
	}
	return nil
}

func sandboxErrorMessage(body []byte) string {
	var wire orchwire.ErrorResponse
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != "" {
		return wire.Error
	}
	return strings.TrimSpace(string(body))
}

// escapeFilePath escapes each path segment while keeping separators.
func escapeFilePath(p string) string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
