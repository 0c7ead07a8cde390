package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"pkt.systems/coxswain/internal/orchwire"
	"pkt.systems/coxswain/schema"
)

type fakeSource struct {
	checkHealth   func(ctx context.Context) (schema.Health, error)
	listSessions  func(ctx context.Context, req schema.ListSessionsRequest) (schema.ListSessionsResponse, error)
	createSession func(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error)
	deleteSession func(ctx context.Context, req schema.DeleteSessionRequest) (schema.DeleteSessionResponse, error)
	proxy         func(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error)
}

func (f *fakeSource) CheckHealth(ctx context.Context) (schema.Health, error) {
	if f.checkHealth != nil {
		return f.checkHealth(ctx)
	}
	return schema.Health{State: schema.HealthServing}, nil
}

func (f *fakeSource) LoadWorkspaces(ctx context.Context, req schema.LoadWorkspacesRequest) (schema.LoadWorkspacesResponse, error) {
	return schema.LoadWorkspacesResponse{}, nil
}

func (f *fakeSource) CreateWorkspace(ctx context.Context, req schema.CreateWorkspaceRequest) (schema.CreateWorkspaceResponse, error) {
	return schema.CreateWorkspaceResponse{}, nil
}

func (f *fakeSource) DeleteWorkspace(ctx context.Context, req schema.DeleteWorkspaceRequest) (schema.DeleteWorkspaceResponse, error) {
	return schema.DeleteWorkspaceResponse{}, nil
}

func (f *fakeSource) GetWorkspace(ctx context.Context, req schema.GetWorkspaceRequest) (schema.GetWorkspaceResponse, error) {
	return schema.GetWorkspaceResponse{}, nil
}

func (f *fakeSource) ListSessions(ctx context.Context, req schema.ListSessionsRequest) (schema.ListSessionsResponse, error) {
	if f.listSessions != nil {
		return f.listSessions(ctx, req)
	}
	return schema.ListSessionsResponse{}, nil
}

func (f *fakeSource) CreateSession(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error) {
	if f.createSession != nil {
		return f.createSession(ctx, req)
	}
	return schema.CreateSessionResponse{}, nil
}

func (f *fakeSource) GetSession(ctx context.Context, req schema.GetSessionRequest) (schema.GetSessionResponse, error) {
	return schema.GetSessionResponse{}, nil
}

func (f *fakeSource) DeleteSession(ctx context.Context, req schema.DeleteSessionRequest) (schema.DeleteSessionResponse, error) {
	if f.deleteSession != nil {
		return f.deleteSession(ctx, req)
	}
	return schema.DeleteSessionResponse{}, nil
}

func (f *fakeSource) Proxy(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
	if f.proxy != nil {
		return f.proxy(ctx, req)
	}
	return schema.ProxyResponse{StatusCode: http.StatusOK}, nil
}

func (f *fakeSource) Close() error { return nil }

func jsonBody(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestLoadConversationsPreservesOrder(t *testing.T) {
	now := time.Now()
	src := &fakeSource{
		listSessions: func(ctx context.Context, req schema.ListSessionsRequest) (schema.ListSessionsResponse, error) {
			return schema.ListSessionsResponse{Sessions: []schema.Session{
				{ID: "zeta-session", State: schema.SessionStateRunning, Ready: true, CreatedAt: now, UpdatedAt: now},
				{ID: "alpha-session", State: schema.SessionStateCreating, CreatedAt: now, UpdatedAt: now},
				{ID: "mid-session", State: schema.SessionStateError, CreatedAt: now, UpdatedAt: now},
			}}, nil
		},
	}
	svc := NewService(src, nil)
	resp, err := svc.LoadConversations(context.Background(), schema.LoadConversationsRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("LoadConversations: %v", err)
	}
	if len(resp.Conversations) != 3 {
		t.Fatalf("got %d conversations, want 3", len(resp.Conversations))
	}
	wantSessions := []schema.SessionID{"zeta-session", "alpha-session", "mid-session"}
	wantStatuses := []schema.ConnectionStatus{schema.StatusConnected, schema.StatusConnecting, schema.StatusError}
	for i, conv := range resp.Conversations {
		if conv.SessionID != wantSessions[i] {
			t.Errorf("conversation %d: session = %q, want %q", i, conv.SessionID, wantSessions[i])
		}
		if conv.Status != wantStatuses[i] {
			t.Errorf("conversation %d: status = %q, want %q", i, conv.Status, wantStatuses[i])
		}
	}
}

func TestCreateConversationMissingSessionFailsLoudly(t *testing.T) {
	src := &fakeSource{
		createSession: func(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error) {
			return schema.CreateSessionResponse{}, nil
		},
	}
	svc := NewService(src, nil)
	_, err := svc.CreateConversation(context.Background(), schema.CreateConversationRequest{UserID: "u1", Title: "t"})
	if err == nil {
		t.Fatal("expected error for missing session object")
	}
	if kind := schema.ErrorKind(err); kind != schema.KindCreateSessionFailed {
		t.Errorf("kind = %q, want %q", kind, schema.KindCreateSessionFailed)
	}
	if !errors.Is(err, schema.ErrSessionMissing) {
		t.Errorf("error %v does not wrap ErrSessionMissing", err)
	}
}

func TestCreateConversationPassesTitleAndRepo(t *testing.T) {
	var got schema.CreateSessionRequest
	src := &fakeSource{
		createSession: func(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error) {
			got = req
			return schema.CreateSessionResponse{Session: schema.Session{
				ID:    "sess-1",
				Name:  req.Name,
				State: schema.SessionStateCreating,
			}}, nil
		},
	}
	svc := NewService(src, nil)
	resp, err := svc.CreateConversation(context.Background(), schema.CreateConversationRequest{
		UserID:  "u1",
		Title:   "fix the bug",
		RepoURL: "https://github.com/acme/widgets",
		RepoRef: "main",
	})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if got.Name != "fix the bug" || got.RepoURL != "https://github.com/acme/widgets" || got.RepoRef != "main" {
		t.Errorf("backend request = %+v", got)
	}
	if got.Labels["creator"] != "u1" {
		t.Errorf("creator label = %q, want u1", got.Labels["creator"])
	}
	if resp.Conversation.SessionID != "sess-1" {
		t.Errorf("conversation session = %q, want sess-1", resp.Conversation.SessionID)
	}
	if resp.Conversation.Status != schema.StatusConnecting {
		t.Errorf("conversation status = %q, want connecting", resp.Conversation.Status)
	}
}

func TestCreateConversationReRaisesUnchanged(t *testing.T) {
	backendErr := schema.NewAPIError(schema.KindCreateSessionFailed, "create session", errors.New("boom"))
	src := &fakeSource{
		createSession: func(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error) {
			return schema.CreateSessionResponse{}, backendErr
		},
	}
	svc := NewService(src, nil)
	_, err := svc.CreateConversation(context.Background(), schema.CreateConversationRequest{UserID: "u1", Title: "t"})
	if !errors.Is(err, backendErr) {
		t.Fatalf("error = %v, want the backend error unchanged", err)
	}
}

func TestProxySandboxRequestRequiresSession(t *testing.T) {
	svc := NewService(&fakeSource{}, nil)
	_, err := svc.ProxySandboxRequest(context.Background(), schema.ProxyRequest{Method: "GET", Path: "/files"})
	if err == nil {
		t.Fatal("expected error for empty session id")
	}
	if !errors.Is(err, schema.ErrInvalidRequest) {
		t.Errorf("error %v does not wrap ErrInvalidRequest", err)
	}
}

func TestSendMessageRoutesThroughProxy(t *testing.T) {
	var got schema.ProxyRequest
	src := &fakeSource{
		proxy: func(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
			got = req
			return schema.ProxyResponse{
				StatusCode: http.StatusOK,
				Body: jsonBody(t, orchwire.ChatMessageResponse{Message: &orchwire.ChatMessage{
					ID:      "msg-1",
					Type:    "user",
					Content: "hello",
				}}),
			}, nil
		},
	}
	svc := NewService(src, nil)
	resp, err := svc.SendMessage(context.Background(), schema.SendMessageRequest{
		UserID:    "u1",
		SessionID: "sess-1",
		Content:   "hello",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got.Method != "POST" || got.Path != "/chat/messages" {
		t.Errorf("proxied %s %s, want POST /chat/messages", got.Method, got.Path)
	}
	if got.Headers["Content-Type"] != "application/json" {
		t.Errorf("content type header = %q", got.Headers["Content-Type"])
	}
	var body orchwire.ChatMessageRequest
	if err := json.Unmarshal(got.Body, &body); err != nil {
		t.Fatalf("proxied body: %v", err)
	}
	if body.Content != "hello" || body.Type != "user" {
		t.Errorf("proxied body = %+v", body)
	}
	if resp.Message.ID != "msg-1" {
		t.Errorf("message id = %q, want msg-1", resp.Message.ID)
	}
	if resp.Message.SessionID != "sess-1" {
		t.Errorf("message session = %q, want sess-1", resp.Message.SessionID)
	}
	if resp.Message.Status != schema.MessageStatusSent {
		t.Errorf("message status = %q, want sent", resp.Message.Status)
	}
}

func TestSandboxCallClassifiesStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   schema.APIErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, schema.KindUnauthorized},
		{"forbidden", http.StatusForbidden, schema.KindForbidden},
		{"not found", http.StatusNotFound, schema.KindNotFound},
		{"server error", http.StatusInternalServerError, schema.KindServerError},
		{"bad request falls back", http.StatusBadRequest, schema.KindConnectionError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &fakeSource{
				proxy: func(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
					return schema.ProxyResponse{
						StatusCode: tc.status,
						Body:       []byte(`{"error":"nope"}`),
					}, nil
				},
			}
			svc := NewService(src, nil)
			_, err := svc.ListFiles(context.Background(), schema.ListFilesRequest{UserID: "u1", SessionID: "sess-1"})
			if err == nil {
				t.Fatal("expected error")
			}
			if kind := schema.ErrorKind(err); kind != tc.want {
				t.Errorf("kind = %q, want %q", kind, tc.want)
			}
		})
	}
}

func TestReadFileEscapesPathSegments(t *testing.T) {
	var gotPath string
	src := &fakeSource{
		proxy: func(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
			gotPath = req.Path
			return schema.ProxyResponse{
				StatusCode: http.StatusOK,
				Body:       jsonBody(t, orchwire.ReadFileResponse{Path: "src/my file.go", Content: "package x"}),
			}, nil
		},
	}
	svc := NewService(src, nil)
	resp, err := svc.ReadFile(context.Background(), schema.ReadFileRequest{
		UserID:    "u1",
		SessionID: "sess-1",
		Path:      "src/my file.go",
	})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if gotPath != "/files/src/my%20file.go" {
		t.Errorf("proxied path = %q", gotPath)
	}
	if resp.File.Content != "package x" {
		t.Errorf("content = %q", resp.File.Content)
	}
}

func TestExecuteCommandCarriesResult(t *testing.T) {
	src := &fakeSource{
		proxy: func(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
			var body orchwire.ExecuteRequest
			if err := json.Unmarshal(req.Body, &body); err != nil {
				t.Fatalf("proxied body: %v", err)
			}
			if body.Command != "ls -la" {
				t.Errorf("command = %q", body.Command)
			}
			return schema.ProxyResponse{
				StatusCode: http.StatusOK,
				Body:       jsonBody(t, orchwire.ExecuteResponse{ExitCode: 2, Stderr: "denied"}),
			}, nil
		},
	}
	svc := NewService(src, nil)
	resp, err := svc.ExecuteCommand(context.Background(), schema.ExecuteCommandRequest{
		UserID:    "u1",
		SessionID: "sess-1",
		Command:   "ls -la",
	})
	if err != nil {
		t.Fatalf("ExecuteCommand: %v", err)
	}
	if resp.Result.ExitCode != 2 || resp.Result.Stderr != "denied" || resp.Result.Command != "ls -la" {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestGitStatusDecodesReport(t *testing.T) {
	src := &fakeSource{
		proxy: func(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
			if req.Method != "GET" || req.Path != "/git/status" {
				t.Errorf("proxied %s %s", req.Method, req.Path)
			}
			return schema.ProxyResponse{
				StatusCode: http.StatusOK,
				Body: jsonBody(t, orchwire.GitStatusResponse{
					Branch: "main",
					Files:  []orchwire.GitFile{{Path: "a.go", Status: "M"}},
				}),
			}, nil
		},
	}
	svc := NewService(src, nil)
	resp, err := svc.GitStatus(context.Background(), schema.GitStatusRequest{UserID: "u1", SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("GitStatus: %v", err)
	}
	if resp.Status.Branch != "main" || resp.Status.Clean || len(resp.Status.Files) != 1 {
		t.Errorf("status = %+v", resp.Status)
	}
}
