package core

import (
	"context"
	"sort"

	"pkt.systems/coxswain/internal/orchclient"
	"pkt.systems/coxswain/internal/orchwire"
	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

// liveSource implements DataSource against the orchestrator gateway. The
// gateway exposes sessions only; each workspace is the projection of one
// session, so workspace CRUD translates to session CRUD.
type liveSource struct {
	client *orchclient.Client
	userID schema.UserID
	logger pslog.Logger
}

// NewLiveSource constructs the orchestrator-backed data source.
func NewLiveSource(client *orchclient.Client, userID schema.UserID, logger pslog.Logger) DataSource {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &liveSource{client: client, userID: userID, logger: logger}
}

func (s *liveSource) CheckHealth(ctx context.Context) (schema.Health, error) {
	resp, err := s.client.CheckHealth(ctx)
	if err != nil {
		return schema.Health{}, orchclient.Classify("check health", schema.KindConnectionError, err)
	}
	return orchclient.FromWireHealth(resp), nil
}

func (s *liveSource) LoadWorkspaces(ctx context.Context, req schema.LoadWorkspacesRequest) (schema.LoadWorkspacesResponse, error) {
	sessions, err := s.client.ListSessions(ctx)
	if err != nil {
		return schema.LoadWorkspacesResponse{}, orchclient.Classify("load workspaces", schema.KindLoadWorkspacesFailed, err)
	}
	workspaces := make([]schema.Workspace, 0, len(sessions))
	for _, wire := range sessions {
		workspaces = append(workspaces, workspaceFromSession(orchclient.FromWireSession(wire), req.UserID))
	}
	return schema.LoadWorkspacesResponse{Workspaces: workspaces}, nil
}

func (s *liveSource) CreateWorkspace(ctx context.Context, req schema.CreateWorkspaceRequest) (schema.CreateWorkspaceResponse, error) {
	resp, err := s.createSession(ctx, schema.CreateSessionRequest{
		UserID:  req.UserID,
		Name:    req.Name,
		RepoURL: req.RepoURL,
		RepoRef: req.RepoRef,
	}, "create workspace", schema.KindCreateWorkspaceFailed)
	if err != nil {
		return schema.CreateWorkspaceResponse{}, err
	}
	return schema.CreateWorkspaceResponse{Workspace: workspaceFromSession(resp.Session, req.UserID)}, nil
}

func (s *liveSource) DeleteWorkspace(ctx context.Context, req schema.DeleteWorkspaceRequest) (schema.DeleteWorkspaceResponse, error) {
	if err := s.client.DeleteSession(ctx, string(req.WorkspaceID)); err != nil {
		return schema.DeleteWorkspaceResponse{}, orchclient.Classify("delete workspace", schema.KindDeleteWorkspaceFailed, err)
	}
	return schema.DeleteWorkspaceResponse{}, nil
}

func (s *liveSource) GetWorkspace(ctx context.Context, req schema.GetWorkspaceRequest) (schema.GetWorkspaceResponse, error) {
	wire, err := s.client.GetSession(ctx, string(req.WorkspaceID))
	if err != nil {
		return schema.GetWorkspaceResponse{}, orchclient.Classify("get workspace", schema.KindLoadWorkspacesFailed, err)
	}
	return schema.GetWorkspaceResponse{Workspace: workspaceFromSession(orchclient.FromWireSession(wire), req.UserID)}, nil
}

func (s *liveSource) ListSessions(ctx context.Context, req schema.ListSessionsRequest) (schema.ListSessionsResponse, error) {
	wire, err := s.client.ListSessions(ctx)
	if err != nil {
		return schema.ListSessionsResponse{}, orchclient.Classify("list sessions", schema.KindLoadSessionsFailed, err)
	}
	sessions := orchclient.FromWireSessions(wire)
	if req.WorkspaceID != "" {
		filtered := sessions[:0]
		for _, session := range sessions {
			if session.WorkspaceID == req.WorkspaceID {
				filtered = append(filtered, session)
			}
		}
		sessions = filtered
	}
	return schema.ListSessionsResponse{Sessions: sessions}, nil
}

func (s *liveSource) CreateSession(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error) {
	return s.createSession(ctx, req, "create session", schema.KindCreateSessionFailed)
}

func (s *liveSource) createSession(ctx context.Context, req schema.CreateSessionRequest, op string, kind schema.APIErrorKind) (schema.CreateSessionResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = s.userID
	}
	labels := req.Labels
	if req.WorkspaceID != "" {
		if labels == nil {
			labels = map[string]string{}
		}
		labels["workspace"] = string(req.WorkspaceID)
	}
	resp, err := s.client.CreateSession(ctx, orchwire.CreateSessionRequest{
		Name:   req.Name,
		UserID: string(userID),
		Config: orchclient.ToWireRepository(req.RepoURL, req.RepoRef),
		Labels: labels,
	})
	if err != nil {
		return schema.CreateSessionResponse{}, orchclient.Classify(op, kind, err)
	}
	if resp.Session == nil {
		// An empty create response is an error, never an empty session.
		return schema.CreateSessionResponse{}, schema.NewAPIError(kind, op, schema.ErrSessionMissing)
	}
	return schema.CreateSessionResponse{Session: orchclient.FromWireSession(*resp.Session)}, nil
}

func (s *liveSource) GetSession(ctx context.Context, req schema.GetSessionRequest) (schema.GetSessionResponse, error) {
	wire, err := s.client.GetSession(ctx, string(req.SessionID))
	if err != nil {
		return schema.GetSessionResponse{}, orchclient.Classify("get session", schema.KindLoadSessionsFailed, err)
	}
	return schema.GetSessionResponse{Session: orchclient.FromWireSession(wire)}, nil
}

func (s *liveSource) DeleteSession(ctx context.Context, req schema.DeleteSessionRequest) (schema.DeleteSessionResponse, error) {
	if err := s.client.DeleteSession(ctx, string(req.SessionID)); err != nil {
		return schema.DeleteSessionResponse{}, orchclient.Classify("delete session", schema.KindDeleteSessionFailed, err)
	}
	return schema.DeleteSessionResponse{}, nil
}

func (s *liveSource) Proxy(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = s.userID
	}
	resp, err := s.client.ProxyHTTP(ctx, orchwire.ProxyRequest{
		SessionID: string(req.SessionID),
		Method:    req.Method,
		Path:      req.Path,
		Headers:   FlattenHeaders(req.Headers),
		Body:      string(req.Body),
		UserID:    string(userID),
	})
	if err != nil {
		return schema.ProxyResponse{}, orchclient.Classify("proxy", schema.KindConnectionError, err)
	}
	return schema.ProxyResponse{
		StatusCode: resp.StatusCode,
		Body:       []byte(resp.Body),
		Headers:    CollapseHeaders(resp.Headers),
	}, nil
}

func (s *liveSource) Close() error {
	return s.client.Close()
}

// FlattenHeaders turns a header map into an ordered pair list for
// transport. Keys are sorted so the order is deterministic.
func FlattenHeaders(headers map[string]string) []orchwire.Header {
	if len(headers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]orchwire.Header, 0, len(keys))
	for _, key := range keys {
		out = append(out, orchwire.Header{Key: key, Value: headers[key]})
	}
	return out
}

// CollapseHeaders reconstitutes a header map from a pair list, dropping
// any entry with an empty key or value.
func CollapseHeaders(headers []orchwire.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		if h.Key == "" || h.Value == "" {
			continue
		}
		out[h.Key] = h.Value
	}
	return out
}

func workspaceFromSession(s schema.Session, owner schema.UserID) schema.Workspace {
	return schema.Workspace{
		ID:        schema.WorkspaceID(s.ID),
		Name:      s.Name,
		Status:    workspaceStatusFromState(s.State),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Repo:      s.Repo,
		OwnerID:   owner,
	}
}

func workspaceStatusFromState(state schema.SessionState) schema.WorkspaceStatus {
	switch state {
	case schema.SessionStateRunning:
		return schema.WorkspaceStatusRunning
	case schema.SessionStateCreating:
		return schema.WorkspaceStatusCreating
	case schema.SessionStateError:
		return schema.WorkspaceStatusError
	default:
		return schema.WorkspaceStatusStopped
	}
}
