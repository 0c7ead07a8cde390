// Package fixture provides an in-memory, disk-backed data source used in
// demo mode. It serves the same contract as the orchestrator-backed source,
// including a simulated sandbox surface behind the proxy, so the rest of
// the application cannot tell the two apart.
package fixture

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"pkt.systems/coxswain/internal/persist"
	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

type userState struct {
	workspaces []schema.Workspace
	sessions   []schema.Session
	messages   map[schema.SessionID][]schema.Message
	files      map[schema.SessionID][]schema.FileEntry
}

// Source is the fixture-backed data source. Safe for concurrent use.
type Source struct {
	mu     sync.Mutex
	users  map[schema.UserID]*userState
	store  *persist.Store
	logger pslog.Logger
	now    func() time.Time
}

// NewSource constructs a fixture source. The store is optional; when nil,
// state lives only in memory.
func NewSource(store *persist.Store, logger pslog.Logger) *Source {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Source{
		users:  make(map[schema.UserID]*userState),
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CheckHealth always reports serving; the fixture backend has nothing to
// probe.
func (s *Source) CheckHealth(ctx context.Context) (schema.Health, error) {
	return schema.Health{
		State:   schema.HealthServing,
		Version: "fixture",
		Details: map[string]string{"mode": "demo"},
	}, nil
}

func (s *Source) LoadWorkspaces(ctx context.Context, req schema.LoadWorkspacesRequest) (schema.LoadWorkspacesResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)
	out := make([]schema.Workspace, len(state.workspaces))
	copy(out, state.workspaces)
	return schema.LoadWorkspacesResponse{Workspaces: out}, nil
}

func (s *Source) CreateWorkspace(ctx context.Context, req schema.CreateWorkspaceRequest) (schema.CreateWorkspaceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)
	now := s.now()
	ws := schema.Workspace{
		ID:        schema.WorkspaceID(newID()),
		Name:      req.Name,
		Status:    schema.WorkspaceStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
		Repo:      schema.RepositoryRef{URL: req.RepoURL, Ref: req.RepoRef},
		Limits:    req.Limits,
		OwnerID:   req.UserID,
	}
	state.workspaces = append(state.workspaces, ws)
	sess := s.addSession(state, schema.CreateSessionRequest{
		UserID:      req.UserID,
		WorkspaceID: ws.ID,
		Name:        req.Name,
		RepoURL:     req.RepoURL,
		RepoRef:     req.RepoRef,
	})
	s.logger.Debug("fixture workspace created", "user", req.UserID, "workspace", ws.ID, "session", sess.ID)
	s.persistLocked(req.UserID, state)
	return schema.CreateWorkspaceResponse{Workspace: ws}, nil
}

func (s *Source) DeleteWorkspace(ctx context.Context, req schema.DeleteWorkspaceRequest) (schema.DeleteWorkspaceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)
	found := false
	kept := state.workspaces[:0]
	for _, ws := range state.workspaces {
		if ws.ID == req.WorkspaceID {
			found = true
			continue
		}
		kept = append(kept, ws)
	}
	state.workspaces = kept
	if !found {
		return schema.DeleteWorkspaceResponse{}, schema.NewAPIError(schema.KindNotFound, "delete workspace", schema.ErrWorkspaceNotFound)
	}
	sessions := state.sessions[:0]
	for _, sess := range state.sessions {
		if sess.WorkspaceID == req.WorkspaceID {
			delete(state.messages, sess.ID)
			delete(state.files, sess.ID)
			continue
		}
		sessions = append(sessions, sess)
	}
	state.sessions = sessions
	s.persistLocked(req.UserID, state)
	return schema.DeleteWorkspaceResponse{}, nil
}

func (s *Source) GetWorkspace(ctx context.Context, req schema.GetWorkspaceRequest) (schema.GetWorkspaceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)
	for _, ws := range state.workspaces {
		if ws.ID == req.WorkspaceID {
			return schema.GetWorkspaceResponse{Workspace: ws}, nil
		}
	}
	return schema.GetWorkspaceResponse{}, schema.NewAPIError(schema.KindNotFound, "get workspace", schema.ErrWorkspaceNotFound)
}

func (s *Source) ListSessions(ctx context.Context, req schema.ListSessionsRequest) (schema.ListSessionsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)
	out := make([]schema.Session, 0, len(state.sessions))
	for _, sess := range state.sessions {
		if req.WorkspaceID != "" && sess.WorkspaceID != req.WorkspaceID {
			continue
		}
		out = append(out, sess)
	}
	return schema.ListSessionsResponse{Sessions: out}, nil
}

func (s *Source) CreateSession(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)
	sess := s.addSession(state, req)
	s.logger.Debug("fixture session created", "user", req.UserID, "session", sess.ID)
	s.persistLocked(req.UserID, state)
	return schema.CreateSessionResponse{Session: sess}, nil
}

func (s *Source) GetSession(ctx context.Context, req schema.GetSessionRequest) (schema.GetSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)
	for _, sess := range state.sessions {
		if sess.ID == req.SessionID {
			return schema.GetSessionResponse{Session: sess}, nil
		}
	}
	return schema.GetSessionResponse{}, schema.NewAPIError(schema.KindNotFound, "get session", schema.ErrSessionNotFound)
}

func (s *Source) DeleteSession(ctx context.Context, req schema.DeleteSessionRequest) (schema.DeleteSessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)
	found := false
	kept := state.sessions[:0]
	for _, sess := range state.sessions {
		if sess.ID == req.SessionID {
			found = true
			continue
		}
		kept = append(kept, sess)
	}
	state.sessions = kept
	if !found {
		return schema.DeleteSessionResponse{}, schema.NewAPIError(schema.KindNotFound, "delete session", schema.ErrSessionNotFound)
	}
	delete(state.messages, req.SessionID)
	delete(state.files, req.SessionID)
	s.persistLocked(req.UserID, state)
	return schema.DeleteSessionResponse{}, nil
}

// Close flushes nothing; fixture state is persisted on every mutation.
func (s *Source) Close() error { return nil }

// addSession appends a session that is immediately running and ready, so
// demo conversations connect without waiting on provisioning.
func (s *Source) addSession(state *userState, req schema.CreateSessionRequest) schema.Session {
	now := s.now()
	sess := schema.Session{
		ID:               schema.SessionID(newID()),
		Name:             req.Name,
		WorkspaceID:      req.WorkspaceID,
		State:            schema.SessionStateRunning,
		CreatedAt:        now,
		UpdatedAt:        now,
		Repo:             schema.RepositoryRef{URL: req.RepoURL, Ref: req.RepoRef},
		Labels:           req.Labels,
		Ready:            true,
		InternalEndpoint: "fixture://sandbox",
	}
	if sess.WorkspaceID == "" {
		sess.WorkspaceID = schema.WorkspaceID(sess.ID)
	}
	state.sessions = append(state.sessions, sess)
	state.messages[sess.ID] = seedMessages(sess.ID, now)
	state.files[sess.ID] = seedFiles()
	return sess
}

// stateFor returns the user's state, loading any persisted snapshot and
// falling back to seeded demo data. Callers hold s.mu.
func (s *Source) stateFor(userID schema.UserID) *userState {
	if state, ok := s.users[userID]; ok {
		return state
	}
	state := &userState{
		messages: make(map[schema.SessionID][]schema.Message),
		files:    make(map[schema.SessionID][]schema.FileEntry),
	}
	if s.store != nil {
		if snapshot, ok, err := s.store.Load(userID); err == nil && ok {
			state.workspaces = snapshot.Workspaces
			for _, sess := range snapshot.Sessions {
				state.sessions = append(state.sessions, sess.Session)
				state.messages[sess.Session.ID] = sess.Messages
				state.files[sess.Session.ID] = sess.Files
			}
			s.users[userID] = state
			return state
		}
	}
	seedState(state, userID, s.now())
	s.users[userID] = state
	s.persistLocked(userID, state)
	return state
}

func (s *Source) persistLocked(userID schema.UserID, state *userState) {
	if s.store == nil {
		return
	}
	snapshot := persist.FixtureSnapshot{Workspaces: state.workspaces}
	for _, sess := range state.sessions {
		snapshot.Sessions = append(snapshot.Sessions, persist.SessionSnapshot{
			Session:  sess,
			Messages: state.messages[sess.ID],
			Files:    state.files[sess.ID],
		})
	}
	if err := s.store.Save(userID, snapshot); err != nil {
		s.logger.Warn("fixture persist failed", "user", userID, "err", err)
	}
}

func newID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().Format("150405.000")))
	}
	return hex.EncodeToString(buf)
}
