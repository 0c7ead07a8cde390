package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pkt.systems/coxswain/core"
	"pkt.systems/coxswain/internal/logx"
	"pkt.systems/coxswain/internal/notify"
	"pkt.systems/coxswain/schema"
	"pkt.systems/pslog"
)

// StatusReporter exposes the health monitor's advisory status.
type StatusReporter interface {
	Status() schema.ConnectionStatus
	Checking() bool
	CheckNow(ctx context.Context) schema.ConnectionStatus
}

// Server serves the JSON API and the SSE stream.
type Server struct {
	cfg     Config
	service core.Service
	monitor StatusReporter
	notify  *notify.Manager
	hub     *Hub
}

// NewServer constructs an HTTP server. Monitor, notifications and hub are
// optional; routes depending on a missing collaborator report 404.
func NewServer(cfg Config, service core.Service, monitor StatusReporter, notifier *notify.Manager, hub *Hub) *Server {
	if cfg.UserID == "" {
		cfg.UserID = schema.DefaultUserID
	}
	return &Server{
		cfg:     cfg,
		service: service,
		monitor: monitor,
		notify:  notifier,
		hub:     hub,
	}
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/status/check", s.handleStatusCheck)
	mux.HandleFunc("GET /api/conversations", s.handleListConversations)
	mux.HandleFunc("POST /api/conversations", s.handleCreateConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.handleDeleteConversation)
	mux.HandleFunc("GET /api/conversations/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/conversations/{id}/messages", s.handleSendMessage)
	mux.HandleFunc("GET /api/conversations/{id}/files", s.handleListFiles)
	mux.HandleFunc("GET /api/conversations/{id}/files/{path...}", s.handleReadFile)
	mux.HandleFunc("POST /api/conversations/{id}/terminal", s.handleExecute)
	mux.HandleFunc("GET /api/conversations/{id}/git", s.handleGitStatus)
	mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /api/notifications/{id}/dismiss", s.handleDismissNotification)
	mux.HandleFunc("GET /api/stream", s.handleStream)
	return withRequestLogging(mux)
}

// userFor resolves the acting user: the X-User header when present,
// otherwise the configured default.
func (s *Server) userFor(r *http.Request) schema.UserID {
	if header := strings.TrimSpace(r.Header.Get("X-User")); header != "" {
		return schema.UserID(header)
	}
	return s.cfg.UserID
}

// userScope annotates the request context and logger with the acting user
// so downstream layers log with the same fields.
func (s *Server) userScope(r *http.Request) (context.Context, schema.UserID, pslog.Logger) {
	userID := s.userFor(r)
	log := logx.WithUser(r.Context(), userID)
	ctx := logx.ContextWithUserLogger(r.Context(), log, userID)
	return ctx, userID, log
}

// sessionScope additionally picks the session id out of the route.
func (s *Server) sessionScope(r *http.Request) (context.Context, schema.UserID, schema.SessionID, pslog.Logger) {
	userID := s.userFor(r)
	sessionID := schema.SessionID(r.PathValue("id"))
	log := logx.WithUserSession(r.Context(), userID, sessionID)
	ctx := logx.ContextWithUserSessionLogger(r.Context(), log, userID, sessionID)
	return ctx, userID, sessionID, log
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	log := logx.Ctx(r.Context())
	health, err := s.service.CheckHealth(r.Context())
	if err != nil {
		log.Warn("http health failed", "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   health.State,
		"version": health.Version,
		"details": health.Details,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.monitor == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   s.monitor.Status(),
		"checking": s.monitor.Checking(),
	})
}

func (s *Server) handleStatusCheck(w http.ResponseWriter, r *http.Request) {
	if s.monitor == nil {
		http.NotFound(w, r)
		return
	}
	log := logx.Ctx(r.Context())
	status := s.monitor.CheckNow(r.Context())
	log.Info("http manual status check", "status", status)
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	ctx, userID, log := s.userScope(r)
	resp, err := s.service.LoadConversations(ctx, schema.LoadConversationsRequest{UserID: userID})
	if err != nil {
		log.Warn("http conversations list failed", "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": resp.Conversations})
	log.Info("http conversations list ok", "count", len(resp.Conversations))
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	ctx, userID, log := s.userScope(r)
	var payload struct {
		Title   string `json:"title"`
		RepoURL string `json:"repo_url"`
		RepoRef string `json:"repo_ref"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		log.Warn("http conversation decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp, err := s.service.CreateConversation(ctx, schema.CreateConversationRequest{
		UserID:  userID,
		Title:   payload.Title,
		RepoURL: payload.RepoURL,
		RepoRef: payload.RepoRef,
	})
	if err != nil {
		log.Warn("http conversation create failed", "err", err)
		if s.notify != nil {
			s.notify.Error("Failed to create conversation", err.Error())
		}
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversation": resp.Conversation})
	log.Info("http conversation create ok", "session", resp.Conversation.SessionID)
	if s.notify != nil {
		s.notify.Success("Conversation created", payload.Title)
	}
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	ctx, userID, sessionID, log := s.sessionScope(r)
	if _, err := s.service.DeleteConversation(ctx, schema.DeleteConversationRequest{
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		log.Warn("http conversation delete failed", "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	log.Info("http conversation delete ok")
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	ctx, userID, sessionID, log := s.sessionScope(r)
	resp, err := s.service.ListMessages(ctx, schema.ListMessagesRequest{
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		log.Warn("http messages list failed", "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": resp.Messages})
	log.Debug("http messages list ok", "count", len(resp.Messages))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, userID, sessionID, log := s.sessionScope(r)
	var payload struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		log.Warn("http message decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(payload.Content) == "" {
		writeError(w, http.StatusBadRequest, errors.New("content is required"))
		return
	}
	resp, err := s.service.SendMessage(ctx, schema.SendMessageRequest{
		UserID:    userID,
		SessionID: sessionID,
		Content:   payload.Content,
		Type:      schema.MessageType(payload.Type),
	})
	if err != nil {
		log.Warn("http message send failed", "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": resp.Message})
	log.Info("http message send ok", "message", resp.Message.ID)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	ctx, userID, sessionID, log := s.sessionScope(r)
	resp, err := s.service.ListFiles(ctx, schema.ListFilesRequest{
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		log.Warn("http files list failed", "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": resp.Files})
	log.Debug("http files list ok", "count", len(resp.Files))
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	ctx, userID, sessionID, log := s.sessionScope(r)
	path := r.PathValue("path")
	resp, err := s.service.ReadFile(ctx, schema.ReadFileRequest{
		UserID:    userID,
		SessionID: sessionID,
		Path:      path,
	})
	if err != nil {
		log.Warn("http file read failed", "path", path, "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"file": resp.File})
	log.Debug("http file read ok", "path", path)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	ctx, userID, sessionID, log := s.sessionScope(r)
	var payload struct {
		Command string `json:"command"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		log.Warn("http execute decode failed", "err", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(payload.Command) == "" {
		writeError(w, http.StatusBadRequest, errors.New("command is required"))
		return
	}
	resp, err := s.service.ExecuteCommand(ctx, schema.ExecuteCommandRequest{
		UserID:    userID,
		SessionID: sessionID,
		Command:   payload.Command,
	})
	if err != nil {
		log.Warn("http execute failed", "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": resp.Result})
	log.Info("http execute ok", "exit_code", resp.Result.ExitCode)
}

func (s *Server) handleGitStatus(w http.ResponseWriter, r *http.Request) {
	ctx, userID, sessionID, log := s.sessionScope(r)
	resp, err := s.service.GitStatus(ctx, schema.GitStatusRequest{
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		log.Warn("http git status failed", "err", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"git": resp.Status})
	log.Debug("http git status ok", "branch", resp.Status.Branch)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	if s.notify == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": s.notify.List()})
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	if s.notify == nil {
		http.NotFound(w, r)
		return
	}
	id := schema.NotificationID(r.PathValue("id"))
	s.notify.Dismiss(id)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	ctx, userID, log := s.userScope(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	lastID := parseUint(r.Header.Get("Last-Event-ID"))

	snapshot := s.buildSnapshot(ctx, userID)
	_ = writeSSEvent(w, StreamEvent{
		Type:      "snapshot",
		Snapshot:  &snapshot,
		Timestamp: time.Now(),
	})
	flusher.Flush()

	replayCount := 0
	if lastID > 0 {
		replay := s.hub.Replay(lastID)
		replayCount = len(replay)
		for _, event := range replay {
			_ = writeSSEvent(w, event)
		}
		flusher.Flush()
	}

	ch, unsubscribe, _, _ := s.hub.Subscribe()
	defer unsubscribe()

	done := ctx.Done()
	log.Info("http stream opened", "last_id", lastID, "replay", replayCount, "conversations", len(snapshot.Conversations))
	for {
		select {
		case <-done:
			log.Info("http stream closed")
			return
		case event := <-ch:
			_ = writeSSEvent(w, event)
			flusher.Flush()
		}
	}
}

func (s *Server) buildSnapshot(ctx context.Context, userID schema.UserID) SnapshotPayload {
	snapshot := SnapshotPayload{Status: schema.StatusDisconnected}
	if resp, err := s.service.LoadConversations(ctx, schema.LoadConversationsRequest{UserID: userID}); err == nil {
		snapshot.Conversations = resp.Conversations
	}
	if s.monitor != nil {
		snapshot.Status = s.monitor.Status()
	}
	if s.notify != nil {
		snapshot.Notifications = s.notify.List()
	}
	return snapshot
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeAPIError maps the shared error taxonomy onto HTTP statuses.
func writeAPIError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, schema.ErrInvalidRequest) {
		status = http.StatusBadRequest
	} else {
		switch schema.ErrorKind(err) {
		case schema.KindUnauthorized:
			status = http.StatusUnauthorized
		case schema.KindForbidden:
			status = http.StatusForbidden
		case schema.KindNotFound:
			status = http.StatusNotFound
		case schema.KindNetworkError, schema.KindConnectionError, schema.KindServerError:
			status = http.StatusBadGateway
		}
	}
	writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"kind":  schema.ErrorKind(err),
	})
}

func writeSSEvent(w http.ResponseWriter, event StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if event.Seq > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", event.Seq)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", strings.TrimSpace(string(data)))
	return nil
}

func parseUint(value string) uint64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
